package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// VIEW STATE TESTS
// ============================================================================

func TestUpdateSortInvertsPrimary(t *testing.T) {
	state := ViewState{
		Page: 3,
		Sort: []SortKey{{"a", Ascending}, {"b", Descending}},
	}

	got := state.UpdateSort("a")

	want := []SortKey{{"a", Descending}, {"b", Descending}}
	if diff := cmp.Diff(want, got.Sort); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, got.Page)

	back := got.UpdateSort("a")
	assert.Equal(t, Ascending, back.Sort[0].Direction)
}

func TestUpdateSortPromotesColumn(t *testing.T) {
	state := ViewState{
		Page: 2,
		Sort: []SortKey{{"a", Ascending}, {"b", Descending}, {"c", Descending}},
	}

	got := state.UpdateSort("c")

	want := []SortKey{{"c", Descending}, {"a", Ascending}, {"b", Descending}}
	if diff := cmp.Diff(want, got.Sort); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, got.Page)
}

func TestUpdateSortAddsUnsortedColumn(t *testing.T) {
	state := ViewState{Page: 5, Sort: []SortKey{{"a", Descending}}}

	got := state.UpdateSort("z")

	want := []SortKey{{"z", DefaultDirection}, {"a", Descending}}
	if diff := cmp.Diff(want, got.Sort); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, got.Page)
}

func TestUpdateSortOnEmptySort(t *testing.T) {
	got := NewViewState(nil, 10).UpdateSort("a")

	assert.Equal(t, []SortKey{{"a", Ascending}}, got.Sort)
	assert.Equal(t, 10, got.RowsPerPage)
}

func TestUpdateSortUnsetDirection(t *testing.T) {
	state := ViewState{Sort: []SortKey{{Column: "a"}, {Column: "b"}}}

	assert.Equal(t, Descending, state.UpdateSort("a").Sort[0].Direction)
	assert.Equal(t, Ascending, state.UpdateSort("b").Sort[0].Direction)
}

func TestUpdateSortLeavesReceiverUntouched(t *testing.T) {
	state := ViewState{Page: 1, Sort: []SortKey{{"a", Ascending}, {"b", Ascending}}}

	_ = state.UpdateSort("a")
	_ = state.UpdateSort("b")

	assert.Equal(t, []SortKey{{"a", Ascending}, {"b", Ascending}}, state.Sort)
	assert.Equal(t, 1, state.Page)
}

func TestPaging(t *testing.T) {
	state := NewViewState(nil, 4)

	state = state.PrevPage()
	assert.Equal(t, 0, state.Page, "prev at page 0 stays at 0")

	state = state.NextPage().NextPage()
	assert.Equal(t, 2, state.Page)

	state = state.PrevPage()
	assert.Equal(t, 1, state.Page)
}

func TestNewViewStateCopiesDefaultSort(t *testing.T) {
	defaults := []SortKey{{"a", Ascending}}
	state := NewViewState(defaults, -3)

	state.Sort[0].Direction = Descending

	assert.Equal(t, Ascending, defaults[0].Direction)
	assert.Equal(t, 0, state.RowsPerPage)
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name       string
		state      ViewState
		total      int
		start, end int
	}{
		{"first page", ViewState{Page: 0, RowsPerPage: 4}, 10, 0, 4},
		{"last partial page", ViewState{Page: 2, RowsPerPage: 4}, 10, 8, 10},
		{"past the end", ViewState{Page: 7, RowsPerPage: 4}, 10, 10, 10},
		{"zero page size", ViewState{Page: 0, RowsPerPage: 0}, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.state.Bounds(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestWindow(t *testing.T) {
	var records []Record
	for i := 0; i < 10; i++ {
		records = append(records, Record{"n": i})
	}
	state := NewViewState(nil, 4).NextPage().NextPage()

	page := Window(NewSliceView(records), state)

	require.Equal(t, 2, page.Len())
	assert.Equal(t, 8, page.Value(0, "n"))
	assert.Equal(t, 9, page.Value(1, "n"))
}

func TestParseSort(t *testing.T) {
	keys, err := ParseSort("region, revenue:desc ,date:ASC")
	require.NoError(t, err)
	assert.Equal(t, []SortKey{
		{"region", Ascending},
		{"revenue", Descending},
		{"date", Ascending},
	}, keys)

	keys, err = ParseSort("")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = ParseSort("region:sideways")
	assert.Error(t, err)

	_, err = ParseSort(":desc")
	assert.Error(t, err)
}

func TestRowsThatFit(t *testing.T) {
	assert.Equal(t, 0, RowsThatFit(0))
	assert.Equal(t, 0, RowsThatFit(TableHeaderHeight))
	assert.Equal(t, 0, RowsThatFit(115))
	assert.Equal(t, 1, RowsThatFit(116))
	assert.Equal(t, 5, RowsThatFit(300))
}
