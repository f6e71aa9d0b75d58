package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func column(view RecordView, key string) []string {
	out := make([]string, view.Len())
	for i := range out {
		out[i] = TextAt(view, i, key)
	}
	return out
}

var sortColumns = []Column{
	{Name: "name", NativeType: TypeString},
	{Name: "team", NativeType: TypeString},
	{Name: "score", NativeType: TypeNumber},
	{Name: "joined", NativeType: TypeTime},
}

func sortFixture() RecordView {
	return NewSliceView([]Record{
		{"name": "carol", "team": "red", "score": "9", "joined": "2024-03-01"},
		{"name": "Alice", "team": "blue", "score": "10", "joined": "2023-11-20"},
		{"name": "bob", "team": "red", "score": "n/a", "joined": "2024-01-15"},
		{"name": "dave", "team": "blue", "score": "2", "joined": "2022-07-04"},
	})
}

func TestSortRowsNumeric(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, []SortKey{{"score", Ascending}})
	assert.Equal(t, []string{"2", "9", "10", "n/a"}, column(got, "score"))

	got = SortRows(sortFixture(), sortColumns, []SortKey{{"score", Descending}})
	assert.Equal(t, []string{"n/a", "10", "9", "2"}, column(got, "score"))
}

func TestSortRowsStringIgnoresCase(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, []SortKey{{"name", Ascending}})
	assert.Equal(t, []string{"Alice", "bob", "carol", "dave"}, column(got, "name"))
}

func TestSortRowsTime(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, []SortKey{{"joined", Descending}})
	assert.Equal(t, []string{"carol", "bob", "Alice", "dave"}, column(got, "name"))
}

func TestSortRowsMultiKey(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, []SortKey{{"team", Ascending}, {"score", Descending}})
	assert.Equal(t, []string{"Alice", "dave", "bob", "carol"}, column(got, "name"))
}

func TestSortRowsStable(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, []SortKey{{"team", Descending}})
	// ties keep loader order
	assert.Equal(t, []string{"carol", "bob", "Alice", "dave"}, column(got, "name"))
}

func TestSortRowsNoKeysKeepsOrder(t *testing.T) {
	got := SortRows(sortFixture(), sortColumns, nil)
	assert.Equal(t, []string{"carol", "Alice", "bob", "dave"}, column(got, "name"))
}

func TestSortRowsUnknownColumnSortsAsText(t *testing.T) {
	view := NewSliceView([]Record{{"x": "b"}, {"x": "a"}, {"x": "10"}, {"x": "9"}})
	got := SortRows(view, nil, []SortKey{{"x", Ascending}})
	assert.Equal(t, []string{"9", "10", "a", "b"}, column(got, "x"))
}

func TestSortRowsWithCompare(t *testing.T) {
	byLength := func(a, b Cell, _ Column) int { return len(a.Text) - len(b.Text) }

	got := SortRows(sortFixture(), sortColumns, []SortKey{{"name", Ascending}}, WithCompare(byLength))
	assert.Equal(t, []string{"bob", "dave", "carol", "Alice"}, column(got, "name"))
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2024-03-01", "2024-03-01T10:00:00Z", "Jan-2026", "2026-01", "2024-03-01 10:00:00"} {
		_, ok := ParseTime(s)
		assert.True(t, ok, "ParseTime(%q)", s)
	}
	_, ok := ParseTime("soon")
	assert.False(t, ok)
}
