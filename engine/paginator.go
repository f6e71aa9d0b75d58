package engine

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================================
// PAGINATOR — Per-instance sort / page view state
// ============================================================================
// ViewState is a value. Every operation returns an updated copy and never
// touches the receiver, so the owning instance decides when to persist it.
// ============================================================================

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"

	// DefaultDirection applies when a column is first promoted to the sort.
	DefaultDirection = Ascending
)

// Invert flips asc ↔ desc. An unset direction counts as DefaultDirection.
func (d Direction) Invert() Direction {
	if d.normalize() == Descending {
		return Ascending
	}
	return Descending
}

func (d Direction) normalize() Direction {
	if d == Descending {
		return Descending
	}
	return Ascending
}

// SortKey is one (column, direction) pair of a sort specification.
type SortKey struct {
	Column    string    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

func (k SortKey) String() string {
	return k.Column + ":" + string(k.Direction.normalize())
}

// ParseSort parses "col:asc,other:desc". A missing direction means
// DefaultDirection; empty entries are ignored.
func ParseSort(s string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, dir, _ := strings.Cut(part, ":")
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("sort entry %q has no column", part)
		}
		key := SortKey{Column: col, Direction: DefaultDirection}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			key.Direction = Descending
		default:
			return nil, fmt.Errorf("sort entry %q: unknown direction %q", part, dir)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ViewState is the mutable sort/page state of one table instance.
type ViewState struct {
	Page        int       `json:"page" yaml:"page"`
	Sort        []SortKey `json:"sort" yaml:"sort"`
	RowsPerPage int       `json:"rowsPerPage" yaml:"rowsPerPage"`
}

// NewViewState returns the state a table starts with on first render.
func NewViewState(defaultSort []SortKey, rowsPerPage int) ViewState {
	if rowsPerPage < 0 {
		rowsPerPage = 0
	}
	return ViewState{
		Page:        0,
		Sort:        slices.Clone(defaultSort),
		RowsPerPage: rowsPerPage,
	}
}

// SortIndex returns the position of column in the sort, or -1.
func (s ViewState) SortIndex(column string) int {
	return slices.IndexFunc(s.Sort, func(k SortKey) bool { return k.Column == column })
}

// UpdateSort applies a click on column's header.
//
// The primary column flips direction in place. Any other column moves to
// the front keeping its direction (DefaultDirection when it was not sorted
// yet); the rest keep their relative order. The page always resets to 0.
func (s ViewState) UpdateSort(column string) ViewState {
	sort := slices.Clone(s.Sort)
	idx := s.SortIndex(column)

	switch {
	case idx == 0:
		sort[0].Direction = sort[0].Direction.Invert()
	case idx > 0:
		key := sort[idx]
		key.Direction = key.Direction.normalize()
		sort = slices.Delete(sort, idx, idx+1)
		sort = slices.Insert(sort, 0, key)
	default:
		sort = slices.Insert(sort, 0, SortKey{Column: column, Direction: DefaultDirection})
	}

	s.Sort = sort
	s.Page = 0
	return s
}

// NextPage advances one page. There is no upper bound here; callers stop
// offering it once a page comes back short (TableData.HasNext).
func (s ViewState) NextPage() ViewState {
	s.Sort = slices.Clone(s.Sort)
	s.Page++
	return s
}

// PrevPage goes back one page, never below 0.
func (s ViewState) PrevPage() ViewState {
	s.Sort = slices.Clone(s.Sort)
	if s.Page > 0 {
		s.Page--
	}
	return s
}

// WithRowsPerPage sets the page size measured by the host. Negative sizes
// count as 0.
func (s ViewState) WithRowsPerPage(n int) ViewState {
	s.Sort = slices.Clone(s.Sort)
	if n < 0 {
		n = 0
	}
	s.RowsPerPage = n
	return s
}

// Bounds returns the [start, end) row window of the current page over total
// rows, clamped to total.
func (s ViewState) Bounds(total int) (int, int) {
	page := s.Page
	if page < 0 {
		page = 0
	}
	start := page * s.RowsPerPage
	end := start + s.RowsPerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end
}

// Window returns the rows of the current page as a zero-copy view.
func Window(view RecordView, state ViewState) RecordView {
	start, end := state.Bounds(view.Len())
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return newSubView(view, indices)
}

// Table layout constants used to derive a page size from a pixel height.
const (
	TableHeaderHeight = 72
	TableRowHeight    = 44
)

// RowsThatFit returns how many table rows fit in height pixels below the
// header.
func RowsThatFit(height int) int {
	if height <= TableHeaderHeight {
		return 0
	}
	return (height - TableHeaderHeight) / TableRowHeight
}
