package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ============================================================================
// SORTING — Multi-key row ordering
// ============================================================================
// Cells for every sort key are parsed once up front; the comparator then
// walks the keys in priority order. The sort is stable, so rows that tie on
// every key keep their loader order.
// ============================================================================

// CompareFunc orders two cells of col ascending: <0, 0 or >0.
type CompareFunc func(a, b Cell, col Column) int

// NaturalCompare orders cells by the column's native type: numbers
// numerically, times chronologically, strings case-insensitively.
// Numbers sort before non-numeric text in number columns, and unparsable
// times fall back to text order.
func NaturalCompare(a, b Cell, col Column) int {
	switch col.NativeType {
	case TypeNumber:
		switch {
		case a.IsNumber && b.IsNumber:
			return compareFloat(a.Number, b.Number)
		case a.IsNumber:
			return -1
		case b.IsNumber:
			return 1
		}
	case TypeTime:
		ta, okA := ParseTime(a.Text)
		tb, okB := ParseTime(b.Text)
		if okA && okB {
			return ta.Compare(tb)
		}
	default:
		if a.IsNumber && b.IsNumber {
			return compareFloat(a.Number, b.Number)
		}
	}
	if c := strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text)); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortRows orders view by keys and returns the result as a zero-copy view.
// Sort columns are looked up in columns by name; unknown names sort as
// strings.
func SortRows(view RecordView, columns []Column, keys []SortKey, opts ...Option) RecordView {
	cfg := applyOptions(opts)

	n := view.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if n < 2 || len(keys) == 0 {
		return newSubView(view, indices)
	}

	byName := make(map[string]Column, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}

	type sortColumn struct {
		col   Column
		desc  bool
		cells []Cell
	}
	sortCols := make([]sortColumn, 0, len(keys))
	for _, k := range keys {
		col, ok := byName[k.Column]
		if !ok {
			col = Column{Name: k.Column, NativeType: TypeString}
		}
		cells := make([]Cell, n)
		for i := 0; i < n; i++ {
			cells[i] = ParseCell(TextAt(view, i, k.Column))
		}
		sortCols = append(sortCols, sortColumn{
			col:   col,
			desc:  k.Direction.normalize() == Descending,
			cells: cells,
		})
	}

	slices.SortStableFunc(indices, func(a, b int) int {
		for _, sc := range sortCols {
			c := cfg.Compare(sc.cells[a], sc.cells[b], sc.col)
			if c == 0 {
				continue
			}
			if sc.desc {
				return -c
			}
			return c
		}
		return 0
	})

	cfg.Logger.Debug("sorted rows", zap.Int("rows", n), zap.Stringers("sort", keys))
	return newSubView(view, indices)
}

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006",
}

// ParseTime parses s with the time layouts datasets commonly emit.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
