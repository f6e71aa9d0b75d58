package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// CELLS — Column projection of records into display-ready values
// ============================================================================

// Cell is one table value: a number when the raw text is an exact numeric
// literal, otherwise the raw text.
type Cell struct {
	Text     string
	Number   float64
	IsNumber bool
}

// NumberCell builds a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Text: FormatNumber(v), Number: v, IsNumber: true}
}

// TextCell builds a text cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// ParseCell returns a numeric cell when raw round-trips through float
// parsing unchanged ("12.5" yes, "012", "1e3" and "12abc" no).
func ParseCell(raw string) Cell {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return TextCell(raw)
	}
	if FormatNumber(f) != raw {
		return TextCell(raw)
	}
	return NumberCell(f)
}

func (c Cell) String() string { return c.Text }

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.IsNumber {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Text)
}

// Project extracts columns from every record of view, in column order.
// Columns with no name yield empty text cells.
func Project(view RecordView, columns []Column) [][]Cell {
	rows := make([][]Cell, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]Cell, len(columns))
		for j, col := range columns {
			if col.Name == "" {
				row[j] = TextCell("")
				continue
			}
			row[j] = ParseCell(TextAt(view, i, col.Name))
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatNumber renders f in its shortest round-trip decimal form, switching
// to exponent notation below 1e-6 and from 1e21 ("1e+21", "1.5e-7").
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
