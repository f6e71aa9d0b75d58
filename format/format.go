package format

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/spektr-org/panels/engine"
)

// ============================================================================
// FORMAT — Display text for projected table cells
// ============================================================================
// Cells keep their parsed value for sorting; formatting only changes what a
// renderer prints. Column meta drives it:
//   decimals  fixed fraction digits for numbers
//   currency  symbol prefix for numbers ("$", "€")
//   layout    Go time layout for times (default "2006-01-02")
// ============================================================================

// DefaultDateLayout renders times without a clock component.
const DefaultDateLayout = "2006-01-02"

// Cell returns the display text of c in col. Numbers get thousands
// separators, times a uniform layout; everything else prints raw.
func Cell(c engine.Cell, col engine.Column) string {
	if c.Text == "" {
		return ""
	}
	switch col.NativeType {
	case engine.TypeNumber:
		if c.IsNumber {
			return Number(c.Number, col)
		}
	case engine.TypeTime:
		if t, ok := engine.ParseTime(c.Text); ok {
			return Date(t, col)
		}
	}
	return c.Text
}

// Number formats v with comma separators using col's decimals and
// currency meta. Without decimals meta, integers print bare and fractions
// keep up to two digits.
func Number(v float64, col engine.Column) string {
	var s string
	if d, ok := metaInt(col.Meta, "decimals"); ok {
		s = humanize.FormatFloat("#,###."+strings.Repeat("#", d), math.Abs(v))
	} else if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		s = humanize.Comma(int64(math.Abs(v)))
	} else {
		s = humanize.CommafWithDigits(math.Abs(v), 2)
	}

	negative := v < 0 && strings.Trim(s, "0.,") != ""
	if sym, _ := col.Meta["currency"].(string); sym != "" {
		s = sym + s
	}
	if negative {
		s = "-" + s
	}
	return s
}

// Date formats t with col's layout meta, or DefaultDateLayout. Times with a
// clock component also show hours and minutes.
func Date(t time.Time, col engine.Column) string {
	if layout, _ := col.Meta["layout"].(string); layout != "" {
		return t.Format(layout)
	}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		return t.Format(DefaultDateLayout + " 15:04")
	}
	return t.Format(DefaultDateLayout)
}

// Count formats a row count with comma separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// metaInt reads an integer meta value that may have come from Go code,
// YAML (int) or JSON (float64).
func metaInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return clampDecimals(v), true
	case int64:
		return clampDecimals(int(v)), true
	case float64:
		return clampDecimals(int(v)), true
	}
	return 0, false
}

func clampDecimals(d int) int {
	if d < 0 {
		return 0
	}
	if d > 9 {
		return 9
	}
	return d
}
