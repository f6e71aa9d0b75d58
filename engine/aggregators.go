package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// ============================================================================
// AGGREGATORS — Row-to-series bucketing via RecordView
// ============================================================================
// Two passes over the view:
//   1. cardinality + first-seen rank of every primary / secondary value
//   2. accumulation into grouped[secondary][primary], collapsing the tail
//      of each axis into OverflowLabel once it exceeds its cap
// The passes stay separate: overflow rank must be known before any cell
// is accumulated.
// ============================================================================

const (
	// DefaultMaxKeys is the default and the hard cap for both axes.
	DefaultMaxKeys = 50

	// OverflowLabel collects values ranked past an axis cap.
	OverflowLabel = "Other"

	// DefaultSeriesName names the single series when no secondary grouping
	// is configured or a record has no secondary value.
	DefaultSeriesName = "default"
)

// BucketSpec selects the columns and caps for Bucketize.
type BucketSpec struct {
	Primary          string // column for category labels (required)
	Secondary        string // column for series names (optional)
	Measure          string // numeric column summed into cells (required)
	MaxPrimaryKeys   int    // 0 → DefaultMaxKeys; capped at DefaultMaxKeys
	MaxSecondaryKeys int    // 0 → DefaultMaxKeys; capped at DefaultMaxKeys
}

// EmptySeriesSet is what Bucketize returns when there is nothing to aggregate.
func EmptySeriesSet() SeriesSet {
	return SeriesSet{Labels: []string{}, Series: []Series{}, MaxCount: 1}
}

// Bucketize aggregates records into a label × series matrix of summed measures.
//
// Labels and series keep first-seen order. Missing label/series combinations
// are 0. Measures are parsed as base-10 integers; values that do not parse
// contribute nothing. MaxCount is the largest cell, never below 1.
func Bucketize(view RecordView, spec BucketSpec, opts ...Option) SeriesSet {
	cfg := applyOptions(opts)

	if view == nil || view.Len() == 0 || spec.Primary == "" || spec.Measure == "" {
		return EmptySeriesSet()
	}

	maxA := capKeys(spec.MaxPrimaryKeys)
	maxB := capKeys(spec.MaxSecondaryKeys)
	n := view.Len()

	// ── Pass 1: cardinality and first-seen rank ──────────────────────────
	rankA := make(map[string]int)
	rankB := make(map[string]int)
	// Every record counts here, including those with no primary value: they
	// take a rank and register their secondary even though pass 2 skips them.
	for i := 0; i < n; i++ {
		a := TextAt(view, i, spec.Primary)
		if _, ok := rankA[a]; !ok {
			rankA[a] = len(rankA)
		}
		b := secondaryValue(view, i, spec.Secondary)
		if _, ok := rankB[b]; !ok {
			rankB[b] = len(rankB)
		}
	}

	overflowA := len(rankA) > maxA
	overflowB := len(rankB) > maxB

	// ── Pass 2: accumulation ─────────────────────────────────────────────
	grouped := make(map[string]map[string]int64)
	seriesOrder := make([]string, 0)
	labels := make([]string, 0)
	seenLabel := make(map[string]bool)
	var maxCount int64
	invalid := 0

	for i := 0; i < n; i++ {
		a := TextAt(view, i, spec.Primary)
		if a == "" {
			continue
		}
		b := secondaryValue(view, i, spec.Secondary)

		keyA := a
		if overflowA && rankA[a] >= maxA-1 {
			keyA = OverflowLabel
		}
		keyB := b
		if overflowB && rankB[b] >= maxB-1 {
			keyB = OverflowLabel
		}

		cells, ok := grouped[keyB]
		if !ok {
			cells = make(map[string]int64)
			grouped[keyB] = cells
			seriesOrder = append(seriesOrder, keyB)
		}

		if v, ok := ParseLeadingInt(TextAt(view, i, spec.Measure)); ok {
			cells[keyA] = addSaturating(cells[keyA], v)
		} else {
			invalid++
		}
		if cells[keyA] > maxCount {
			maxCount = cells[keyA]
		}

		if !seenLabel[keyA] {
			seenLabel[keyA] = true
			labels = append(labels, keyA)
		}
	}

	series := make([]Series, 0, len(seriesOrder))
	for _, name := range seriesOrder {
		data := make([]float64, len(labels))
		for j, label := range labels {
			data[j] = float64(grouped[name][label])
		}
		series = append(series, Series{Name: name, Data: data})
	}

	if maxCount < 1 {
		maxCount = 1
	}

	cfg.Logger.Debug("bucketized records",
		zap.Int("records", n),
		zap.Int("primaryKeys", len(rankA)),
		zap.Int("secondaryKeys", len(rankB)),
		zap.Bool("primaryOverflow", overflowA),
		zap.Bool("secondaryOverflow", overflowB),
		zap.Int("invalidMeasures", invalid),
	)

	return SeriesSet{
		Labels:   labels,
		Series:   series,
		MaxCount: float64(maxCount),
	}
}

// capKeys applies the default and the hard cap to an axis limit.
func capKeys(n int) int {
	if n <= 0 || n > DefaultMaxKeys {
		return DefaultMaxKeys
	}
	return n
}

func secondaryValue(view RecordView, i int, key string) string {
	if key == "" {
		return DefaultSeriesName
	}
	if v := TextAt(view, i, key); v != "" {
		return v
	}
	return DefaultSeriesName
}

// ParseLeadingInt parses the leading base-10 integer of s.
// Leading whitespace and a sign are allowed; parsing stops at the first
// non-digit ("12.7" → 12, "42px" → 42). Values beyond the int64 range
// saturate at math.MaxInt64 / math.MinInt64. Reports false when s has no
// leading digits.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	// ParseInt returns the saturated value along with ErrRange.
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// addSaturating adds two int64s, clamping instead of wrapping on overflow.
func addSaturating(a, b int64) int64 {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt64
	}
	return sum
}
