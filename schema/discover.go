package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/exp/slices"

	"github.com/spektr-org/panels/engine"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column typing
// ============================================================================
// Inspects raw CSV and produces a column descriptor per header.
//
// Per column:
//   1. Sample values, skipping empty/null markers
//   2. Detect native type (time, number, string) by 80% majority
//   3. Record display hints in Meta (decimals, currency symbol, cardinality)
//
// Keys are snake_case headers, the same keys helpers.ParseCSV gives records.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all). Default: 1000
	Name       string // Dataset name
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a Dataset by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Dataset, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}

	var rows [][]string
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	columns := DiscoverColumns(headers, rows)
	if len(columns) == 0 {
		return nil, fmt.Errorf("discover %q: %w", opt.Name, ErrNoColumns)
	}

	return &Dataset{
		Name:           opt.Name,
		Columns:        columns,
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// DiscoverColumns types every header from the sampled rows.
// Headers that produce an empty key are skipped.
func DiscoverColumns(headers []string, rows [][]string) []engine.Column {
	columns := make([]engine.Column, 0, len(headers))
	for i, header := range headers {
		key := ColumnKey(header)
		if key == "" {
			continue
		}
		columns = append(columns, analyzeColumn(header, key, i, rows))
	}
	return columns
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

func analyzeColumn(header, key string, index int, rows [][]string) engine.Column {
	col := engine.Column{
		Name:       key,
		Title:      toDisplayName(header),
		NativeType: engine.TypeString,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNull(val) {
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	if len(values) == 0 {
		return col
	}

	col.NativeType = detectType(values)
	meta := map[string]any{}

	switch col.NativeType {
	case engine.TypeNumber:
		if d := maxDecimals(values); d > 0 {
			meta["decimals"] = d
		}
		if sym := currencySymbol(values); sym != "" {
			meta["currency"] = sym
		}
	case engine.TypeString:
		meta["cardinality"] = cardinalityHint(len(uniqueSet))
		meta["samples"] = collectSamples(uniqueSet, 5)
	}

	if len(meta) > 0 {
		col.Meta = meta
	}
	return col
}

func isNull(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

func cardinalityHint(unique int) string {
	switch {
	case unique <= 10:
		return "low"
	case unique <= 100:
		return "medium"
	default:
		return "high"
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine the native column type.
// Requires 80%+ of non-null values to match for time/number.
// Bare numbers never count as times, so a year column types as number.
func detectType(values []string) engine.NativeType {
	numCount := 0
	timeCount := 0

	for _, v := range values {
		if isNumeric(v) {
			numCount++
			continue
		}
		if _, ok := engine.ParseTime(v); ok {
			timeCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold < 1 {
		threshold = 1
	}

	switch {
	case timeCount >= threshold:
		return engine.TypeTime
	case numCount >= threshold:
		return engine.TypeNumber
	default:
		return engine.TypeString
	}
}

var currencySymbols = []string{"$", "€", "£"}

func stripNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "-")
	for _, sym := range currencySymbols {
		s = strings.TrimPrefix(s, sym)
	}
	return s
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(stripNumber(s), 64)
	return err == nil
}

// maxDecimals returns the longest fractional part seen.
func maxDecimals(values []string) int {
	most := 0
	for _, v := range values {
		s := stripNumber(v)
		if strings.ContainsAny(s, "eE") {
			continue
		}
		if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > most {
			most = len(frac)
		}
	}
	return most
}

// currencySymbol returns the symbol prefixing most values, if any.
func currencySymbol(values []string) string {
	for _, sym := range currencySymbols {
		n := 0
		for _, v := range values {
			if strings.HasPrefix(strings.TrimPrefix(strings.TrimSpace(v), "-"), sym) {
				n++
			}
		}
		if float64(n)/float64(len(values)) >= 0.8 {
			return sym
		}
	}
	return ""
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// ColumnKey converts "Column Name" or "columnName" → "column_name".
func ColumnKey(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))

	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	if strings.Contains(s, " ") {
		return s
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	slices.Sort(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
