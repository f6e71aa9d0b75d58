package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/schema"
)

// ============================================================================
// CSV HELPER — Loads CSV data as a component data response
// ============================================================================
// The host reads the CSV from wherever it lives; this helper turns the raw
// bytes into Records keyed by schema.ColumnKey. Cell values stay raw text:
// the engine parses numbers itself, the way a loader's JSON strings arrive.
// ============================================================================

// ParseCSV parses CSV bytes into Records restricted to the dataset's
// columns. A dataset with no columns keeps every column.
func ParseCSV(data []byte, ds schema.Dataset) ([]engine.Record, error) {
	keep := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		keep[c.Name] = true
	}

	records, _, err := parse(data, func(key string) bool {
		return len(keep) == 0 || keep[key]
	})
	return records, err
}

// ParseCSVAuto parses CSV without a dataset. Returns the records and the
// column keys in header order.
func ParseCSVAuto(data []byte) ([]engine.Record, []string, error) {
	return parse(data, func(string) bool { return true })
}

func parse(data []byte, include func(key string) bool) ([]engine.Record, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	keys := make([]string, len(headers))
	var kept []string
	for i, h := range headers {
		key := schema.ColumnKey(h)
		if key == "" || !include(key) {
			continue // unmapped columns are silently skipped
		}
		keys[i] = key
		kept = append(kept, key)
	}

	records := []engine.Record{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		rec := make(engine.Record, len(kept))
		for i, val := range row {
			if i >= len(keys) {
				break
			}
			if keys[i] == "" {
				continue
			}
			rec[keys[i]] = strings.TrimSpace(val)
		}
		records = append(records, rec)
	}

	return records, kept, nil
}

// LoadCSV reads a CSV file as a data response. Read and parse failures
// become the response's error message, never a Go error: components show
// upstream errors verbatim.
func LoadCSV(path string, ds schema.Dataset) engine.DataResponse {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.DataResponse{Error: fmt.Sprintf("load %s: %v", ds.Name, err)}
	}
	records, err := ParseCSV(data, ds)
	if err != nil {
		return engine.DataResponse{Error: fmt.Sprintf("load %s: %v", ds.Name, err)}
	}
	return engine.DataResponse{Data: records}
}

// DiscoverCSV reads a CSV file and discovers its dataset columns.
func DiscoverCSV(path, name string) (*schema.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{SampleSize: 1000, Name: name})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", path, err)
	}
	ds.DiscoveredFrom = path
	return ds, nil
}

// ParseCSVView parses CSV into a RecordView (convenience wrapper).
func ParseCSVView(data []byte, ds schema.Dataset) (engine.RecordView, error) {
	records, err := ParseCSV(data, ds)
	if err != nil {
		return nil, err
	}
	return engine.NewSliceView(records), nil
}
