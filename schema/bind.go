package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"

	"github.com/spektr-org/panels/engine"
)

// ============================================================================
// BINDING — Raw input values → typed, resolved inputs
// ============================================================================
// Raw values come from YAML or JSON, so numbers may arrive as int or float64
// and booleans as bool or "true". Every input is checked; all problems are
// returned together. Unset inputs are not an error: components degrade to
// an empty render when required inputs are missing.
// ============================================================================

// Bound holds the resolved inputs of one component instance.
type Bound struct {
	meta   Meta
	values map[string]any
}

// Bind resolves raw input values against meta. Dataset inputs must name a
// dataset in datasets; dimension and measure inputs resolve to the column
// descriptors of the dataset their Config.Dataset input names.
//
// The returned Bound holds every input that resolved, even when err is
// non-nil. err combines one error per failing input and can be matched with
// errors.Is against the package sentinels.
func Bind(meta Meta, raw map[string]any, datasets map[string]Dataset) (Bound, error) {
	b := Bound{meta: meta, values: make(map[string]any, len(raw))}
	var err error

	for _, name := range sortedKeys(raw) {
		if _, ok := meta.Input(name); !ok {
			err = multierr.Append(err, fmt.Errorf("%s.%s: %w", meta.Name, name, ErrUnknownInput))
		}
	}

	for _, in := range meta.Inputs {
		v, ok := raw[in.Name]
		if !ok || v == nil {
			continue
		}
		resolved, bindErr := bindInput(in, v, raw, datasets)
		if bindErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s.%s: %w", meta.Name, in.Name, bindErr))
			continue
		}
		b.values[in.Name] = resolved
	}

	return b, err
}

func bindInput(in Input, v any, raw map[string]any, datasets map[string]Dataset) (any, error) {
	switch in.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrInputType, v)
		}
		return s, nil

	case TypeBoolean:
		return toBool(v)

	case TypeNumber:
		return toNumber(v)

	case TypeDataset:
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want dataset name, got %T", ErrInputType, v)
		}
		if _, ok := datasets[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingDataset, name)
		}
		return name, nil

	case TypeDimension, TypeMeasure:
		dsName, _ := raw[in.Config.Dataset].(string)
		ds, ok := datasets[dsName]
		if !ok {
			return nil, fmt.Errorf("%w: input %q is unset or unknown", ErrMissingDataset, in.Config.Dataset)
		}
		names, err := columnNames(in, v)
		if err != nil {
			return nil, err
		}
		cols := make([]engine.Column, 0, len(names))
		for _, name := range names {
			col, ok := ds.Column(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q in dataset %q", ErrColumnNotFound, name, ds.Name)
			}
			cols = append(cols, col)
		}
		if in.Array {
			return cols, nil
		}
		return cols[0], nil

	default:
		return nil, fmt.Errorf("%w: unsupported input type %q", ErrInputType, in.Type)
	}
}

func columnNames(in Input, v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []string:
		if !in.Array {
			return nil, fmt.Errorf("%w: %s input takes a single column", ErrInputType, in.Type)
		}
		return t, nil
	case []any:
		if !in.Array {
			return nil, fmt.Errorf("%w: %s input takes a single column", ErrInputType, in.Type)
		}
		names := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: want column name, got %T", ErrInputType, item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: want column name, got %T", ErrInputType, v)
	}
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInputType, t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: want boolean, got %T", ErrInputType, v)
	}
}

func toNumber(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%w: %v is not a finite number", ErrInputType, t)
		}
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInputType, t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: want number, got %T", ErrInputType, v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ============================================================================
// ACCESSORS — Zero values for unset inputs
// ============================================================================

// Meta returns the component metadata the inputs were bound against.
func (b Bound) Meta() Meta { return b.meta }

// Has reports whether the input was set and resolved.
func (b Bound) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// String returns a string input, or "" when unset.
func (b Bound) String(name string) string {
	s, _ := b.values[name].(string)
	return s
}

// Bool returns a boolean input, or false when unset.
func (b Bound) Bool(name string) bool {
	v, _ := b.values[name].(bool)
	return v
}

// Number returns a number input, or 0 when unset.
func (b Bound) Number(name string) float64 {
	v, _ := b.values[name].(float64)
	return v
}

// Int returns a number input truncated toward zero, or 0 when unset.
// Values outside ±MaxIntInput are clamped.
func (b Bound) Int(name string) int {
	v := b.Number(name)
	switch {
	case v > MaxIntInput:
		return MaxIntInput
	case v < -MaxIntInput:
		return -MaxIntInput
	}
	return int(v)
}

// MaxIntInput bounds integer inputs such as row limits and heights.
const MaxIntInput = 1 << 30

// Dataset returns the dataset name a dataset input is bound to.
func (b Bound) Dataset(name string) string {
	return b.String(name)
}

// Column returns a single-column dimension or measure input.
func (b Bound) Column(name string) (engine.Column, bool) {
	switch v := b.values[name].(type) {
	case engine.Column:
		return v, true
	case []engine.Column:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return engine.Column{}, false
}

// ColumnName returns the bound column's name, or "" when unset.
func (b Bound) ColumnName(name string) string {
	col, _ := b.Column(name)
	return col.Name
}

// Columns returns a dimension or measure input as a list.
func (b Bound) Columns(name string) []engine.Column {
	switch v := b.values[name].(type) {
	case engine.Column:
		return []engine.Column{v}
	case []engine.Column:
		return append([]engine.Column(nil), v...)
	}
	return nil
}
