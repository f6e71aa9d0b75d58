package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns host data. It reads through this interface.
//
// Implementations:
//   SliceView      wraps []Record (loader output, CSV)
//   DomainView[T]  reads typed structs via accessor functions (zero-copy)
//   SubView        reordered or windowed subset (indices into parent)
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Value in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Value(index int, key string) any
	Keys() []string // available column keys, first-seen order
}

// TextAt returns the value at (index, key) as text. Absent values are "".
func TextAt(view RecordView, index int, key string) string {
	return Text(view.Value(index, key))
}

// Text converts a scalar record value to its display text.
// Floats use the shortest round-trip form (see FormatNumber).
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return FormatNumber(t)
	case float32:
		return FormatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	keys    []string
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

func (v *SliceView) cacheKeys() {
	seen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				v.keys = append(v.keys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Value(i int, key string) any {
	if i < 0 || i >= len(v.records) {
		return nil
	}
	return v.records[i][key]
}

func (v *SliceView) Keys() []string { return v.keys }

// ============================================================================
// SUB VIEW — reordered / windowed subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView in index order.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, key string) any {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Value(v.indices[i], key)
}

func (v *SubView) Keys() []string { return v.parent.Keys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Order]().
//	    Field("region", func(o Order) any { return o.Region }).
//	    Field("revenue", func(o Order) any { return o.Revenue })
//
//	set := engine.Bucketize(adapter.Bind(orders), spec)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	order  []string
	fields map[string]func(T) any
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		fields: make(map[string]func(T) any),
	}
}

// Field registers an accessor for a column key.
func (a *DomainAdapter[T]) Field(key string, fn func(T) any) *DomainAdapter[T] {
	if _, exists := a.fields[key]; !exists {
		a.order = append(a.order, key)
	}
	a.fields[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy: holds a reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:   data,
		fields: a.fields,
		keys:   a.order,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data   []T
	fields map[string]func(T) any
	keys   []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Value(i int, key string) any {
	if i < 0 || i >= len(v.data) {
		return nil
	}
	if fn, ok := v.fields[key]; ok {
		return fn(v.data[i])
	}
	return nil
}

func (v *DomainView[T]) Keys() []string { return v.keys }
