package components

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/schema"
)

// ============================================================================
// REGISTRY — Component definitions by name
// ============================================================================
// A definition pairs a component's declared inputs with a props function
// that turns bound inputs into an engine request. Hosts look components up
// by name when mounting a dashboard panel.
// ============================================================================

var (
	// ErrUnknownComponent is returned when no component has the given name.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrDuplicateComponent is returned when a name is defined twice.
	ErrDuplicateComponent = errors.New("component already defined")
)

// Props is what a component needs to render, derived from its inputs.
type Props struct {
	Request engine.Request

	// Dataset is the dataset the host loads for this component; "" when the
	// component needs no data.
	Dataset string

	// View state defaults, for components with a table.
	DefaultSort []engine.SortKey
	RowsPerPage int
}

// PropsFunc maps bound inputs to render props.
type PropsFunc func(in schema.Bound) (Props, error)

// Definition is a registered component.
type Definition struct {
	Meta  schema.Meta
	Props PropsFunc

	// Stateful components keep a per-instance ViewState.
	Stateful bool
}

// Registry holds component definitions. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Define registers a component.
func (r *Registry) Define(def Definition) error {
	if def.Meta.Name == "" {
		return fmt.Errorf("define component: empty name")
	}
	if def.Props == nil {
		return fmt.Errorf("define %s: nil props function", def.Meta.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.Meta.Name]; ok {
		return fmt.Errorf("define %s: %w", def.Meta.Name, ErrDuplicateComponent)
	}
	r.defs[def.Meta.Name] = def
	return nil
}

// MustDefine is Define for package-level setup; it panics on error.
func (r *Registry) MustDefine(def Definition) {
	if err := r.Define(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%q: %w", name, ErrUnknownComponent)
	}
	return def, nil
}

// Names returns registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Metas returns the metadata of every registered component, sorted by name.
func (r *Registry) Metas() []schema.Meta {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	metas := make([]schema.Meta, 0, len(names))
	for _, name := range names {
		metas = append(metas, r.defs[name].Meta)
	}
	return metas
}
