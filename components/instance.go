package components

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/schema"
	"github.com/spektr-org/panels/statestore"
)

// ============================================================================
// INSTANCE — One mounted component and its view state
// ============================================================================
// Lifecycle:
//   Mount    bind inputs, derive props
//   Render   first render of a stateful component stores default state
//   Update*  sort / page changes persist a new state
//   Unmount  discard the state
// ============================================================================

// Option configures an Instance.
type Option func(*Instance)

// WithID sets the instance id. Without it a random UUID is used, which
// means state does not survive a process restart.
func WithID(id string) Option {
	return func(i *Instance) {
		if id != "" {
			i.id = id
		}
	}
}

// WithStore sets the view state store. Defaults to an in-memory store.
func WithStore(store statestore.Store) Option {
	return func(i *Instance) {
		if store != nil {
			i.store = store
		}
	}
}

// WithLogger routes instance and engine debug events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Instance) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Instance is a mounted component.
type Instance struct {
	id     string
	def    Definition
	inputs schema.Bound
	props  Props
	store  statestore.Store
	logger *zap.Logger
}

// Mount binds inputs to the named component. Binding problems are returned
// together; the instance is not created when any input fails to bind.
func (r *Registry) Mount(component string, inputs map[string]any, datasets map[string]schema.Dataset, opts ...Option) (*Instance, error) {
	def, err := r.Lookup(component)
	if err != nil {
		return nil, err
	}

	bound, err := schema.Bind(def.Meta, inputs, datasets)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", component, err)
	}

	props, err := def.Props(bound)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", component, err)
	}

	inst := &Instance{
		id:     uuid.NewString(),
		def:    def,
		inputs: bound,
		props:  props,
		store:  statestore.NewMemory(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	inst.logger = inst.logger.With(zap.String("instance", inst.id), zap.String("component", component))
	inst.logger.Debug("mounted", zap.String("dataset", props.Dataset))
	return inst, nil
}

// ID returns the instance id.
func (i *Instance) ID() string { return i.id }

// Meta returns the component metadata.
func (i *Instance) Meta() schema.Meta { return i.def.Meta }

// Props returns the render props derived from the inputs.
func (i *Instance) Props() Props { return i.props }

// Dataset returns the dataset the host must load, or "" for none.
func (i *Instance) Dataset() string { return i.props.Dataset }

// Stateful reports whether the component keeps a view state.
func (i *Instance) Stateful() bool { return i.def.Stateful }

// Render produces the render-ready result for resp. Stateful components
// read (and on first render, create) their view state.
func (i *Instance) Render(resp engine.DataResponse) (*engine.Result, error) {
	var state engine.ViewState
	if i.def.Stateful {
		var err error
		if state, err = i.State(); err != nil {
			return nil, err
		}
	}
	result := engine.Execute(i.props.Request, resp, state, engine.WithLogger(i.logger))
	i.logger.Debug("rendered", zap.String("state", string(result.State)))
	return result, nil
}

// State returns the current view state, storing the defaults when the
// instance has none yet.
func (i *Instance) State() (engine.ViewState, error) {
	state, ok, err := i.store.Get(i.id)
	if err != nil {
		return engine.ViewState{}, fmt.Errorf("get view state %s: %w", i.id, err)
	}
	if ok {
		return state, nil
	}
	state = engine.NewViewState(i.props.DefaultSort, i.props.RowsPerPage)
	if err := i.store.Set(i.id, state); err != nil {
		return engine.ViewState{}, fmt.Errorf("set view state %s: %w", i.id, err)
	}
	return state, nil
}

// UpdateSort applies a header click on column.
func (i *Instance) UpdateSort(column string) (engine.ViewState, error) {
	return i.update("sort", func(s engine.ViewState) engine.ViewState {
		return s.UpdateSort(column)
	})
}

// NextPage moves one page forward.
func (i *Instance) NextPage() (engine.ViewState, error) {
	return i.update("next page", engine.ViewState.NextPage)
}

// PrevPage moves one page back, never below the first.
func (i *Instance) PrevPage() (engine.ViewState, error) {
	return i.update("prev page", engine.ViewState.PrevPage)
}

// SetRowsPerPage sets the page size.
func (i *Instance) SetRowsPerPage(n int) (engine.ViewState, error) {
	return i.update("rows per page", func(s engine.ViewState) engine.ViewState {
		return s.WithRowsPerPage(n)
	})
}

// SetHeight sizes the page to the rows that fit in height pixels.
func (i *Instance) SetHeight(height int) (engine.ViewState, error) {
	return i.SetRowsPerPage(engine.RowsThatFit(height))
}

func (i *Instance) update(event string, fn func(engine.ViewState) engine.ViewState) (engine.ViewState, error) {
	state, err := i.State()
	if err != nil {
		return engine.ViewState{}, err
	}
	state = fn(state)
	if err := i.store.Set(i.id, state); err != nil {
		return engine.ViewState{}, fmt.Errorf("set view state %s: %w", i.id, err)
	}
	i.logger.Debug("view state updated",
		zap.String("event", event),
		zap.Int("page", state.Page),
		zap.Stringers("sort", state.Sort),
	)
	return state, nil
}

// Unmount discards the instance's view state.
func (i *Instance) Unmount() error {
	err := i.store.Delete(i.id)
	if err != nil && !errors.Is(err, statestore.ErrStateNotFound) {
		return fmt.Errorf("unmount %s: %w", i.id, err)
	}
	i.logger.Debug("unmounted")
	return nil
}
