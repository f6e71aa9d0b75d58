package dashboard

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spektr-org/panels/components"
	"github.com/spektr-org/panels/config"
	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/helpers"
	"github.com/spektr-org/panels/schema"
	"github.com/spektr-org/panels/statestore"
)

// ============================================================================
// DASHBOARD — Mounted panels over CSV datasets
// ============================================================================
// Open discovers every dataset, applies the YAML column overrides and mounts
// each panel with its id as instance id, so view state persisted in the
// state file follows the panel across runs.
// ============================================================================

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithRegistry sets the component registry. Defaults to
// components.DefaultRegistry().
func WithRegistry(r *components.Registry) Option {
	return func(d *Dashboard) {
		if r != nil {
			d.registry = r
		}
	}
}

// WithStore sets the view state store. Defaults to a YAML file at the
// dashboard's state path.
func WithStore(s statestore.Store) Option {
	return func(d *Dashboard) {
		if s != nil {
			d.store = s
		}
	}
}

// WithLogger sets the logger passed to every panel.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// Panel is one mounted panel.
type Panel struct {
	Config   config.PanelConfig
	Instance *components.Instance
}

// Rendered pairs a panel with its render result.
type Rendered struct {
	Panel  Panel
	Result *engine.Result
}

// Dashboard is an opened dashboard.
type Dashboard struct {
	cfg      *config.Dashboard
	registry *components.Registry
	store    statestore.Store
	logger   *zap.Logger

	datasets    map[string]schema.Dataset
	discoverErr map[string]error
	panels      []Panel
}

// Open validates cfg and mounts its panels. A dataset that cannot be read
// keeps only its overridden columns, and panels that still mount on it
// render the read error. Every panel that fails to mount is reported.
func Open(cfg *config.Dashboard, opts ...Option) (*Dashboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard: %w", err)
	}

	d := &Dashboard{
		cfg:         cfg,
		registry:    components.DefaultRegistry(),
		logger:      zap.NewNop(),
		datasets:    make(map[string]schema.Dataset),
		discoverErr: make(map[string]error),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.store == nil {
		d.store = statestore.NewFile(cfg.StatePath())
	}

	d.discover()

	var errs error
	for _, pc := range cfg.Panels {
		def, err := d.registry.Lookup(pc.Component)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("panel %q: %w", pc.ID, err))
			continue
		}
		inst, err := d.registry.Mount(pc.Component, pc.ComponentInputs(def.Meta), d.datasets,
			components.WithID(pc.ID),
			components.WithStore(d.store),
			components.WithLogger(d.logger),
		)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("panel %q: %w", pc.ID, err))
			continue
		}
		d.panels = append(d.panels, Panel{Config: pc, Instance: inst})
	}
	if errs != nil {
		return nil, errs
	}
	return d, nil
}

func (d *Dashboard) discover() {
	for _, name := range d.cfg.DatasetNames() {
		dc := d.cfg.Datasets[name]
		path := d.cfg.DatasetPath(name)

		discovered, err := helpers.DiscoverCSV(path, name)
		if err != nil {
			d.logger.Warn("dataset discovery failed", zap.String("dataset", name), zap.Error(err))
			d.discoverErr[name] = err
			discovered = &schema.Dataset{Name: name, DiscoveredFrom: path}
		}
		ds := dc.Apply(*discovered)
		d.datasets[name] = ds
		d.logger.Debug("dataset ready",
			zap.String("dataset", name),
			zap.String("path", path),
			zap.Int("columns", len(ds.Columns)))
	}
}

// Title returns the dashboard title.
func (d *Dashboard) Title() string { return d.cfg.Title }

// Panels returns the mounted panels in file order.
func (d *Dashboard) Panels() []Panel { return d.panels }

// Panel returns the panel with the given id.
func (d *Dashboard) Panel(id string) (Panel, bool) {
	for _, p := range d.panels {
		if p.Config.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// Datasets returns the discovered and overridden datasets.
func (d *Dashboard) Datasets() map[string]schema.Dataset { return d.datasets }

// Files returns the dataset files the dashboard reads.
func (d *Dashboard) Files() []string {
	files := make([]string, 0, len(d.datasets))
	for _, name := range d.cfg.DatasetNames() {
		files = append(files, d.cfg.DatasetPath(name))
	}
	return files
}

// Render loads each dataset once and renders every panel.
func (d *Dashboard) Render() ([]Rendered, error) {
	loaded := make(map[string]engine.DataResponse)
	out := make([]Rendered, 0, len(d.panels))

	for _, p := range d.panels {
		res, err := p.Instance.Render(d.load(p.Instance.Dataset(), loaded))
		if err != nil {
			return out, fmt.Errorf("render panel %q: %w", p.Config.ID, err)
		}
		out = append(out, Rendered{Panel: p, Result: res})
	}
	return out, nil
}

// RenderPanel renders a single panel.
func (d *Dashboard) RenderPanel(id string) (*engine.Result, error) {
	p, ok := d.Panel(id)
	if !ok {
		return nil, fmt.Errorf("panel %q: %w", id, ErrUnknownPanel)
	}
	return p.Instance.Render(d.load(p.Instance.Dataset(), nil))
}

func (d *Dashboard) load(name string, cache map[string]engine.DataResponse) engine.DataResponse {
	if name == "" {
		return engine.DataResponse{}
	}
	if resp, ok := cache[name]; ok {
		return resp
	}

	var resp engine.DataResponse
	if err := d.discoverErr[name]; err != nil {
		resp = engine.DataResponse{Error: fmt.Sprintf("load %s: %v", name, err)}
	} else {
		resp = helpers.LoadCSV(d.cfg.DatasetPath(name), d.datasets[name])
	}
	if cache != nil {
		cache[name] = resp
	}
	return resp
}
