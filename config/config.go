package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/schema"
)

// Environment variables that override the dashboard file.
const (
	EnvStateFile = "PANELS_STATE_FILE"
	EnvDataDir   = "PANELS_DATA_DIR"
)

// DefaultStateFile is where view state lives when the file names none,
// relative to the dashboard file.
const DefaultStateFile = ".panels/state.yaml"

// Dashboard is a dashboard definition: datasets and the panels drawn from
// them.
type Dashboard struct {
	Title     string                   `yaml:"title"`
	StateFile string                   `yaml:"state_file"`
	Datasets  map[string]DatasetConfig `yaml:"datasets"`
	Panels    []PanelConfig            `yaml:"panels"`

	// dir is the directory relative paths resolve against.
	dir string
}

// DatasetConfig locates a CSV dataset and optionally overrides the
// discovered column descriptors.
type DatasetConfig struct {
	Path    string           `yaml:"path"`
	Columns []ColumnOverride `yaml:"columns,omitempty"`
}

// ColumnOverride replaces discovered fields of one column. Empty fields
// keep the discovered value; meta entries are merged.
type ColumnOverride struct {
	Name       string         `yaml:"name"`
	Title      string         `yaml:"title,omitempty"`
	NativeType string         `yaml:"native_type,omitempty"`
	Meta       map[string]any `yaml:"meta,omitempty"`
}

// PanelConfig places one component on the dashboard.
type PanelConfig struct {
	ID          string         `yaml:"id"`
	Component   string         `yaml:"component"`
	Height      int            `yaml:"height,omitempty"`
	RowsPerPage int            `yaml:"rows_per_page,omitempty"`
	Inputs      map[string]any `yaml:"inputs"`
}

// Load loads a dashboard from a YAML file and applies environment
// overrides.
func Load(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, err
	}
	d.dir = filepath.Dir(path)
	d.applyEnvOverrides()
	return d, nil
}

// Parse decodes a dashboard document. Relative paths resolve against the
// working directory until Load sets the file's directory.
func Parse(data []byte) (*Dashboard, error) {
	d := &Dashboard{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard: %w", err)
	}
	if d.StateFile == "" {
		d.StateFile = DefaultStateFile
	}
	return d, nil
}

// applyEnvOverrides applies environment variable overrides.
func (d *Dashboard) applyEnvOverrides() {
	if path := os.Getenv(EnvStateFile); path != "" {
		d.StateFile = path
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		d.dir = dir
	}
}

// Validate reports every structural problem in the dashboard.
func (d *Dashboard) Validate() error {
	var err error

	for _, name := range d.DatasetNames() {
		ds := d.Datasets[name]
		if ds.Path == "" {
			err = multierr.Append(err, fmt.Errorf("dataset %q: path is required", name))
		}
		for _, col := range ds.Columns {
			if col.Name == "" {
				err = multierr.Append(err, fmt.Errorf("dataset %q: column override without name", name))
			}
			switch engine.NativeType(col.NativeType) {
			case "", engine.TypeNumber, engine.TypeTime, engine.TypeString:
			default:
				err = multierr.Append(err, fmt.Errorf("dataset %q column %q: unknown native type %q", name, col.Name, col.NativeType))
			}
		}
	}

	seen := make(map[string]bool)
	for i, p := range d.Panels {
		if p.ID == "" {
			err = multierr.Append(err, fmt.Errorf("panel #%d: id is required", i+1))
		} else if seen[p.ID] {
			err = multierr.Append(err, fmt.Errorf("panel %q: duplicate id", p.ID))
		}
		seen[p.ID] = true
		if p.Component == "" {
			err = multierr.Append(err, fmt.Errorf("panel %q: component is required", p.ID))
		}
		if p.Height < 0 || p.RowsPerPage < 0 {
			err = multierr.Append(err, fmt.Errorf("panel %q: height and rows_per_page must not be negative", p.ID))
		}
	}

	return err
}

// DatasetNames returns dataset names in sorted order.
func (d *Dashboard) DatasetNames() []string {
	names := make([]string, 0, len(d.Datasets))
	for name := range d.Datasets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Panel returns the panel with the given id.
func (d *Dashboard) Panel(id string) (PanelConfig, bool) {
	for _, p := range d.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelConfig{}, false
}

// Resolve returns path relative to the dashboard file's directory.
func (d *Dashboard) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || d.dir == "" {
		return path
	}
	return filepath.Join(d.dir, path)
}

// DatasetPath returns the resolved CSV path of a dataset.
func (d *Dashboard) DatasetPath(name string) string {
	return d.Resolve(d.Datasets[name].Path)
}

// StatePath returns the resolved view state file path.
func (d *Dashboard) StatePath() string {
	return d.Resolve(d.StateFile)
}

// Apply merges the overrides into discovered columns. Overrides for
// columns discovery did not find add new columns.
func (c DatasetConfig) Apply(ds schema.Dataset) schema.Dataset {
	out := ds
	out.Columns = make([]engine.Column, len(ds.Columns))
	copy(out.Columns, ds.Columns)

	for _, o := range c.Columns {
		idx := -1
		for i, col := range out.Columns {
			if col.Name == o.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Columns = append(out.Columns, engine.Column{Name: o.Name, Title: o.Name, NativeType: engine.TypeString})
			idx = len(out.Columns) - 1
		}

		col := out.Columns[idx]
		if o.Title != "" {
			col.Title = o.Title
		}
		if o.NativeType != "" {
			col.NativeType = engine.NativeType(o.NativeType)
		}
		if len(o.Meta) > 0 {
			meta := make(map[string]any, len(col.Meta)+len(o.Meta))
			for k, v := range col.Meta {
				meta[k] = v
			}
			for k, v := range o.Meta {
				meta[k] = v
			}
			col.Meta = meta
		}
		out.Columns[idx] = col
	}
	return out
}

// ComponentInputs returns the panel inputs with the panel-level height and
// rows_per_page folded in, for components that declare them. Explicit
// inputs win.
func (p PanelConfig) ComponentInputs(meta schema.Meta) map[string]any {
	inputs := make(map[string]any, len(p.Inputs)+2)
	for k, v := range p.Inputs {
		inputs[k] = v
	}
	fold := func(name string, v int) {
		if _, set := inputs[name]; set || v <= 0 {
			return
		}
		if _, declared := meta.Input(name); declared {
			inputs[name] = v
		}
	}
	fold("height", p.Height)
	fold("limit", p.RowsPerPage)
	return inputs
}
