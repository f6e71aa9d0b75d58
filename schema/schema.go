package schema

import "github.com/spektr-org/panels/engine"

// ============================================================================
// SCHEMA — Declared inputs of a component and the datasets they bind to
// ============================================================================
// Every component publishes a Meta: the inputs a dashboard author can set.
// Dimension and measure inputs name columns of a dataset input, so binding
// needs the dataset's column descriptors (discovered from CSV or declared
// in the dashboard config).
// ============================================================================

// InputType is the kind of value an input accepts.
type InputType string

const (
	TypeString    InputType = "string"
	TypeBoolean   InputType = "boolean"
	TypeNumber    InputType = "number"
	TypeDataset   InputType = "dataset"
	TypeDimension InputType = "dimension"
	TypeMeasure   InputType = "measure"
)

// IsColumn reports whether inputs of this type resolve to dataset columns.
func (t InputType) IsColumn() bool {
	return t == TypeDimension || t == TypeMeasure
}

// InputConfig holds type-specific input settings.
type InputConfig struct {
	// Dataset names the dataset input that dimension/measure inputs read from.
	Dataset string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
}

// Input describes one configurable input of a component.
type Input struct {
	Name        string      `json:"name" yaml:"name"`
	Type        InputType   `json:"type" yaml:"type"`
	Label       string      `json:"label" yaml:"label"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	Array       bool        `json:"array,omitempty" yaml:"array,omitempty"` // accepts a list of values
	Config      InputConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// Meta describes a component: its name, label and declared inputs.
type Meta struct {
	Name   string   `json:"name" yaml:"name"`
	Label  string   `json:"label" yaml:"label"`
	Inputs []Input  `json:"inputs" yaml:"inputs"`
	Events []string `json:"events,omitempty" yaml:"events,omitempty"`
}

// Input returns the declared input with the given name.
func (m Meta) Input(name string) (Input, bool) {
	for _, in := range m.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// InputNames returns all input names in declaration order.
func (m Meta) InputNames() []string {
	names := make([]string, len(m.Inputs))
	for i, in := range m.Inputs {
		names[i] = in.Name
	}
	return names
}

// Dataset is a named source of records and the columns it exposes.
type Dataset struct {
	Name    string          `json:"name" yaml:"name"`
	Columns []engine.Column `json:"columns" yaml:"columns"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`
}

// Column returns the column descriptor with the given name.
func (d Dataset) Column(name string) (engine.Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return engine.Column{}, false
}

// ColumnNames returns all column names.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}
