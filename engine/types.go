package engine

// ============================================================================
// PANELS ENGINE TYPES — Records, column descriptors and render-ready output
// ============================================================================
// The engine never loads data and never draws. It receives rows from a host
// loader and returns structures a renderer can draw without further logic.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row keyed by column name.
// Values are scalars: string, any integer or float kind, bool, or nil.
//
// Records are produced by the loader and never mutated by the engine.
type Record map[string]any

// NativeType is the value type a dataset declares for a column.
type NativeType string

const (
	TypeNumber NativeType = "number"
	TypeTime   NativeType = "time"
	TypeString NativeType = "string"
)

// Column describes a dimension or measure bound to a dataset field.
// Name matches a Record key; Title is what users see.
type Column struct {
	Name       string         `json:"name" yaml:"name"`
	Title      string         `json:"title" yaml:"title"`
	NativeType NativeType     `json:"nativeType" yaml:"nativeType"`
	Meta       map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Label returns the display title, falling back to the column name.
func (c Column) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// ============================================================================
// DATA RESPONSE — What the host loader hands to a component
// ============================================================================

// DataResponse is the result of loading a dataset query.
type DataResponse struct {
	Data      []Record `json:"data"`
	IsLoading bool     `json:"isLoading"`
	Error     string   `json:"error,omitempty"`
}

// ResponseState classifies a DataResponse for rendering.
type ResponseState string

const (
	StateReady    ResponseState = "ready"
	StateEmpty    ResponseState = "empty"
	StateSkeleton ResponseState = "skeleton" // loading, nothing to show yet
	StateStale    ResponseState = "stale"    // loading, previous rows still shown
	StateError    ResponseState = "error"
)

// State reports how the response should be rendered.
// An error is terminal for the response, even while loading.
func (r DataResponse) State() ResponseState {
	switch {
	case r.Error != "":
		return StateError
	case r.IsLoading && len(r.Data) == 0:
		return StateSkeleton
	case r.IsLoading:
		return StateStale
	case len(r.Data) == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// View wraps the response rows as a RecordView.
func (r DataResponse) View() RecordView {
	return NewSliceView(r.Data)
}

// ============================================================================
// SERIES — Bucketizer output
// ============================================================================

// Series is one named sequence of values aligned with SeriesSet.Labels.
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// SeriesSet is a label-indexed, series-indexed numeric matrix.
// Every Series.Data has len(Labels) entries in label order.
type SeriesSet struct {
	Labels   []string `json:"labels"`
	Series   []Series `json:"series"`
	MaxCount float64  `json:"maxCount"`
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one component render.
type Result struct {
	Type    string        `json:"type"` // "chart", "table", "text"
	State   ResponseState `json:"state"`
	Loading bool          `json:"loading"`
	Title   string        `json:"title,omitempty"`
	Reply   string        `json:"reply,omitempty"` // placeholder text for empty states
	Error   string        `json:"error,omitempty"`

	// At most one of these is populated based on Type.
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
	TextData    *TextData    `json:"textData,omitempty"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType       string        `json:"chartType"` // "bar", "column", "donut"
	Title           string        `json:"title"`
	XAxis           string        `json:"xAxis,omitempty"`
	YAxis           string        `json:"yAxis,omitempty"`
	MeasureTitle    string        `json:"measureTitle,omitempty"`
	Labels          []string      `json:"labels"`
	Series          []ChartSeries `json:"series"`
	Colors          []string      `json:"colors,omitempty"`
	MaxCount        float64       `json:"maxCount"`
	TickAmount      int           `json:"tickAmount,omitempty"`
	ShowLegend      bool          `json:"showLegend"`
	ShowLabels      bool          `json:"showLabels"`
	ShowGrid        bool          `json:"showGrid"`
	ShowPercentages bool          `json:"showPercentages,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
	Color string    `json:"color,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is one sorted, projected page of a table.
type TableData struct {
	Title       string        `json:"title"`
	Columns     []TableColumn `json:"columns"`
	Rows        [][]Cell      `json:"rows"`
	Page        int           `json:"page"`
	Sort        []SortKey     `json:"sort"`
	RowsPerPage int           `json:"rowsPerPage"`
	TotalRows   int           `json:"totalRows"`
	HasPrev     bool          `json:"hasPrev"`
	HasNext     bool          `json:"hasNext"`
}

// TableColumn is a column header with its sort indicator.
type TableColumn struct {
	Column
	Align     string    `json:"align"` // "left", "right"
	Sorted    bool      `json:"sorted"`
	Primary   bool      `json:"primary"`
	Direction Direction `json:"direction,omitempty"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a title and body block.
type TextData struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
