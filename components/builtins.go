package components

import (
	"fmt"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/schema"
)

// ============================================================================
// BUILT-IN COMPONENTS — Bar, column and donut charts, table, text
// ============================================================================

// DefaultRowsPerPage applies to tables that set neither limit nor height.
const DefaultRowsPerPage = 10

const configureCategory = "Configure chart"

// Shared input declarations.
var (
	titleInput   = schema.Input{Name: "title", Type: schema.TypeString, Label: "Title", Description: "The title for the chart", Category: configureCategory}
	datasetInput = schema.Input{Name: "ds", Type: schema.TypeDataset, Label: "Dataset", Description: "Dataset", Category: configureCategory}
	heightInput  = schema.Input{Name: "height", Type: schema.TypeNumber, Label: "Height", Description: "Panel height in pixels"}
	labelsInput  = schema.Input{Name: "showLabels", Type: schema.TypeBoolean, Label: "Show Labels"}
	legendInput  = schema.Input{Name: "showLegend", Type: schema.TypeBoolean, Label: "Show Legend"}
)

func dimension(name, label string) schema.Input {
	return schema.Input{Name: name, Type: schema.TypeDimension, Label: label, Category: configureCategory, Config: schema.InputConfig{Dataset: "ds"}}
}

func measure(name, label string) schema.Input {
	return schema.Input{Name: name, Type: schema.TypeMeasure, Label: label, Category: configureCategory, Config: schema.InputConfig{Dataset: "ds"}}
}

func number(name, label string) schema.Input {
	return schema.Input{Name: name, Type: schema.TypeNumber, Label: label}
}

func text(name, label string) schema.Input {
	return schema.Input{Name: name, Type: schema.TypeString, Label: label}
}

// BarChart shows a measure summed per x-axis value, optionally split into
// one series per second x-axis value.
var BarChart = Definition{
	Meta: schema.Meta{
		Name:  "BarChart",
		Label: "Bar Chart",
		Inputs: []schema.Input{
			titleInput,
			datasetInput,
			dimension("xAxis", "X-Axis"),
			dimension("secondXAxis", "Second X-Axis"),
			measure("metric", "Metric"),
			number("maxXAxisItems", "Max X-Axis Items"),
			number("maxLabels", "Max Labels"),
			text("xAxisTitle", "X-Axis Title"),
			text("yAxisTitle", "Y-Axis Title"),
			legendInput,
			labelsInput,
			heightInput,
		},
	},
	Props: func(in schema.Bound) (Props, error) {
		metric, _ := in.Column("metric")
		return Props{
			Dataset: in.Dataset("ds"),
			Request: engine.Request{
				Intent: engine.IntentChart,
				Bucket: engine.BucketSpec{
					Primary:          in.ColumnName("xAxis"),
					Secondary:        in.ColumnName("secondXAxis"),
					Measure:          metric.Name,
					MaxPrimaryKeys:   in.Int("maxXAxisItems"),
					MaxSecondaryKeys: in.Int("maxLabels"),
				},
				Chart: engine.ChartSpec{
					Kind:         engine.ChartBar,
					Title:        in.String("title"),
					XAxisTitle:   in.String("xAxisTitle"),
					YAxisTitle:   in.String("yAxisTitle"),
					MeasureTitle: metric.Label(),
					ShowLabels:   in.Bool("showLabels"),
					ShowLegend:   in.Bool("showLegend"),
					Height:       in.Int("height"),
				},
			},
		}, nil
	},
}

// ColumnChart is a vertical bar chart over grouping A, with one series per
// grouping B value.
var ColumnChart = Definition{
	Meta: schema.Meta{
		Name:  "ColumnChart",
		Label: "Column Chart",
		Inputs: []schema.Input{
			titleInput,
			datasetInput,
			dimension("groupingA", "Grouping A"),
			dimension("groupingB", "Grouping B"),
			measure("count", "Count"),
			labelsInput,
			legendInput,
			heightInput,
		},
	},
	Props: func(in schema.Bound) (Props, error) {
		count, _ := in.Column("count")
		return Props{
			Dataset: in.Dataset("ds"),
			Request: engine.Request{
				Intent: engine.IntentChart,
				Bucket: engine.BucketSpec{
					Primary:   in.ColumnName("groupingA"),
					Secondary: in.ColumnName("groupingB"),
					Measure:   count.Name,
				},
				Chart: engine.ChartSpec{
					Kind:         engine.ChartColumn,
					Title:        in.String("title"),
					MeasureTitle: count.Label(),
					ShowLabels:   in.Bool("showLabels"),
					ShowLegend:   in.Bool("showLegend"),
					Height:       in.Int("height"),
				},
			},
		}, nil
	},
}

// DonutChart shows one measure split by a single grouping.
var DonutChart = Definition{
	Meta: schema.Meta{
		Name:  "DonutChart",
		Label: "Donut Chart",
		Inputs: []schema.Input{
			titleInput,
			datasetInput,
			dimension("groups", "Groups"),
			measure("count", "Count"),
			{Name: "showPercentages", Type: schema.TypeBoolean, Label: "Show as Percentage"},
			labelsInput,
			legendInput,
			number("maxGroups", "Max Legend Items"),
			heightInput,
		},
	},
	Props: func(in schema.Bound) (Props, error) {
		count, _ := in.Column("count")
		return Props{
			Dataset: in.Dataset("ds"),
			Request: engine.Request{
				Intent: engine.IntentChart,
				Bucket: engine.BucketSpec{
					Primary:        in.ColumnName("groups"),
					Measure:        count.Name,
					MaxPrimaryKeys: in.Int("maxGroups"),
				},
				Chart: engine.ChartSpec{
					Kind:            engine.ChartDonut,
					Title:           in.String("title"),
					MeasureTitle:    count.Label(),
					ShowLabels:      in.Bool("showLabels"),
					ShowLegend:      in.Bool("showLegend"),
					ShowPercentages: in.Bool("showPercentages"),
					Height:          in.Int("height"),
				},
			},
		}, nil
	},
}

// TableChart is a sortable, paginated table of dataset columns.
var TableChart = Definition{
	Meta: schema.Meta{
		Name:  "TableChart",
		Label: "Table",
		Inputs: []schema.Input{
			titleInput,
			datasetInput,
			{Name: "columns", Type: schema.TypeDimension, Label: "Columns", Array: true, Category: configureCategory, Config: schema.InputConfig{Dataset: "ds"}},
			{Name: "defaultSort", Type: schema.TypeString, Label: "Default Sort", Description: `Sort keys as "column:asc,other:desc"`},
			{Name: "limit", Type: schema.TypeNumber, Label: "Rows Per Page"},
			heightInput,
		},
	},
	Stateful: true,
	Props: func(in schema.Bound) (Props, error) {
		defaultSort, err := engine.ParseSort(in.String("defaultSort"))
		if err != nil {
			return Props{}, fmt.Errorf("TableChart.defaultSort: %w: %v", schema.ErrInputType, err)
		}

		rowsPerPage := DefaultRowsPerPage
		switch {
		case in.Has("limit"):
			rowsPerPage = in.Int("limit")
		case in.Has("height"):
			rowsPerPage = engine.RowsThatFit(in.Int("height"))
		}

		return Props{
			Dataset:     in.Dataset("ds"),
			DefaultSort: defaultSort,
			RowsPerPage: rowsPerPage,
			Request: engine.Request{
				Intent: engine.IntentTable,
				Table: engine.TableSpec{
					Title:   in.String("title"),
					Columns: in.Columns("columns"),
				},
			},
		}, nil
	},
}

// Text is a titled block of text. It loads no data.
var Text = Definition{
	Meta: schema.Meta{
		Name:  "Text",
		Label: "Component: Text",
		Inputs: []schema.Input{
			{Name: "title", Type: schema.TypeString, Label: "Title", Description: "The title text", Category: configureCategory},
			{Name: "body", Type: schema.TypeString, Label: "Body", Description: "The body text", Category: configureCategory},
		},
	},
	Props: func(in schema.Bound) (Props, error) {
		return Props{
			Request: engine.Request{
				Intent: engine.IntentText,
				Text:   engine.TextSpec{Title: in.String("title"), Body: in.String("body")},
			},
		}, nil
	},
}

// DefaultRegistry returns a registry holding every built-in component.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []Definition{BarChart, ColumnChart, DonutChart, TableChart, Text} {
		r.MustDefine(def)
	}
	return r
}
