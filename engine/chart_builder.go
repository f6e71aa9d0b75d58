package engine

import "math"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a ChartSpec + SeriesSet
// ============================================================================

// Chart kinds.
const (
	ChartBar    = "bar"
	ChartColumn = "column"
	ChartDonut  = "donut"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec holds the display inputs of a chart component.
type ChartSpec struct {
	Kind            string
	Title           string
	XAxisTitle      string
	YAxisTitle      string
	MeasureTitle    string // used in tooltips
	ShowLabels      bool
	ShowLegend      bool
	ShowPercentages bool // donut only
	Height          int  // pixels; 0 when unknown
}

// BuildChart produces a ChartConfig from a spec and bucketized series.
// Returns nil when there are no labels to draw.
func BuildChart(spec ChartSpec, set SeriesSet) *ChartConfig {
	if len(set.Labels) == 0 || len(set.Series) == 0 {
		return nil
	}

	chartType := spec.Kind
	if chartType == "" {
		chartType = ChartBar
	}

	config := &ChartConfig{
		ChartType:    chartType,
		Title:        spec.Title,
		XAxis:        spec.XAxisTitle,
		YAxis:        spec.YAxisTitle,
		MeasureTitle: spec.MeasureTitle,
		Labels:       append([]string(nil), set.Labels...),
		MaxCount:     set.MaxCount,
		ShowLegend:   spec.ShowLegend,
		ShowLabels:   spec.ShowLabels,
		ShowGrid:     chartType != ChartDonut,
	}

	if chartType != ChartDonut && spec.Height > 0 {
		config.TickAmount = tickAmount(spec.Height, set.MaxCount)
	}

	if chartType == ChartDonut && spec.ShowPercentages {
		config.ShowPercentages = true
		config.Series = buildPercentSeries(set.Series)
	} else {
		config.Series = buildSeries(set.Series)
	}

	config.Colors = assignColors(len(config.Series))
	if chartType == ChartDonut {
		// One color per slice rather than per series.
		config.Colors = assignColors(len(config.Labels))
	}
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSeries(series []Series) []ChartSeries {
	out := make([]ChartSeries, 0, len(series))
	for i, s := range series {
		out = append(out, ChartSeries{
			Name:  s.Name,
			Data:  append([]float64(nil), s.Data...),
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return out
}

// buildPercentSeries converts every series to percentages of its own total.
func buildPercentSeries(series []Series) []ChartSeries {
	out := buildSeries(series)
	for i := range out {
		var total float64
		for _, v := range out[i].Data {
			total += v
		}
		for j, v := range out[i].Data {
			if total == 0 {
				out[i].Data[j] = 0
				continue
			}
			out[i].Data[j] = RoundTo2(v / total * 100)
		}
	}
	return out
}

// tickAmount is one y-axis tick per 100px, never more ticks than maxCount.
func tickAmount(height int, maxCount float64) int {
	ticks := int(math.Ceil(float64(height) / 100))
	if m := int(maxCount); m < ticks {
		ticks = m
	}
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
