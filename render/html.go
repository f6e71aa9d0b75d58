package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/panels/engine"
)

// ============================================================================
// HTML — ECharts page for chart results
// ============================================================================

// Page sizing when a chart config carries no height.
const (
	ChartWidth  = "900px"
	ChartHeight = "400px"
)

// HTML writes a page with one ECharts chart per chart result. Results that
// are not ready charts are skipped; the count of drawn charts is returned.
func HTML(w io.Writer, title string, results []*engine.Result) (int, error) {
	page := components.NewPage()
	page.PageTitle = title

	drawn := 0
	for _, res := range results {
		if res == nil || res.ChartConfig == nil {
			continue
		}
		page.AddCharts(Chart(res.ChartConfig, 0))
		drawn++
	}

	if err := page.Render(w); err != nil {
		return drawn, fmt.Errorf("render page: %w", err)
	}
	return drawn, nil
}

// Chart converts a chart config to an ECharts chart. height is in pixels;
// 0 uses ChartHeight.
func Chart(cfg *engine.ChartConfig, height int) components.Charter {
	size := opts.Initialization{Width: ChartWidth, Height: ChartHeight}
	if height > 0 {
		size.Height = strconv.Itoa(height) + "px"
	}

	if cfg.ChartType == engine.ChartDonut {
		return donut(cfg, size)
	}
	return bar(cfg, size)
}

func bar(cfg *engine.ChartConfig, size opts.Initialization) *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(
		charts.WithInitializationOpts(size),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(cfg.ShowLegend),
			Right:  "10",
			Orient: "vertical",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         cfg.XAxis,
			NameLocation: "center",
			NameGap:      30,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         cfg.YAxis,
			NameLocation: "center",
			NameGap:      50,
			SplitNumber:  cfg.TickAmount,
			SplitLine:    &opts.SplitLine{Show: opts.Bool(cfg.ShowGrid)},
		}),
		charts.WithColorsOpts(opts.Colors(cfg.Colors)),
	)

	b.SetXAxis(cfg.Labels)
	for _, s := range cfg.Series {
		data := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.BarData{Name: cfg.Labels[i], Value: v}
		}
		b.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	b.SetSeriesOptions(charts.WithLabelOpts(opts.Label{
		Show:     opts.Bool(cfg.ShowLabels),
		Position: "top",
	}))

	// Bar charts run horizontally; column charts keep categories on x.
	if cfg.ChartType == engine.ChartBar {
		b.XYReversal()
	}
	return b
}

func donut(cfg *engine.ChartConfig, size opts.Initialization) *charts.Pie {
	tooltip := opts.Tooltip{
		Show:      opts.Bool(true),
		Trigger:   "item",
		Formatter: "{b}: {c} ({d}%)",
	}
	if cfg.ShowPercentages {
		tooltip.Formatter = "{b}: {c}%"
	}

	p := charts.NewPie()
	p.SetGlobalOptions(
		charts.WithInitializationOpts(size),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithTooltipOpts(tooltip),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(cfg.ShowLegend),
			Right:  "10",
			Orient: "vertical",
			Type:   "scroll",
		}),
		charts.WithColorsOpts(opts.Colors(cfg.Colors)),
	)

	var data []opts.PieData
	if len(cfg.Series) > 0 {
		s := cfg.Series[0]
		for i, v := range s.Data {
			data = append(data, opts.PieData{Name: cfg.Labels[i], Value: v})
		}
	}

	name := cfg.MeasureTitle
	if name == "" {
		name = cfg.Title
	}
	p.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(cfg.ShowLabels),
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"40%", "70%"},
				Center: []string{"40%", "50%"},
			}),
		)
	return p
}
