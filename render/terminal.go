package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/format"
)

// ============================================================================
// TERMINAL — Plain terminal output for any result
// ============================================================================

// DefaultWidth is the terminal width used when the caller passes 0.
const DefaultWidth = 80

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Terminal renders a result for a terminal of the given width.
func Terminal(res *engine.Result, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder
	if res.Title != "" && res.Type != engine.IntentText {
		b.WriteString(titleStyle.Render(res.Title))
		b.WriteString("\n")
	}

	switch {
	case res.State == engine.StateError:
		b.WriteString(errorStyle.Render(res.Error))
	case res.TextData != nil:
		out, err := Text(res.TextData, width)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	case res.TableData != nil && len(res.TableData.Columns) > 0:
		b.WriteString(Table(res.TableData))
		if res.Reply != "" {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(res.Reply))
		}
	case res.ChartConfig != nil:
		b.WriteString(ChartText(res.ChartConfig, width))
	default:
		b.WriteString(dimStyle.Render(res.Reply))
	}

	if res.State == engine.StateStale {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(engine.ReplyLoading))
	}
	return b.String(), nil
}

// ============================================================================
// TABLE
// ============================================================================

// Table draws the current page with sort arrows on sorted headers and a
// paging footer.
func Table(data *engine.TableData) string {
	headers := make([]string, len(data.Columns))
	for i, c := range data.Columns {
		headers[i] = c.Label() + sortArrow(c)
	}

	rows := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if j < len(data.Columns) {
				cells[j] = format.Cell(cell, data.Columns[j].Column)
			} else {
				cells[j] = cell.Text
			}
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col < len(data.Columns) && data.Columns[col].Align == "right" {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	return t.String() + "\n" + dimStyle.Render(Footer(data))
}

// Footer summarizes paging: page number, visible row range, total rows and
// the active sort.
func Footer(data *engine.TableData) string {
	parts := []string{fmt.Sprintf("Page %d", data.Page+1)}

	if n := len(data.Rows); n > 0 {
		start := data.Page*data.RowsPerPage + 1
		parts = append(parts, fmt.Sprintf("rows %s–%s of %s",
			format.Count(start), format.Count(start+n-1), format.Count(data.TotalRows)))
	} else {
		parts = append(parts, fmt.Sprintf("no rows (%s total)", format.Count(data.TotalRows)))
	}

	if len(data.Sort) > 0 {
		keys := make([]string, len(data.Sort))
		for i, k := range data.Sort {
			keys[i] = k.Column + arrow(k.Direction)
		}
		parts = append(parts, "sorted by "+strings.Join(keys, ", "))
	}

	nav := make([]string, 0, 2)
	if data.HasPrev {
		nav = append(nav, "◀ prev")
	}
	if data.HasNext {
		nav = append(nav, "next ▶")
	}
	if len(nav) > 0 {
		parts = append(parts, strings.Join(nav, " "))
	}
	return strings.Join(parts, " · ")
}

func sortArrow(c engine.TableColumn) string {
	if !c.Sorted {
		return ""
	}
	return arrow(c.Direction)
}

func arrow(d engine.Direction) string {
	if d == engine.Descending {
		return " ↓"
	}
	return " ↑"
}

// ============================================================================
// CHART — Horizontal bars, one block per series
// ============================================================================

// ChartText draws a chart config as horizontal bars scaled to MaxCount.
func ChartText(cfg *engine.ChartConfig, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	labelW := 4
	for _, l := range cfg.Labels {
		if n := lipgloss.Width(l); n > labelW {
			labelW = n
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	barW := width - labelW - 14
	if barW < 4 {
		barW = 4
	}

	scale := cfg.MaxCount
	if cfg.ShowPercentages {
		scale = 100
	}
	if scale <= 0 {
		scale = 1
	}

	var lines []string
	for si, s := range cfg.Series {
		if len(cfg.Series) > 1 || s.Name != engine.DefaultSeriesName {
			lines = append(lines, titleStyle.Render(s.Name))
		}
		for i, v := range s.Data {
			// Truncate by display width; wide runes take two columns.
			label := ansi.Truncate(cfg.Labels[i], labelW, "…")

			barLen := int(math.Round(v / scale * float64(barW)))
			if barLen < 1 && v > 0 {
				barLen = 1
			}
			if barLen > barW {
				barLen = barW
			}

			color := s.Color
			if cfg.ChartType == engine.ChartDonut && i < len(cfg.Colors) {
				color = cfg.Colors[i]
			}
			bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", barLen))

			value := engine.FormatNumber(v)
			if cfg.ShowPercentages {
				value += "%"
			}
			lines = append(lines, fmt.Sprintf("%s %s %s",
				lipgloss.NewStyle().Width(labelW).Render(label), bar, value))
		}
		if si < len(cfg.Series)-1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// ============================================================================
// TEXT
// ============================================================================

// Text renders a text block as markdown: the title as a heading, the body
// as-is.
func Text(data *engine.TextData, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	var md strings.Builder
	if data.Title != "" {
		md.WriteString("# ")
		md.WriteString(data.Title)
		md.WriteString("\n\n")
	}
	md.WriteString(data.Body)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
