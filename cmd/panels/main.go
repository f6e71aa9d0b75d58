package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/panels/components"
	"github.com/spektr-org/panels/config"
	"github.com/spektr-org/panels/dashboard"
	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/helpers"
	"github.com/spektr-org/panels/render"
)

// ============================================================================
// PANELS CLI — Render dashboard panels from CSV files
// ============================================================================

const version = "0.3.0"

var (
	configPath string
	verbose    bool
	width      int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "panels",
	Short:   "Render dashboard charts and tables from CSV files",
	Version: version,
	Long: `panels renders a YAML dashboard of chart, table and text panels over
CSV datasets. Charts go to an HTML page; tables and text print to the
terminal. Table sort and page state persist between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every panel of the dashboard",
	Long: `Renders all panels. Chart panels are written to an HTML page (--out);
every panel is also printed to the terminal.

Example:
  panels render --config sales.yaml --out sales.html --watch`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var tableCmd = &cobra.Command{
	Use:   "table <panel-id>",
	Short: "Print a table panel, optionally changing its sort or page first",
	Long: `Prints one table panel. Sort and page changes are saved to the
dashboard's state file and apply to later runs.

Examples:
  panels table orders --next
  panels table orders --sort units      # toggle units, make it primary
  panels table orders --rows 25`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

var discoverCmd = &cobra.Command{
	Use:   "discover <file.csv>",
	Short: "Print the column descriptors discovered in a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiscover,
}

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the available components and their inputs",
	Args:  cobra.NoArgs,
	RunE:  runComponents,
}

var (
	outFile     string
	watch       bool
	nextPage    bool
	prevPage    bool
	sortColumn  string
	rowsPerPage int
	height      int
	datasetName string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dashboard.yaml", "Dashboard file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().IntVar(&width, "width", render.DefaultWidth, "Terminal width")

	renderCmd.Flags().StringVarP(&outFile, "out", "o", "dashboard.html", "HTML file for chart panels (empty to skip)")
	renderCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the dashboard or a dataset changes")

	tableCmd.Flags().BoolVar(&nextPage, "next", false, "Go to the next page")
	tableCmd.Flags().BoolVar(&prevPage, "prev", false, "Go to the previous page")
	tableCmd.Flags().StringVar(&sortColumn, "sort", "", "Sort by column (toggles direction when already primary)")
	tableCmd.Flags().IntVar(&rowsPerPage, "rows", 0, "Rows per page")
	tableCmd.Flags().IntVar(&height, "height", 0, "Fit rows per page to a panel height in pixels")
	tableCmd.MarkFlagsMutuallyExclusive("next", "prev")
	tableCmd.MarkFlagsMutuallyExclusive("rows", "height")

	discoverCmd.Flags().StringVar(&datasetName, "name", "", "Dataset name (defaults to the file name)")

	rootCmd.AddCommand(renderCmd, tableCmd, discoverCmd, componentsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDashboard() (*dashboard.Dashboard, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return dashboard.Open(cfg, dashboard.WithLogger(logger))
}

// ============================================================================
// RENDER
// ============================================================================

func runRender(cmd *cobra.Command, args []string) error {
	files, err := renderOnce(cmd)
	if err != nil {
		return err
	}
	if !watch {
		return nil
	}
	files = append([]string{configPath}, files...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", strings.Join(files, ", "))
	w := dashboard.NewWatcher(files, dashboard.DefaultDebounce, logger)
	return w.Run(ctx, func(paths []string) error {
		logger.Info("re-rendering", zap.Strings("changed", paths))
		_, err := renderOnce(cmd)
		return err
	})
}

// renderOnce renders every panel and returns the dataset files read.
func renderOnce(cmd *cobra.Command) ([]string, error) {
	d, err := openDashboard()
	if err != nil {
		return nil, err
	}
	rendered, err := d.Render()
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	results := make([]*engine.Result, 0, len(rendered))
	for _, r := range rendered {
		results = append(results, r.Result)
		text, err := render.Terminal(r.Result, width)
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", r.Panel.Config.ID, err)
		}
		fmt.Fprintf(out, "%s\n\n", text)
	}

	if outFile == "" {
		return d.Files(), nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outFile, err)
	}
	drawn, err := render.HTML(f, d.Title(), results)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("html written", zap.String("path", outFile), zap.Int("charts", drawn))
	if drawn > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d chart(s) written to %s\n", drawn, outFile)
	}
	return d.Files(), nil
}

// ============================================================================
// TABLE
// ============================================================================

func runTable(cmd *cobra.Command, args []string) error {
	d, err := openDashboard()
	if err != nil {
		return err
	}
	p, ok := d.Panel(args[0])
	if !ok {
		return fmt.Errorf("panel %q: %w", args[0], dashboard.ErrUnknownPanel)
	}
	if !p.Instance.Stateful() {
		return fmt.Errorf("panel %q is a %s, not a table", args[0], p.Config.Component)
	}

	inst := p.Instance
	if sortColumn != "" {
		if _, err := inst.UpdateSort(sortColumn); err != nil {
			return err
		}
	}
	switch {
	case rowsPerPage > 0:
		_, err = inst.SetRowsPerPage(rowsPerPage)
	case height > 0:
		_, err = inst.SetHeight(height)
	}
	if err != nil {
		return err
	}
	switch {
	case nextPage:
		_, err = inst.NextPage()
	case prevPage:
		_, err = inst.PrevPage()
	}
	if err != nil {
		return err
	}

	res, err := d.RenderPanel(args[0])
	if err != nil {
		return err
	}
	text, err := render.Terminal(res, width)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// ============================================================================
// DISCOVER / COMPONENTS
// ============================================================================

func runDiscover(cmd *cobra.Command, args []string) error {
	name := datasetName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	ds, err := helpers.DiscoverCSV(args[0], name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return enc.Close()
}

func runComponents(cmd *cobra.Command, args []string) error {
	reg := components.DefaultRegistry()
	if len(reg.Names()) == 0 {
		return errors.New("no components registered")
	}

	rows := make([][]string, 0)
	for _, meta := range reg.Metas() {
		for i, in := range meta.Inputs {
			name := ""
			if i == 0 {
				name = meta.Name
			}
			typ := string(in.Type)
			if in.Array {
				typ += "[]"
			}
			if in.Config.Dataset != "" {
				typ += " of " + in.Config.Dataset
			}
			rows = append(rows, []string{name, in.Name, typ, in.Label})
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Component", "Input", "Type", "Label").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
