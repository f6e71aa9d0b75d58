package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/panels/components"
	"github.com/spektr-org/panels/config"
	"github.com/spektr-org/panels/engine"
	"github.com/spektr-org/panels/statestore"
)

const ordersCSV = `Region,Product,Units
EU,widget,5
US,widget,3
EU,gadget,2
APAC,gadget,7
US,gizmo,1
EU,gizmo,4
`

const salesYAML = `
title: Sales
datasets:
  orders:
    path: orders.csv
panels:
  - id: by-region
    component: BarChart
    height: 300
    inputs:
      ds: orders
      xAxis: region
      metric: units
  - id: orders-table
    component: TableChart
    rows_per_page: 4
    inputs:
      ds: orders
      columns: [product, units]
      defaultSort: "units:desc"
  - id: notes
    component: Text
    inputs:
      body: Numbers are preliminary.
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func openSales(t *testing.T, dir string, opts ...Option) *Dashboard {
	t.Helper()
	cfg, err := config.Load(filepath.Join(dir, "dashboard.yaml"))
	require.NoError(t, err)
	d, err := Open(cfg, opts...)
	require.NoError(t, err)
	return d
}

func TestOpenAndRender(t *testing.T) {
	dir := writeFiles(t, map[string]string{"orders.csv": ordersCSV, "dashboard.yaml": salesYAML})
	d := openSales(t, dir, WithStore(statestore.NewMemory()))

	assert.Equal(t, "Sales", d.Title())
	require.Len(t, d.Panels(), 3)
	assert.Equal(t, engine.TypeNumber, d.Datasets()["orders"].Columns[2].NativeType)
	assert.Equal(t, []string{filepath.Join(dir, "orders.csv")}, d.Files())

	rendered, err := d.Render()
	require.NoError(t, err)
	require.Len(t, rendered, 3)

	chart := rendered[0].Result.ChartConfig
	require.NotNil(t, chart)
	assert.Equal(t, []string{"EU", "US", "APAC"}, chart.Labels)
	assert.Equal(t, []float64{11, 4, 7}, chart.Series[0].Data)

	table := rendered[1].Result.TableData
	require.NotNil(t, table)
	assert.Equal(t, 4, table.RowsPerPage)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "gadget", table.Rows[0][0].Text)
	assert.Equal(t, "7", table.Rows[0][1].Text)
	assert.True(t, table.HasNext)

	require.NotNil(t, rendered[2].Result.TextData)
	assert.Equal(t, "Numbers are preliminary.", rendered[2].Result.TextData.Body)
}

func TestPagingPersistsAcrossOpens(t *testing.T) {
	dir := writeFiles(t, map[string]string{"orders.csv": ordersCSV, "dashboard.yaml": salesYAML})

	first := openSales(t, dir)
	p, ok := first.Panel("orders-table")
	require.True(t, ok)
	_, err := p.Instance.NextPage()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.DefaultStateFile))

	second := openSales(t, dir)
	res, err := second.RenderPanel("orders-table")
	require.NoError(t, err)
	require.NotNil(t, res.TableData)
	assert.Equal(t, 1, res.TableData.Page)
	require.Len(t, res.TableData.Rows, 2)
	assert.Equal(t, "2", res.TableData.Rows[0][1].Text)
	assert.False(t, res.TableData.HasNext)

	_, err = second.RenderPanel("nope")
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestUnreadableDatasetRendersError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"dashboard.yaml": `
datasets:
  ghost:
    path: missing.csv
    columns:
      - name: units
        native_type: number
panels:
  - id: ghost-table
    component: TableChart
    inputs:
      ds: ghost
      columns: [units]
`})

	d := openSales(t, dir, WithStore(statestore.NewMemory()))
	res, err := d.RenderPanel("ghost-table")
	require.NoError(t, err)
	assert.Equal(t, engine.StateError, res.State)
	assert.Contains(t, res.Error, "load ghost")
}

func TestOpenReportsEveryBadPanel(t *testing.T) {
	dir := writeFiles(t, map[string]string{"orders.csv": ordersCSV, "dashboard.yaml": `
datasets:
  orders:
    path: orders.csv
panels:
  - id: gauge
    component: Gauge
  - id: bad-axis
    component: BarChart
    inputs:
      ds: orders
      xAxis: country
`})
	cfg, err := config.Load(filepath.Join(dir, "dashboard.yaml"))
	require.NoError(t, err)

	_, err = Open(cfg, WithStore(statestore.NewMemory()))
	require.Error(t, err)
	assert.ErrorIs(t, err, components.ErrUnknownComponent)
	assert.Contains(t, err.Error(), `panel "bad-axis"`)

	_, err = Open(&config.Dashboard{Panels: []config.PanelConfig{{Component: "Text"}}})
	assert.Error(t, err)
}

// ============================================================================
// WATCH
// ============================================================================

func TestSettledPaths(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"/b.csv": now.Add(-time.Second),
		"/a.csv": now.Add(-time.Second),
		"/c.csv": now,
	}

	assert.Equal(t, []string{"/a.csv", "/b.csv"}, settledPaths(pending, now, 300*time.Millisecond))
	assert.Len(t, pending, 1)
	assert.Empty(t, settledPaths(pending, now, 300*time.Millisecond))
}

func TestTickInterval(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, tickInterval(300*time.Millisecond))
	assert.Equal(t, time.Millisecond, tickInterval(2*time.Millisecond))
	assert.Equal(t, time.Millisecond, tickInterval(time.Nanosecond))
}

func TestWatcherTinyDebounce(t *testing.T) {
	dir := writeFiles(t, map[string]string{"orders.csv": ordersCSV})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWatcher([]string{filepath.Join(dir, "orders.csv")}, 2*time.Nanosecond, nil)
	assert.NoError(t, w.Run(ctx, func([]string) error { return nil }))
}

func TestWatcherReportsChange(t *testing.T) {
	dir := writeFiles(t, map[string]string{"orders.csv": ordersCSV, "other.csv": ordersCSV})
	target := filepath.Join(dir, "orders.csv")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan []string, 1)
	done := make(chan error, 1)
	w := NewWatcher([]string{target}, 50*time.Millisecond, nil)
	go func() {
		done <- w.Run(ctx, func(paths []string) error {
			select {
			case changed <- paths:
			default:
			}
			return nil
		})
	}()

	// The watch may not be registered yet; keep touching until it reports.
	var got []string
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case got = <-changed:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte(ordersCSV), 0o644))
			require.NoError(t, os.WriteFile(target, []byte(ordersCSV+"US,gizmo,9\n"), 0o644))
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}

	want, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, []string{want}, got)

	cancel()
	assert.NoError(t, <-done)
}
