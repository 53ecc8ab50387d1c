package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var (
	chartOutput string
	chartOpen   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render an HTML chart of the asset store",
	Long: `Fetch the asset list and write an HTML page with two charts:
assets per type and assets modified per day.

The page is written to the data directory unless --output is given.`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output HTML file")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "Open the chart after writing it")
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	resp, err := listService.Execute(ctx, services.AssetQuery{})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list assets"))
		return err
	}

	path := chartOutput
	if path == "" {
		path = appDirs.DataFile("chart.html")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := renderChart(f, resp.Assets, appConfig.BaseURL); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Chart of %d assets written to %s", len(resp.Assets), path)))

	if chartOpen {
		if err := OpenFile(path); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}
	return nil
}

// renderChart writes a page with the type breakdown and daily activity
func renderChart(w io.Writer, snapshot domain.Snapshot, source string) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "assetwatch"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Assets by type",
			Subtitle: fmt.Sprintf("%d assets from %s", len(snapshot), source),
		}),
	)
	pie.AddSeries("types", typeCounts(snapshot)).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		)

	days, counts := modifiedPerDay(snapshot)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Assets modified per day"}),
	)
	bar.SetXAxis(days).AddSeries("modified", counts)

	page := components.NewPage()
	page.PageTitle = "assetwatch"
	page.AddCharts(pie, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// typeCounts returns one pie slice per known type, in display order
func typeCounts(snapshot domain.Snapshot) []opts.PieData {
	counts := snapshot.CountByType()
	items := make([]opts.PieData, 0, len(domain.AssetTypes))
	for _, t := range domain.AssetTypes {
		items = append(items, opts.PieData{Name: string(t), Value: counts[t]})
	}
	return items
}

// modifiedPerDay buckets assets by the date part of LastModified.
// Unparseable timestamps are counted under "unknown".
func modifiedPerDay(snapshot domain.Snapshot) ([]string, []opts.BarData) {
	perDay := make(map[string]int)
	for _, a := range snapshot {
		day := "unknown"
		if t, err := a.ModifiedAt(); err == nil {
			day = t.Format("2006-01-02")
		}
		perDay[day]++
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	counts := make([]opts.BarData, len(days))
	for i, d := range days {
		counts[i] = opts.BarData{Value: perDay[d]}
	}
	return days, counts
}
