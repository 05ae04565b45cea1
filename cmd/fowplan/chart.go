package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fowchess/planner/internal/planner"
)

// renderChart writes an HTML line chart of cfr_iterations and
// expansions against tick number over one "go" call, grounded on the
// teacher's tuner.Tune, which plots error against epoch with
// charts.NewLine() after a tuning run (pkg/search/eval/classical/
// tuner/tuner.go).
func renderChart(history []planner.Statistics) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("chart: no ticks recorded")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "fowplan search progress"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "tick"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)

	ticks := make([]string, len(history))
	iterations := make([]opts.LineData, len(history))
	expansions := make([]opts.LineData, len(history))
	for i, s := range history {
		ticks[i] = strconv.Itoa(i)
		iterations[i] = opts.LineData{Value: s.CFRIterations}
		expansions[i] = opts.LineData{Value: s.Expansions}
	}

	line.SetXAxis(ticks).
		AddSeries("cfr_iterations", iterations).
		AddSeries("expansions", expansions)

	f, err := os.Create("fowplan_chart.html")
	if err != nil {
		return "", fmt.Errorf("chart: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("chart: render: %w", err)
	}
	return f.Name(), nil
}
