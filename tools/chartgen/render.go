package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// errNoChartData is returned when neither player has a distribution.
var errNoChartData = errors.New("no distribution data to chart")

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// stepSeries turns one side of the merged rows into step-after line
// coordinates. Rows before the side's first sample are skipped.
func stepSeries(rows []models.MergedRow, pick func(models.MergedRow) *float64) (xs, ys []float64) {
	for _, r := range rows {
		v := pick(r)
		if v == nil {
			continue
		}
		if n := len(ys); n > 0 {
			xs = append(xs, r.X)
			ys = append(ys, ys[n-1])
		}
		xs = append(xs, r.X)
		ys = append(ys, *v)
	}
	// go-chart needs two points to draw a line.
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	return xs, ys
}

func ticks(plan models.AxisPlan, suffix string) []chart.Tick {
	out := make([]chart.Tick, 0, len(plan.Ticks))
	for _, v := range plan.Ticks {
		out = append(out, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64) + suffix})
	}
	return out
}

func renderSVG(c *models.Comparison, w io.Writer) error {
	var series []chart.Series
	sides := []struct {
		name  string
		color drawing.Color
		pick  func(models.MergedRow) *float64
	}{
		{c.PlayerA.Name, chart.ColorBlue, func(r models.MergedRow) *float64 { return r.A }},
		{c.PlayerB.Name, chart.ColorRed, func(r models.MergedRow) *float64 { return r.B }},
	}
	for _, s := range sides {
		xs, ys := stepSeries(c.Chart.Rows, s.pick)
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{Name: s.name, XValues: xs, YValues: ys, Style: lineStyle(s.color)})
	}
	if len(series) == 0 {
		return errNoChartData
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s vs %s (%s)", c.PlayerA.Name, c.PlayerB.Name, c.Format),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  "Fantasy points",
			Range: &chart.ContinuousRange{Min: c.Chart.XAxis.Min, Max: c.Chart.XAxis.Max},
			Ticks: ticks(c.Chart.XAxis, ""),
		},
		YAxis: chart.YAxis{
			Name:  "Cumulative %",
			Range: &chart.ContinuousRange{Min: c.Chart.YAxis.Min, Max: c.Chart.YAxis.Max},
			Ticks: ticks(c.Chart.YAxis, "%"),
		},
		Series: series,
		Width:  960,
		Height: 540,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.SVG, w)
}
