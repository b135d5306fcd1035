package logic

import (
	"math"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// Maximum x tick intervals per viewport class.
var viewportIntervals = map[models.Viewport]int{
	models.ViewportNarrow: 4,
	models.ViewportMedium: 8,
	models.ViewportWide:   15,
}

// x tick spacings are tried as these multiples of XStep.
var tickMultiples = []float64{1, 2, 3, 4, 5, 10, 15, 20, 25, 50}

// AxisOptions holds the chart domain rules.
type AxisOptions struct {
	XCeiling   float64 // hard cap on the x domain
	XStep      float64 // x max rounds up to a multiple of this
	XBuffer    float64 // added past the last non-negligible x
	XMinDomain float64

	YCeiling float64 // default y max on the percentage scale
	YStep    float64 // y max extends to a multiple of this when exceeded
	YTick    float64
	YMax     float64

	NegligibleThreshold float64
	Viewport            models.Viewport
}

// DefaultAxisOptions returns the stock chart rules.
func DefaultAxisOptions() AxisOptions {
	return AxisOptions{
		XCeiling:            30,
		XStep:               2,
		XBuffer:             2,
		XMinDomain:          10,
		YCeiling:            20,
		YStep:               10,
		YTick:               2,
		YMax:                100,
		NegligibleThreshold: 0.1,
		Viewport:            models.ViewportMedium,
	}
}

// PlanAxis derives bounds and ticks for one axis from the merged rows.
func PlanAxis(rows []models.MergedRow, axis models.Axis, opts AxisOptions) models.AxisPlan {
	if axis == models.AxisY {
		return planY(rows, opts)
	}
	return planX(rows, opts)
}

// PlanChart plans both axes.
func PlanChart(rows []models.MergedRow, opts AxisOptions) (x, y models.AxisPlan) {
	return planX(rows, opts), planY(rows, opts)
}

func planX(rows []models.MergedRow, opts AxisOptions) models.AxisPlan {
	last := 0.0
	for _, r := range rows {
		if !negligible(r.A, opts.NegligibleThreshold) || !negligible(r.B, opts.NegligibleThreshold) {
			last = math.Max(last, r.X)
		}
	}

	max := ceilToStep(last+opts.XBuffer, opts.XStep)
	if min := ceilToStep(opts.XMinDomain, opts.XStep); max < min {
		max = min
	}
	if opts.XCeiling > 0 && max > opts.XCeiling {
		max = opts.XCeiling
	}
	return models.AxisPlan{Min: 0, Max: max, Ticks: evenTicks(0, max, xTickSpacing(max, opts))}
}

func planY(rows []models.MergedRow, opts AxisOptions) models.AxisPlan {
	observed := 0.0
	for _, r := range rows {
		if r.A != nil {
			observed = math.Max(observed, *r.A)
		}
		if r.B != nil {
			observed = math.Max(observed, *r.B)
		}
	}

	max := opts.YCeiling
	if observed > max {
		max = ceilToStep(observed, opts.YStep)
		if opts.YMax > 0 && max > opts.YMax {
			max = opts.YMax
		}
	}
	return models.AxisPlan{Min: 0, Max: max, Ticks: evenTicks(0, max, opts.YTick)}
}

// xTickSpacing picks the finest multiple of XStep that splits max into at
// least two whole intervals within the viewport's budget. Failing that it
// tries whole-number spacings, then an even split at the full budget.
func xTickSpacing(max float64, opts AxisOptions) float64 {
	intervals, ok := viewportIntervals[opts.Viewport]
	if !ok {
		intervals = viewportIntervals[models.ViewportMedium]
	}
	if opts.XStep <= 0 || max <= 0 {
		return max
	}
	budget := float64(intervals)
	for _, m := range tickMultiples {
		s := opts.XStep * m
		if n := max / s; n >= 2 && n <= budget && isWhole(n) {
			return s
		}
	}
	if isWhole(max) {
		for s := math.Ceil(max / budget); s <= max/2; s++ {
			if isWhole(max / s) {
				return s
			}
		}
	}
	return max / budget
}

func isWhole(v float64) bool {
	return math.Abs(v-math.Round(v)) < 1e-9
}

// evenTicks spaces ticks evenly from min to max inclusive. When spacing does
// not divide the span it is shrunk so both ends stay ticks.
func evenTicks(min, max, spacing float64) []float64 {
	span := max - min
	if span <= 0 {
		return []float64{min}
	}
	n := 1.0
	if spacing > 0 {
		n = math.Max(1, math.Ceil(span/spacing-1e-9))
	}
	step := span / n
	ticks := make([]float64, 0, int(n)+1)
	for i := 0.0; i < n; i++ {
		ticks = append(ticks, roundTick(min+step*i))
	}
	return append(ticks, max)
}

func ceilToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Ceil(v/step-1e-9) * step
}

func roundTick(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
