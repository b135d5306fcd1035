package logic

import (
	"sort"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// Window bounds the outcome domain of a merged chart.
type Window struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MergeOptions controls MergeSeries.
type MergeOptions struct {
	// Window drops points outside [Min, Max] before the union is taken.
	Window *Window
	// TrimNegligible drops rows where neither side exceeds NegligibleThreshold.
	TrimNegligible      bool
	NegligibleThreshold float64
}

// MergeSeries aligns two cumulative series on the sorted union of their
// outcome values. Each side holds its latest sample at or before x and is nil
// before its first sample.
func MergeSeries(a, b models.Series, opts MergeOptions) []models.MergedRow {
	a = clipSeries(a, opts.Window)
	b = clipSeries(b, opts.Window)

	xs := make([]float64, 0, len(a)+len(b))
	for _, p := range a {
		xs = append(xs, p.X)
	}
	for _, p := range b {
		xs = append(xs, p.X)
	}
	sort.Float64s(xs)

	rows := make([]models.MergedRow, 0, len(xs))
	ia, ib := -1, -1
	for i, x := range xs {
		if i > 0 && xs[i-1] == x {
			continue
		}
		for ia+1 < len(a) && a[ia+1].X <= x {
			ia++
		}
		for ib+1 < len(b) && b[ib+1].X <= x {
			ib++
		}

		row := models.MergedRow{X: x, A: heldValue(a, ia), B: heldValue(b, ib)}
		if opts.TrimNegligible && negligible(row.A, opts.NegligibleThreshold) && negligible(row.B, opts.NegligibleThreshold) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func heldValue(s models.Series, i int) *float64 {
	if i < 0 {
		return nil
	}
	v := s[i].Y
	return &v
}

func negligible(v *float64, threshold float64) bool {
	return v == nil || *v <= threshold
}

// clipSeries copies the points inside w, sorted by x.
func clipSeries(s models.Series, w *Window) models.Series {
	out := make(models.Series, 0, len(s))
	for _, p := range s {
		if w != nil && (p.X < w.Min || p.X > w.Max) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}
