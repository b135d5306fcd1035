package logic

import (
	"math"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/models"
)

func approxSeries(t *testing.T, got, want models.Series) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d points %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 1e-6 || math.Abs(got[i].Y-want[i].Y) > 1e-6 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildDistribution(t *testing.T) {
	tests := []struct {
		name       string
		payload    gjson.Result
		want       models.Series
		wantSource models.DistributionSource
		wantScale  models.Scale
	}{
		{
			name:       "cumulative percent is a fixed point",
			payload:    gjson.Parse(`[{"pts":0,"pct":0},{"pts":10,"pct":50},{"pts":20,"pct":100}]`),
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 50}, {X: 20, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "unsorted input is ordered by outcome",
			payload:    gjson.Parse(`[{"pts":20,"pct":100},{"pts":0,"pct":0},{"pts":10,"pct":50}]`),
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 50}, {X: 20, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "cumulative fraction",
			payload:    gjson.Parse(`[{"x":0,"y":0.1},{"x":10,"y":0.5},{"x":20,"y":1}]`),
			want:       models.Series{{X: 0, Y: 10}, {X: 10, Y: 50}, {X: 20, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScaleFraction,
		},
		{
			name:       "mass percent",
			payload:    gjson.Parse(`[{"x":0,"y":10},{"x":5,"y":30},{"x":10,"y":20}]`),
			want:       models.Series{{X: 0, Y: 10}, {X: 5, Y: 40}, {X: 10, Y: 60}},
			wantSource: models.SourceMass,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "mass fraction",
			payload:    gjson.Parse(`[{"x":0,"y":0.2},{"x":5,"y":0.5},{"x":10,"y":0.3}]`),
			want:       models.Series{{X: 0, Y: 20}, {X: 5, Y: 70}, {X: 10, Y: 100}},
			wantSource: models.SourceMass,
			wantScale:  models.ScaleFraction,
		},
		{
			name:       "string coordinates and cdf key",
			payload:    gjson.Parse(`[{"x":"0","cdf":"0"},{"x":"12.5","cdf":"100"}]`),
			want:       models.Series{{X: 0, Y: 0}, {X: 12.5, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "values above 100 are clamped",
			payload:    gjson.Parse(`[{"x":0,"y":50},{"x":1,"y":150}]`),
			want:       models.Series{{X: 0, Y: 50}, {X: 1, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "duplicate outcome keeps the last value",
			payload:    gjson.Parse(`[{"x":0,"y":0},{"x":5,"y":10},{"x":5,"y":20}]`),
			want:       models.Series{{X: 0, Y: 0}, {X: 5, Y: 20}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "non-finite pairs are dropped",
			payload:    gjson.Parse(`[{"x":"a","y":10},{"x":0,"y":0},{"x":10,"y":100}]`),
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "sample list",
			payload:    gjson.Parse(`[3,1,3,2,3,1]`),
			want:       models.Series{{X: 1, Y: 100.0 / 3}, {X: 2, Y: 50}, {X: 3, Y: 100}},
			wantSource: models.SourceSamples,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "sample list of strings",
			payload:    gjson.Parse(`["4","2"]`),
			want:       models.Series{{X: 2, Y: 50}, {X: 4, Y: 100}},
			wantSource: models.SourceSamples,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "json string with doubled quotes",
			payload:    gjson.Result{Type: gjson.String, Str: `[{""pts"":0,""pct"":0},{""pts"":10,""pct"":100}]`},
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "json string",
			payload:    gjson.Result{Type: gjson.String, Str: `[{"pts":0,"pct":0},{"pts":10,"pct":100}]`},
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
		{
			name:       "wrapped object",
			payload:    gjson.Parse(`{"bins":[{"x":0,"y":0},{"x":10,"y":100}]}`),
			want:       models.Series{{X: 0, Y: 0}, {X: 10, Y: 100}},
			wantSource: models.SourceCumulative,
			wantScale:  models.ScalePercent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildDistribution(tt.payload, DistributionOptions{})
			if d == nil {
				t.Fatal("expected a distribution")
			}
			approxSeries(t, d.Points, tt.want)
			if d.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", d.Source, tt.wantSource)
			}
			if d.Scale != tt.wantScale {
				t.Errorf("scale = %q, want %q", d.Scale, tt.wantScale)
			}
			if d.Ambiguous {
				t.Error("multi-point distribution flagged ambiguous")
			}
		})
	}
}

func TestBuildDistribution_Unusable(t *testing.T) {
	tests := []struct {
		name    string
		payload gjson.Result
	}{
		{"missing", gjson.Result{}},
		{"empty array", gjson.Parse(`[]`)},
		{"number", gjson.Parse(`5`)},
		{"garbage string", gjson.Result{Type: gjson.String, Str: "not json"}},
		{"object without wrapper", gjson.Parse(`{"a":1}`)},
		{"all non-finite", gjson.Parse(`[{"x":"a","y":"b"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := BuildDistribution(tt.payload, DistributionOptions{}); d != nil {
				t.Errorf("expected nil, got %+v", d)
			}
		})
	}
}

func TestBuildDistribution_MonotoneOutput(t *testing.T) {
	payloads := []string{
		`[{"x":0,"y":10},{"x":1,"y":5},{"x":2,"y":30},{"x":3,"y":-4}]`,
		`[{"x":0,"y":0.3},{"x":1,"y":0.1},{"x":2,"y":0.6}]`,
		`[{"x":5,"y":80},{"x":1,"y":90},{"x":3,"y":10}]`,
	}

	for _, p := range payloads {
		d := BuildDistribution(gjson.Parse(p), DistributionOptions{})
		if d == nil {
			t.Fatalf("%s: expected distribution", p)
		}
		for i, pt := range d.Points {
			if pt.Y < 0 || pt.Y > 100 {
				t.Errorf("%s: y out of range at %d: %v", p, i, pt.Y)
			}
			if i > 0 && (pt.X <= d.Points[i-1].X || pt.Y < d.Points[i-1].Y) {
				t.Errorf("%s: not monotone at %d: %v", p, i, d.Points)
			}
		}
	}
}

func TestBuildDistribution_SinglePoint(t *testing.T) {
	payload := gjson.Parse(`[{"x":10,"y":0.5}]`)

	d := BuildDistribution(payload, DistributionOptions{})
	if d == nil || !d.Ambiguous {
		t.Fatalf("expected ambiguous distribution, got %+v", d)
	}
	approxSeries(t, d.Points, models.Series{{X: 10, Y: 50}})

	d = BuildDistribution(payload, DistributionOptions{FallbackScale: models.ScalePercent})
	if d == nil || d.Ambiguous {
		t.Fatalf("fallback scale should resolve ambiguity, got %+v", d)
	}
	approxSeries(t, d.Points, models.Series{{X: 10, Y: 0.5}})
}

func TestBuildPreferred_SamplesWin(t *testing.T) {
	chart := gjson.Parse(`[{"x":0,"y":0},{"x":50,"y":100}]`)
	samples := gjson.Parse(`[10,20]`)
	count := gjson.Parse(`2`)

	d := BuildPreferred([]gjson.Result{chart, count, samples}, DistributionOptions{})
	if d == nil || d.Source != models.SourceSamples {
		t.Fatalf("expected samples to win, got %+v", d)
	}

	d = BuildPreferred([]gjson.Result{count, gjson.Parse(`[]`), chart}, DistributionOptions{})
	if d == nil || d.Source != models.SourceCumulative {
		t.Fatalf("expected chart fallback, got %+v", d)
	}

	if d := BuildPreferred(nil, DistributionOptions{}); d != nil {
		t.Errorf("expected nil for no candidates, got %+v", d)
	}
}

func TestBuildFromSamples(t *testing.T) {
	d := BuildFromSamples([]float64{1, 1, 2, 3, 3, 3})
	if d == nil {
		t.Fatal("expected distribution")
	}
	approxSeries(t, d.Points, models.Series{{X: 1, Y: 100.0 / 3}, {X: 2, Y: 50}, {X: 3, Y: 100}})

	if d := BuildFromSamples(nil); d != nil {
		t.Error("expected nil for no samples")
	}
	if d := BuildFromSamples([]float64{math.NaN(), math.Inf(1)}); d != nil {
		t.Error("expected nil for non-finite samples")
	}
}

func TestPercentile(t *testing.T) {
	series := models.Series{{X: 0, Y: 0}, {X: 10, Y: 50}, {X: 20, Y: 100}}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{25, 5},
		{50, 10},
		{90, 18},
		{100, 20},
		{120, 20},
	}

	for _, tt := range tests {
		got, ok := Percentile(series, tt.p)
		if !ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, %v; want %v", tt.p, got, ok, tt.want)
		}
	}

	if _, ok := Percentile(nil, 50); ok {
		t.Error("expected no percentile for an empty series")
	}
}

func TestStepPercentile(t *testing.T) {
	series := models.Series{{X: 10, Y: 20}, {X: 20, Y: 70}, {X: 30, Y: 100}}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{20, 10},
		{21, 20},
		{70, 20},
		{90, 30},
		{120, 30},
	}

	for _, tt := range tests {
		got, ok := StepPercentile(series, tt.p)
		if !ok || got != tt.want {
			t.Errorf("StepPercentile(%v) = %v, %v; want %v", tt.p, got, ok, tt.want)
		}
	}

	if _, ok := StepPercentile(nil, 90); ok {
		t.Error("expected no percentile for an empty series")
	}
}
