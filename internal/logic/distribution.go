package logic

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// Object keys that may wrap a distribution array.
var payloadWrapperKeys = []string{"points", "bins", "data", "samples", "values"}

// DistributionOptions tunes scale inference.
type DistributionOptions struct {
	// FallbackScale is applied when the scale cannot be inferred from the data
	// (a single-point distribution). ScaleAuto keeps the heuristic and flags
	// the result as ambiguous.
	FallbackScale models.Scale
}

// BuildDistribution normalizes one payload into a cumulative percentage
// series. It accepts an array of {pts|x, pct|y|cdf} pairs, a flat array of
// raw samples, or a JSON string holding either. Anything else, including an
// empty or entirely non-finite payload, yields nil.
func BuildDistribution(payload gjson.Result, opts DistributionOptions) *models.Distribution {
	payload = unwrapPayload(payload)
	if !payload.IsArray() {
		return nil
	}
	if isSampleList(payload) {
		return BuildFromSamples(sampleValues(payload))
	}
	return buildFromPoints(pointValues(payload), opts)
}

// BuildPreferred builds from the first usable candidate. Raw sample lists
// keep full resolution, so any non-empty one wins over binned payloads
// regardless of position.
func BuildPreferred(candidates []gjson.Result, opts DistributionOptions) *models.Distribution {
	payloads := make([]gjson.Result, 0, len(candidates))
	for _, c := range candidates {
		c = unwrapPayload(c)
		if !c.IsArray() {
			continue
		}
		if isSampleList(c) {
			if d := BuildFromSamples(sampleValues(c)); d != nil {
				return d
			}
			continue
		}
		payloads = append(payloads, c)
	}
	for _, p := range payloads {
		if d := buildFromPoints(pointValues(p), opts); d != nil {
			return d
		}
	}
	return nil
}

// BuildFromSamples computes the empirical CDF of raw outcome samples. Equal
// values collapse to one point carrying the count through their last
// occurrence. Non-finite samples are ignored.
func BuildFromSamples(samples []float64) *models.Distribution {
	vals := make([]float64, 0, len(samples))
	for _, s := range samples {
		if isFinite(s) {
			vals = append(vals, s)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)

	n := float64(len(vals))
	series := make(models.Series, 0, len(vals))
	for i, v := range vals {
		if i+1 < len(vals) && vals[i+1] == v {
			continue
		}
		series = append(series, models.Point{X: v, Y: float64(i+1) / n * 100})
	}
	return &models.Distribution{Points: series, Source: models.SourceSamples, Scale: models.ScalePercent}
}

func buildFromPoints(points []models.Point, opts DistributionOptions) *models.Distribution {
	if len(points) == 0 {
		return nil
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })

	cumulative := true
	sum := 0.0
	for i, p := range points {
		sum += p.Y
		if i > 0 && p.Y < points[i-1].Y {
			cumulative = false
		}
	}

	ref := sum
	source := models.SourceMass
	if cumulative {
		ref = points[len(points)-1].Y
		source = models.SourceCumulative
	}

	// Best effort: a reference value at or below 1 means fractions. One point
	// carries no evidence either way.
	ambiguous := len(points) == 1
	scale := models.ScalePercent
	if ref <= 1 {
		scale = models.ScaleFraction
	}
	if ambiguous && opts.FallbackScale != models.ScaleAuto {
		scale = opts.FallbackScale
		ambiguous = false
	}
	factor := 1.0
	if scale == models.ScaleFraction {
		factor = 100
	}

	out := make(models.Series, 0, len(points))
	running, prev := 0.0, 0.0
	for _, p := range points {
		y := p.Y
		if !cumulative {
			running += p.Y
			y = running
		}
		y = clamp(y*factor, 0, 100)
		if y < prev {
			y = prev
		}
		prev = y

		if n := len(out); n > 0 && out[n-1].X == p.X {
			out[n-1].Y = y
			continue
		}
		out = append(out, models.Point{X: p.X, Y: y})
	}

	return &models.Distribution{Points: out, Source: source, Scale: scale, Ambiguous: ambiguous}
}

// Percentile returns the outcome at which a cumulative series reaches p
// percent, interpolating linearly between points.
func Percentile(series models.Series, p float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	if p <= series[0].Y {
		return series[0].X, true
	}
	for i := 1; i < len(series); i++ {
		lo, hi := series[i-1], series[i]
		if hi.Y < p {
			continue
		}
		if hi.Y == lo.Y {
			return hi.X, true
		}
		t := (p - lo.Y) / (hi.Y - lo.Y)
		return lo.X + t*(hi.X-lo.X), true
	}
	return series[len(series)-1].X, true
}

// StepPercentile returns the outcome of the first point whose cumulative
// value reaches p, without interpolating between bins.
func StepPercentile(series models.Series, p float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	for _, pt := range series {
		if pt.Y >= p {
			return pt.X, true
		}
	}
	return series[len(series)-1].X, true
}

// unwrapPayload decodes JSON carried inside a string and unwraps single-key
// containers such as {"points": [...]}.
func unwrapPayload(v gjson.Result) gjson.Result {
	if v.Type == gjson.String {
		s := strings.TrimSpace(v.Str)
		if !gjson.Valid(s) {
			// CSV exports double the inner quotes.
			s = strings.ReplaceAll(s, `""`, `"`)
			s = strings.Trim(strings.TrimSpace(s), `"'`)
		}
		if !gjson.Valid(s) {
			return gjson.Result{}
		}
		v = gjson.Parse(s)
	}
	if v.IsObject() {
		for _, k := range payloadWrapperKeys {
			if inner := v.Get(k); inner.IsArray() {
				return inner
			}
		}
	}
	return v
}

// isSampleList reports whether every element is a bare value.
func isSampleList(arr gjson.Result) bool {
	elems := arr.Array()
	if len(elems) == 0 {
		return false
	}
	for _, e := range elems {
		if !isScalar(e) {
			return false
		}
	}
	return true
}

func sampleValues(arr gjson.Result) []float64 {
	var out []float64
	for _, e := range arr.Array() {
		switch e.Type {
		case gjson.Number:
			out = append(out, e.Float())
		case gjson.String:
			if f, ok := models.ParseFloat(e.Str); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// pointValues decodes object elements, dropping any pair with a non-finite
// coordinate.
func pointValues(arr gjson.Result) []models.Point {
	var out []models.Point
	for _, e := range arr.Array() {
		if !e.IsObject() {
			continue
		}
		var p models.Point
		if err := json.Unmarshal([]byte(e.Raw), &p); err != nil {
			continue
		}
		if isFinite(p.X) && isFinite(p.Y) {
			out = append(out, p)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
