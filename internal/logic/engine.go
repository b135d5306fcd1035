package logic

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// EngineOptions configures the comparison pipeline.
type EngineOptions struct {
	Merge        MergeOptions
	Axis         AxisOptions
	Distribution DistributionOptions
}

// DefaultEngineOptions clips charts to the default x ceiling and keeps every row.
func DefaultEngineOptions() EngineOptions {
	axis := DefaultAxisOptions()
	return EngineOptions{
		Merge: MergeOptions{
			Window:              &Window{Min: 0, Max: axis.XCeiling},
			NegligibleThreshold: axis.NegligibleThreshold,
		},
		Axis: axis,
	}
}

// formatRules bundles the compiled rules for one scoring format.
type formatRules struct {
	table  []CompiledRule
	sample CompiledRule
	chart  CompiledRule
}

// Engine runs the scalar table and distribution chart pipelines. It holds
// only compiled rules and options, so one Engine is safe for concurrent use.
type Engine struct {
	opts  EngineOptions
	rules map[models.ScoringFormat]formatRules
}

// NewEngine compiles the rules of every scoring format.
func NewEngine(opts EngineOptions) (*Engine, error) {
	e := &Engine{opts: opts, rules: make(map[models.ScoringFormat]formatRules)}
	for _, f := range Formats() {
		p, err := Profile(f)
		if err != nil {
			return nil, err
		}
		defs, err := DefaultRules(f)
		if err != nil {
			return nil, err
		}
		table, err := CompileRules(defs)
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f, err)
		}
		sample, err := CompileRule(p.SampleRule())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f, err)
		}
		chart, err := CompileRule(p.ChartRule())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f, err)
		}
		e.rules[f] = formatRules{table: table, sample: sample, chart: chart}
	}
	return e, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() EngineOptions { return e.opts }

// CompareInput is one player pair under one scoring format.
type CompareInput struct {
	Format   models.ScoringFormat
	Viewport models.Viewport
	PlayerA  models.Player
	PlayerB  models.Player
	RecordA  models.Record
	RecordB  models.Record
	// SamplesA and SamplesB are raw simulation outcomes supplied from outside
	// the record. When present they take priority over record payloads.
	SamplesA []float64
	SamplesB []float64
}

// Compare builds the comparison table and chart. It performs no I/O and
// returns identical output for identical input.
func (e *Engine) Compare(in CompareInput) (*models.Comparison, error) {
	fr, ok := e.rules[in.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, in.Format)
	}

	distA := e.distribution(in.RecordA, in.SamplesA, fr)
	distB := e.distribution(in.RecordB, in.SamplesB, fr)

	rows := MergeSeries(seriesOf(distA), seriesOf(distB), e.opts.Merge)

	axis := e.opts.Axis
	if in.Viewport != "" {
		axis.Viewport = in.Viewport
	}
	xPlan, yPlan := PlanChart(rows, axis)

	return &models.Comparison{
		Format:   in.Format,
		Viewport: axis.Viewport,
		PlayerA:  in.PlayerA,
		PlayerB:  in.PlayerB,
		Rows:     BuildTable(in.RecordA, in.RecordB, fr.table),
		Chart: models.Chart{
			Rows:          rows,
			XAxis:         xPlan,
			YAxis:         yPlan,
			DistributionA: distA,
			DistributionB: distB,
		},
	}, nil
}

// Distribution builds one player's series for a format.
func (e *Engine) Distribution(record models.Record, samples []float64, f models.ScoringFormat) (*models.Distribution, error) {
	fr, ok := e.rules[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return e.distribution(record, samples, fr), nil
}

func (e *Engine) distribution(record models.Record, samples []float64, fr formatRules) *models.Distribution {
	if d := BuildFromSamples(samples); d != nil {
		return d
	}
	flat := Flatten(record)
	// Every matching leaf is a candidate: a scalar such as "sample_count"
	// must not shadow the payload it describes.
	var candidates []gjson.Result
	for _, f := range ResolveAll(flat, fr.sample) {
		candidates = append(candidates, f.Value)
	}
	for _, f := range ResolveAll(flat, fr.chart) {
		candidates = append(candidates, f.Value)
	}
	return BuildPreferred(candidates, e.opts.Distribution)
}

func seriesOf(d *models.Distribution) models.Series {
	if d == nil {
		return nil
	}
	return d.Points
}
