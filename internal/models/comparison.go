package models

// ScoringFormat selects which parallel statistic and distribution fields apply.
type ScoringFormat string

const (
	FormatFullPPR  ScoringFormat = "full_ppr"
	FormatHalfPPR  ScoringFormat = "half_ppr"
	FormatStandard ScoringFormat = "standard"
)

// Viewport is the rendering width class. It only affects x tick density.
type Viewport string

const (
	ViewportNarrow Viewport = "narrow"
	ViewportMedium Viewport = "medium"
	ViewportWide   Viewport = "wide"
)

// Axis identifies a chart axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ComparisonRow is one line of the scalar table. Values are float64, string,
// bool or nil when the statistic is missing for that player.
type ComparisonRow struct {
	Label  string `json:"label"`
	ValueA any    `json:"valueA"`
	ValueB any    `json:"valueB"`
}

// MergedRow aligns both players' cumulative series at one outcome value.
// A nil side has no sample at or before X.
type MergedRow struct {
	X float64  `json:"x"`
	A *float64 `json:"A"`
	B *float64 `json:"B"`
}

// AxisPlan holds domain bounds and evenly spaced ticks for one axis.
type AxisPlan struct {
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Ticks []float64 `json:"ticks"`
}

// Chart is the merged series with both axis plans.
type Chart struct {
	Rows          []MergedRow   `json:"rows"`
	XAxis         AxisPlan      `json:"xAxis"`
	YAxis         AxisPlan      `json:"yAxis"`
	DistributionA *Distribution `json:"distributionA"`
	DistributionB *Distribution `json:"distributionB"`
}

// Comparison is the full output for one player pair and scoring format.
type Comparison struct {
	Format   ScoringFormat   `json:"format"`
	Viewport Viewport        `json:"viewport"`
	PlayerA  Player          `json:"playerA"`
	PlayerB  Player          `json:"playerB"`
	Rows     []ComparisonRow `json:"rows"`
	Chart    Chart           `json:"chart"`
	Version  string          `json:"version,omitempty"`
}
