package models

// Point is an outcome value paired with a probability. Before normalization Y
// may be mass or cumulative, fraction or percentage.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a normalized cumulative distribution: sorted and deduplicated on
// X, Y non-decreasing within [0, 100].
type Series []Point

// DistributionSource names the payload shape a series was built from.
type DistributionSource string

const (
	SourceSamples    DistributionSource = "samples"
	SourceCumulative DistributionSource = "cumulative"
	SourceMass       DistributionSource = "mass"
)

// Scale is the unit of the incoming probabilities.
type Scale string

const (
	ScaleAuto     Scale = ""
	ScaleFraction Scale = "fraction"
	ScalePercent  Scale = "percent"
)

// Distribution is a built series plus how it was inferred.
type Distribution struct {
	Points Series             `json:"points"`
	Source DistributionSource `json:"source"`
	Scale  Scale              `json:"scale,omitempty"`
	// Ambiguous is set when the scale could not be inferred from the data
	// (single point) and no explicit fallback was supplied.
	Ambiguous bool `json:"ambiguous,omitempty"`
}
