package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// ErrUnknownFormat is returned for a scoring format with no profile.
var ErrUnknownFormat = errors.New("unknown scoring format")

// Shared exclusion patterns.
const (
	patMedian       = `median|p50`
	patCeiling      = `ceiling|p9[05]|max`
	patFloor        = `floor|p10|min`
	patDistribution = `chart|sample|sims|simulation|dist|cdf|hist|curve`
)

// FormatProfile describes how one scoring format is spelled in records.
// The default format is unqualified: plain "median" or "ceiling" keys belong
// to it. Other formats require their qualifier in the key.
type FormatProfile struct {
	Format  models.ScoringFormat
	Label   string
	Points  string   // pattern identifying this format's points fields
	Qualify []string // extra includes for median, ceiling and distributions
	Foreign []string // patterns naming the other formats
}

var formatProfiles = map[models.ScoringFormat]FormatProfile{
	models.FormatFullPPR: {
		Format:  models.FormatFullPPR,
		Label:   "Full PPR",
		Points:  `ppr|fpts|fantasy_points|total_score`,
		Foreign: []string{`half`, `standard|non_?ppr`},
	},
	models.FormatHalfPPR: {
		Format:  models.FormatHalfPPR,
		Label:   "Half PPR",
		Points:  `half`,
		Qualify: []string{`half`},
		Foreign: []string{`full`, `standard|non_?ppr`},
	},
	models.FormatStandard: {
		Format:  models.FormatStandard,
		Label:   "Standard",
		Points:  `standard|non_?ppr`,
		Qualify: []string{`standard|non_?ppr`},
		Foreign: []string{`full`, `half`},
	},
}

// Formats lists the supported scoring formats in display order.
func Formats() []models.ScoringFormat {
	return []models.ScoringFormat{models.FormatFullPPR, models.FormatHalfPPR, models.FormatStandard}
}

// ParseFormat maps user input to a scoring format; empty selects full PPR.
func ParseFormat(s string) (models.ScoringFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return models.FormatFullPPR, nil
	case "ppr", "full":
		return models.FormatFullPPR, nil
	case "half":
		return models.FormatHalfPPR, nil
	case "std", "non_ppr":
		return models.FormatStandard, nil
	}
	f := models.ScoringFormat(s)
	if _, ok := formatProfiles[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Profile returns the profile for a format.
func Profile(f models.ScoringFormat) (FormatProfile, error) {
	p, ok := formatProfiles[f]
	if !ok {
		return FormatProfile{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return p, nil
}

// SampleRule locates the raw simulation sample list for this format.
func (p FormatProfile) SampleRule() StatRule {
	return StatRule{
		Label:   "samples",
		Include: append([]string{`sample|sims|simulation`}, p.Qualify...),
		Exclude: p.Foreign,
	}
}

// ChartRule locates the binned or cumulative distribution for this format.
func (p FormatProfile) ChartRule() StatRule {
	return StatRule{
		Label:   "distribution",
		Include: append([]string{`chart|dist|cdf|hist|curve`}, p.Qualify...),
		Exclude: append([]string{`sample|sims|simulation`}, p.Foreign...),
	}
}

// DefaultRules returns the comparison table rows for a format, in display order.
func DefaultRules(f models.ScoringFormat) ([]StatRule, error) {
	p, err := Profile(f)
	if err != nil {
		return nil, err
	}

	excl := func(extra ...string) []string {
		out := append([]string{patDistribution}, p.Foreign...)
		return append(out, extra...)
	}
	qual := func(stat string) []string {
		return append([]string{stat}, p.Qualify...)
	}

	return []StatRule{
		{Label: "Projected Points", Include: []string{p.Points}, Exclude: excl(patMedian, patCeiling, patFloor)},
		{Label: "Median", Include: qual(patMedian), Exclude: excl()},
		{Label: "Ceiling", Include: qual(patCeiling), Exclude: excl(patMedian)},
		{Label: "Pass Yds", Include: []string{`pass`, `yd|yards`}, Exclude: excl(`td`, `int`, `att`, `comp`)},
		{Label: "Pass TDs", Include: []string{`pass`, `td`}, Exclude: excl(`yd|yards`, `int`)},
		{Label: "Interceptions", Include: []string{`interception|(^|[._])ints?($|[._])`}, Exclude: excl()},
		{Label: "Rush Yds", Include: []string{`rush`, `yd|yards`}, Exclude: excl(`rec`, `td`)},
		{Label: "Receptions", Include: []string{`reception|(^|[._])rec($|[._])`}, Exclude: excl(`yd|yards`, `td`)},
		{Label: "Rec Yds", Include: []string{`rec`, `yd|yards`}, Exclude: excl(`rush`, `pass`)},
		{Label: "Rush/Rec TDs", Include: []string{`rush`, `rec`, `td`}, Exclude: excl()},
	}, nil
}
