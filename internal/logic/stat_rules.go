package logic

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// scalarWeight dominates the specificity score so a scalar leaf always beats
// an array or object leaf.
const scalarWeight = 1 << 16

// StatRule declares one logical statistic. Include and Exclude are regular
// expressions searched (not fully matched) in the lower-cased flat key, so a
// plain word acts as a substring test.
type StatRule struct {
	Label   string   `json:"label"`
	Include []string `json:"include"`
	Exclude []string `json:"exclude,omitempty"`
}

// CompiledRule is a StatRule with its patterns compiled.
type CompiledRule struct {
	StatRule
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// CompileRule validates and compiles a rule's patterns.
func CompileRule(r StatRule) (CompiledRule, error) {
	cr := CompiledRule{StatRule: r}
	for _, p := range r.Include {
		re, err := compilePattern(p)
		if err != nil {
			return CompiledRule{}, fmt.Errorf("rule %q include %q: %w", r.Label, p, err)
		}
		cr.include = append(cr.include, re)
	}
	for _, p := range r.Exclude {
		re, err := compilePattern(p)
		if err != nil {
			return CompiledRule{}, fmt.Errorf("rule %q exclude %q: %w", r.Label, p, err)
		}
		cr.exclude = append(cr.exclude, re)
	}
	return cr, nil
}

// CompileRules compiles an ordered rule list, keeping its order.
func CompileRules(rules []StatRule) ([]CompiledRule, error) {
	out := make([]CompiledRule, 0, len(rules))
	for _, r := range rules {
		cr, err := CompileRule(r)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + p)
}

// Matches reports whether a lower-cased key satisfies the rule.
func (r CompiledRule) Matches(key string) bool {
	for _, re := range r.include {
		if !re.MatchString(key) {
			return false
		}
	}
	for _, re := range r.exclude {
		if re.MatchString(key) {
			return false
		}
	}
	return true
}

// ResolveRaw returns the best matching leaf and its key. Scalar leaves outrank
// arrays and objects, then the rule's include count breaks ties; equal scores
// keep the first key in traversal order.
func ResolveRaw(flat FlatMap, rule CompiledRule) (gjson.Result, string, bool) {
	var (
		best     gjson.Result
		bestKey  string
		bestRank = -1
	)
	for _, f := range flat.Fields() {
		if !rule.Matches(strings.ToLower(f.Key)) {
			continue
		}
		rank := len(rule.include)
		if isScalar(f.Value) {
			rank += scalarWeight
		}
		if rank > bestRank {
			best, bestKey, bestRank = f.Value, f.Key, rank
		}
	}
	return best, bestKey, bestRank >= 0
}

// ResolveAll returns every leaf matching the rule in traversal order.
func ResolveAll(flat FlatMap, rule CompiledRule) []FlatField {
	var out []FlatField
	for _, f := range flat.Fields() {
		if rule.Matches(strings.ToLower(f.Key)) {
			out = append(out, f)
		}
	}
	return out
}

// Resolve returns the coerced value of the best matching leaf.
func Resolve(flat FlatMap, rule CompiledRule) (any, bool) {
	v, _, ok := ResolveRaw(flat, rule)
	if !ok {
		return nil, false
	}
	return Coerce(v), true
}

// ResolveRecord flattens record and resolves one rule against it.
func ResolveRecord(record models.Record, rule CompiledRule) (any, bool) {
	return Resolve(Flatten(record), rule)
}

// Coerce converts a leaf for table display. Numbers and strings that parse as
// finite numbers become float64; other strings pass through unchanged.
func Coerce(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.Number:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v.Raw
		}
		return f
	case gjson.String:
		if f, ok := models.ParseFloat(v.Str); ok {
			return f
		}
		return v.Str
	default:
		return v.Value()
	}
}

// BuildTable resolves every rule against both records, flattening each record
// once. Rows follow rule order; a missing statistic is nil.
func BuildTable(recordA, recordB models.Record, rules []CompiledRule) []models.ComparisonRow {
	flatA, flatB := Flatten(recordA), Flatten(recordB)
	rows := make([]models.ComparisonRow, 0, len(rules))
	for _, r := range rules {
		a, _ := Resolve(flatA, r)
		b, _ := Resolve(flatB, r)
		rows = append(rows, models.ComparisonRow{Label: r.Label, ValueA: a, ValueB: b})
	}
	return rows
}
