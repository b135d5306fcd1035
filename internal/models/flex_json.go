package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate aliases accepted for a distribution point, in priority order.
var (
	pointXKeys = []string{"x", "pts"}
	pointYKeys = []string{"y", "cdf", "pct"}
)

// UnmarshalJSON implements flexible JSON unmarshaling for distribution
// points. Exports disagree on field names ({pts, pct}, {x, cdf}, {x, y}) and
// spreadsheet round-trips serialize numbers as quoted strings; both are
// accepted. A missing or unparseable coordinate decodes as NaN so callers can
// drop the point instead of failing the whole payload.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal point: %w", err)
	}

	p.X = firstFlexFloat(raw, pointXKeys)
	p.Y = firstFlexFloat(raw, pointYKeys)
	return nil
}

func firstFlexFloat(raw map[string]json.RawMessage, keys []string) float64 {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return flexFloat(v)
		}
	}
	return math.NaN()
}

// flexFloat decodes a native number or a numeric string.
func flexFloat(rawVal json.RawMessage) float64 {
	if string(rawVal) == "null" {
		return math.NaN()
	}
	var n float64
	if err := json.Unmarshal(rawVal, &n); err == nil {
		return n
	}

	// Quoted number
	if len(rawVal) > 1 && rawVal[0] == '"' {
		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil {
			return math.NaN()
		}
		if f, ok := ParseFloat(s); ok {
			return f
		}
	}
	return math.NaN()
}

// ParseFloat parses a trimmed string as a finite float64.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
