package rubric

import (
	"encoding/json"
	"math"
)

// Rule is one normalized scoring condition read from a rubric row.
// Rules are built once per load and never mutated afterwards.
type Rule struct {
	Category    string
	Metric      string // grouping key
	Description string
	Points      float64 // credit if the rule is satisfied
	MaxScore    float64 // ceiling for the metric group this rule belongs to
	Keywords    []string
	MinVal      float64 // inclusive, -Inf when unbounded
	MaxVal      float64 // inclusive, +Inf when unbounded
	HasRange    bool
}

// Kind says how a rule is evaluated.
type Kind int

const (
	KindDead Kind = iota // neither range nor keywords; contributes 0
	KindRange
	KindKeyword
)

func (r Rule) Kind() Kind {
	switch {
	case r.HasRange:
		return KindRange
	case len(r.Keywords) > 0:
		return KindKeyword
	default:
		return KindDead
	}
}

// InRange reports whether v falls inside [MinVal, MaxVal].
func (r Rule) InRange(v float64) bool {
	return r.HasRange && r.MinVal <= v && v <= r.MaxVal
}

func newRule() Rule {
	return Rule{MinVal: math.Inf(-1), MaxVal: math.Inf(1)}
}

type ruleJSON struct {
	Category    string   `json:"category"`
	Metric      string   `json:"metric"`
	Description string   `json:"description"`
	Points      float64  `json:"points"`
	MaxScore    float64  `json:"max_score"`
	Keywords    []string `json:"keywords"`
	MinVal      *float64 `json:"min_val"` // null when unbounded
	MaxVal      *float64 `json:"max_val"`
	HasRange    bool     `json:"has_range"`
}

// MarshalJSON encodes infinite bounds as null since JSON has no infinity.
func (r Rule) MarshalJSON() ([]byte, error) {
	kw := r.Keywords
	if kw == nil {
		kw = []string{}
	}
	return json.Marshal(ruleJSON{
		Category:    r.Category,
		Metric:      r.Metric,
		Description: r.Description,
		Points:      r.Points,
		MaxScore:    r.MaxScore,
		Keywords:    kw,
		MinVal:      finiteOrNil(r.MinVal),
		MaxVal:      finiteOrNil(r.MaxVal),
		HasRange:    r.HasRange,
	})
}

func (r *Rule) UnmarshalJSON(b []byte) error {
	var w ruleJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = newRule()
	r.Category, r.Metric, r.Description = w.Category, w.Metric, w.Description
	r.Points, r.MaxScore = w.Points, w.MaxScore
	r.HasRange = w.HasRange
	if len(w.Keywords) > 0 {
		r.Keywords = w.Keywords
	}
	if w.MinVal != nil {
		r.MinVal = *w.MinVal
	}
	if w.MaxVal != nil {
		r.MaxVal = *w.MaxVal
	}
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
