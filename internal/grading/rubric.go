package grading

import (
	"math"
	"strings"

	"github.com/mind-engage/commscore/internal/stats"
)

// NotMet is the feedback of a metric that earned nothing.
const NotMet = "Criteria not met"

// ScoreBreakdownItem is the result for one metric. Score and Max are
// rounded to two decimals.
type ScoreBreakdownItem struct {
	Metric   string  `json:"metric"`
	Mode     string  `json:"mode"`
	Score    float64 `json:"score"`
	Max      float64 `json:"max"`
	Feedback string  `json:"feedback"`
}

// ScoreResult is the outcome of one scoring call. OverallScore is a
// percentage in [0, 100] with one decimal.
type ScoreResult struct {
	OverallScore float64               `json:"overall_score"`
	Stats        stats.TranscriptStats `json:"stats"`
	Breakdown    []ScoreBreakdownItem  `json:"breakdown"`
}

// TotalPoints sums the awarded breakdown scores.
func (r ScoreResult) TotalPoints() float64 {
	t := 0.0
	for _, it := range r.Breakdown {
		t += it.Score
	}
	return t
}

// MaxPoints sums the breakdown maxima.
func (r ScoreResult) MaxPoints() float64 {
	t := 0.0
	for _, it := range r.Breakdown {
		t += it.Max
	}
	return t
}

func newItem(g Group, mode Mode, out Outcome) ScoreBreakdownItem {
	fb := NotMet
	if len(out.Feedback) > 0 {
		fb = strings.Join(out.Feedback, "; ")
	}
	return ScoreBreakdownItem{
		Metric:   g.Metric,
		Mode:     mode.String(),
		Score:    Round(out.Score, 2),
		Max:      Round(GroupMax(g, mode), 2),
		Feedback: fb,
	}
}

func overall(awarded, possible float64) float64 {
	if possible == 0 {
		return 0
	}
	pct := awarded / possible * 100
	return Round(math.Max(0, math.Min(100, pct)), 1)
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
