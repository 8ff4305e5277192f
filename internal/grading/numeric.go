package grading

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/stats"
)

// Stat names the transcript measurement a range rule is compared to.
type Stat int

const (
	StatNone Stat = iota
	StatWPM
	StatGrammar
	StatTTR
	StatFillerRate
	StatSentiment
)

// ResolveStat maps a metric name to its statistic. The first matching
// family wins.
func ResolveStat(metric string) Stat {
	m := strings.ToLower(metric)
	switch {
	case strings.Contains(m, "speech rate") || strings.Contains(m, "wpm"):
		return StatWPM
	case strings.Contains(m, "grammar"):
		return StatGrammar
	case strings.Contains(m, "vocabulary"):
		return StatTTR
	case strings.Contains(m, "filler"):
		return StatFillerRate
	case strings.Contains(m, "sentiment") || strings.Contains(m, "engagement") || strings.Contains(m, "positivity"):
		return StatSentiment
	default:
		return StatNone
	}
}

// Value returns the statistic on the scale rubric brackets use. Grammar is
// reported as a percentage.
func (s Stat) Value(ts stats.TranscriptStats) (float64, bool) {
	switch s {
	case StatWPM:
		return ts.WPM, true
	case StatGrammar:
		return ts.Grammar * 100, true
	case StatTTR:
		return ts.TTR, true
	case StatFillerRate:
		return ts.FillerRate, true
	case StatSentiment:
		return ts.Sentiment, true
	default:
		return 0, false
	}
}

// exclusiveStrategy awards the first matching rule in descending points
// order. Range rules need a resolvable statistic.
type exclusiveStrategy struct{}

func (exclusiveStrategy) Evaluate(_ context.Context, g Group, in Input) (Outcome, error) {
	rules := make([]rubric.Rule, len(g.Rules))
	copy(rules, g.Rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Points > rules[j].Points })

	val, hasStat := ResolveStat(g.Metric).Value(in.Stats)
	for _, r := range rules {
		switch r.Kind() {
		case rubric.KindRange:
			if hasStat && r.InRange(val) {
				return Outcome{Score: r.Points, Feedback: []string{fmt.Sprintf("%s (%.2f)", r.Description, val)}}, nil
			}
		case rubric.KindKeyword:
			for _, kw := range r.Keywords {
				if containsWord(in.Transcript, kw) {
					return Outcome{Score: r.Points, Feedback: []string{"Matched: " + kw}}, nil
				}
			}
		}
	}
	return Outcome{}, nil
}
