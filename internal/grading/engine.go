package grading

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mind-engage/commscore/internal/concept"
	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/stats"
)

// Mode selects how the rules of one metric are evaluated.
type Mode int

const (
	// ModeExclusive awards the single highest-point matching rule.
	ModeExclusive Mode = iota
	// ModeFlow awards every rule when the intro follows salutation, name, details.
	ModeFlow
	// ModePresence credits keyword concepts, each at most once.
	ModePresence
	// ModeKeywordShare credits the matched fraction of each rule's keywords.
	ModeKeywordShare
)

func (m Mode) String() string {
	switch m {
	case ModeFlow:
		return "flow"
	case ModePresence:
		return "presence"
	case ModeKeywordShare:
		return "keyword_share"
	default:
		return "exclusive"
	}
}

// Additive reports whether all satisfied rules contribute.
func (m Mode) Additive() bool { return m != ModeExclusive }

// ClassifyMetric picks the evaluation mode from a metric name.
func ClassifyMetric(metric string) Mode {
	m := strings.ToLower(metric)
	switch {
	case strings.Contains(m, "flow"):
		return ModeFlow
	case strings.Contains(m, "presence"):
		return ModePresence
	default:
		return ModeExclusive
	}
}

// Group is the rules sharing one metric name, in rubric order.
type Group struct {
	Metric string
	Rules  []rubric.Rule
}

// Input is what a strategy evaluates a group against. Found is shared by all
// groups of one scoring call.
type Input struct {
	Transcript string
	Stats      stats.TranscriptStats
	Found      concept.Set
}

// Outcome is the unrounded result of evaluating one group.
type Outcome struct {
	Score    float64
	Feedback []string
}

// Strategy evaluates one metric group.
type Strategy interface {
	Evaluate(ctx context.Context, g Group, in Input) (Outcome, error)
}

// Engine options

type Option func(*config)

type config struct {
	Matcher         concept.Matcher
	Modes           map[string]Mode // per-metric overrides
	DefaultDuration float64
	Flow            FlowTokens
}

// WithMatcher replaces the regex concept table used by presence scoring.
func WithMatcher(m concept.Matcher) Option { return func(c *config) { c.Matcher = m } }

// WithMode forces the mode of the metric with this exact name.
func WithMode(metric string, m Mode) Option {
	return func(c *config) { c.Modes[metric] = m }
}

func WithDefaultDuration(sec float64) Option { return func(c *config) { c.DefaultDuration = sec } }
func WithFlowTokens(t FlowTokens) Option     { return func(c *config) { c.Flow = t } }

// Engine scores transcripts against a rule set. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	provider   stats.Provider
	cfg        *config
	strategies map[Mode]Strategy
}

// NewEngine installs the built-in strategies.
func NewEngine(provider stats.Provider, opts ...Option) *Engine {
	cfg := &config{
		Matcher:         concept.Patterns{},
		Modes:           map[string]Mode{},
		DefaultDuration: 60,
		Flow:            DefaultFlowTokens(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Engine{
		provider: provider,
		cfg:      cfg,
		strategies: map[Mode]Strategy{
			ModeExclusive:    exclusiveStrategy{},
			ModeFlow:         newFlowStrategy(cfg.Flow),
			ModePresence:     presenceStrategy{matcher: cfg.Matcher},
			ModeKeywordShare: keywordShareStrategy{},
		},
	}
}

func (e *Engine) modeFor(metric string) Mode {
	if m, ok := e.cfg.Modes[metric]; ok {
		return m
	}
	return ClassifyMetric(metric)
}

// Score evaluates transcript against rules. A blank transcript or negative
// duration fails with *InputError before any stats are computed; a zero
// duration uses the configured default.
func (e *Engine) Score(ctx context.Context, rules []rubric.Rule, transcript string, durationSec float64) (res ScoreResult, err error) {
	if strings.TrimSpace(transcript) == "" {
		return ScoreResult{}, &InputError{Err: ErrEmptyTranscript}
	}
	if durationSec < 0 || math.IsNaN(durationSec) || math.IsInf(durationSec, 0) {
		return ScoreResult{}, &InputError{Err: errors.Errorf("invalid duration %v", durationSec)}
	}
	if durationSec == 0 {
		durationSec = e.cfg.DefaultDuration
	}

	defer func() {
		if r := recover(); r != nil {
			err = &InternalError{Cause: errors.Errorf("panic: %v", r)}
		}
	}()

	in := Input{
		Transcript: transcript,
		Stats:      e.provider.Compute(ctx, transcript, durationSec),
		Found:      concept.Set{},
	}
	res.Stats = in.Stats

	var awarded, possible float64
	for _, g := range GroupRules(rules) {
		item, err := e.scoreGroup(ctx, g, in)
		if err != nil {
			return ScoreResult{}, err
		}
		res.Breakdown = append(res.Breakdown, item)
		awarded += item.Score
		possible += item.Max
	}
	res.OverallScore = overall(awarded, possible)
	if !isFinite(res.OverallScore) {
		return ScoreResult{}, &InternalError{Cause: errors.Errorf("non-finite overall score from %v/%v", awarded, possible)}
	}
	return res, nil
}

func (e *Engine) scoreGroup(ctx context.Context, g Group, in Input) (ScoreBreakdownItem, error) {
	mode := e.modeFor(g.Metric)
	s, ok := e.strategies[mode]
	if !ok {
		return ScoreBreakdownItem{}, &InternalError{Metric: g.Metric, Cause: errors.Errorf("no strategy for mode %s", mode)}
	}
	out, err := s.Evaluate(ctx, g, in)
	if err != nil {
		return ScoreBreakdownItem{}, &InternalError{Metric: g.Metric, Cause: err}
	}
	item := newItem(g, mode, out)
	if !isFinite(item.Score) || !isFinite(item.Max) {
		return ScoreBreakdownItem{}, &InternalError{Metric: g.Metric, Cause: errors.Errorf("non-finite score %v/%v", item.Score, item.Max)}
	}
	return item, nil
}

// GroupRules groups rules by exact metric name, ordered by name. Rules keep
// their rubric order inside a group.
func GroupRules(rules []rubric.Rule) []Group {
	idx := map[string]int{}
	var groups []Group
	for _, r := range rules {
		i, ok := idx[r.Metric]
		if !ok {
			i = len(groups)
			idx[r.Metric] = i
			groups = append(groups, Group{Metric: r.Metric})
		}
		groups[i].Rules = append(groups[i].Rules, r)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Metric < groups[b].Metric })
	return groups
}

// GroupMax is the sum of rule points for additive modes and the largest
// rule max_score for exclusive ones.
func GroupMax(g Group, mode Mode) float64 {
	total := 0.0
	for i, r := range g.Rules {
		switch {
		case mode.Additive():
			total += r.Points
		case i == 0 || r.MaxScore > total:
			total = r.MaxScore
		}
	}
	return total
}
