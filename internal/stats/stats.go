// Package stats derives the numeric measurements a transcript is scored on.
package stats

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/chainguard-dev/clog"
)

// TranscriptStats are measurements for one transcript.
type TranscriptStats struct {
	WordCount  int     `json:"word_count"`
	WPM        float64 `json:"wpm"`
	TTR        float64 `json:"ttr"`         // type-token ratio
	Grammar    float64 `json:"grammar"`     // 0..1, 1 is error free
	Sentiment  float64 `json:"sentiment"`   // 0..1, 0.5 is neutral
	FillerRate float64 `json:"filler_rate"` // percent of words
}

// Provider computes stats. It never fails: sub-measurements that cannot be
// computed fall back to neutral values.
type Provider interface {
	Compute(ctx context.Context, transcript string, durationSec float64) TranscriptStats
}

// GrammarChecker counts grammar issues in text.
type GrammarChecker interface {
	Check(ctx context.Context, text string) (int, error)
}

// SentimentAnalyzer returns a compound polarity in [-1, 1].
type SentimentAnalyzer interface {
	Compound(text string) float64
}

// Neutral values used when a measurement is unavailable.
const (
	NeutralGrammar   = 1.0
	NeutralSentiment = 0.5
)

var defaultFillers = []string{
	"um", "uh", "like", "you know", "so", "actually", "basically", "right",
	"i mean", "well", "kinda", "sort of", "okay", "hmm", "ah",
}

type Calculator struct {
	grammar   GrammarChecker
	sentiment SentimentAnalyzer
	fillers   map[string]bool // single words
	phrases   map[string]bool // two-word fillers
}

type Option func(*Calculator)

// WithGrammar enables the grammar measurement. Without it grammar is neutral.
func WithGrammar(g GrammarChecker) Option { return func(c *Calculator) { c.grammar = g } }

func WithSentiment(s SentimentAnalyzer) Option { return func(c *Calculator) { c.sentiment = s } }

func WithFillers(words []string) Option {
	return func(c *Calculator) { c.fillers, c.phrases = splitFillers(words) }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{sentiment: NewVader()}
	c.fillers, c.phrases = splitFillers(defaultFillers)
	for _, o := range opts {
		o(c)
	}
	return c
}

func splitFillers(words []string) (map[string]bool, map[string]bool) {
	single, phrase := map[string]bool{}, map[string]bool{}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		switch len(strings.Fields(w)) {
		case 0:
		case 1:
			single[w] = true
		default:
			phrase[strings.Join(strings.Fields(w), " ")] = true
		}
	}
	return single, phrase
}

func (c *Calculator) Compute(ctx context.Context, transcript string, durationSec float64) TranscriptStats {
	words := strings.Fields(transcript)
	s := TranscriptStats{
		WordCount:  len(words),
		WPM:        wordsPerMinute(len(words), durationSec),
		TTR:        typeTokenRatio(words),
		Grammar:    c.grammarScore(ctx, transcript, len(words)),
		Sentiment:  NeutralSentiment,
		FillerRate: c.fillerRate(words),
	}
	if c.sentiment != nil {
		s.Sentiment = (c.sentiment.Compound(transcript) + 1) / 2
	}
	return s
}

func wordsPerMinute(words int, durationSec float64) float64 {
	if durationSec <= 0 {
		return 0
	}
	return float64(words) / durationSec * 60
}

func typeTokenRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// grammarScore maps an issue count to 0..1: ten issues per hundred words
// or more scores 0.
func (c *Calculator) grammarScore(ctx context.Context, text string, words int) float64 {
	if c.grammar == nil || words == 0 {
		return NeutralGrammar
	}
	n, err := c.grammar.Check(ctx, text)
	if err != nil {
		clog.FromContext(ctx).Warnf("grammar check unavailable, using neutral score: %v", err)
		return NeutralGrammar
	}
	return math.Max(0, 1-(float64(n)/float64(words)*100)/10)
}

func (c *Calculator) fillerRate(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	norm := make([]string, len(words))
	for i, w := range words {
		norm[i] = strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) && r != '\''
		}))
	}
	n := 0
	for i, w := range norm {
		if c.fillers[w] {
			n++
		}
		if i+1 < len(norm) && c.phrases[w+" "+norm[i+1]] {
			n++
		}
	}
	return float64(n) / float64(len(words)) * 100
}
