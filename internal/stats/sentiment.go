package stats

import (
	"github.com/jonreiter/govader"
)

// govaderAnalyzer scores text with the VADER lexicon and rules.
type govaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVader returns the default sentiment analyzer.
func NewVader() SentimentAnalyzer {
	return govaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (g govaderAnalyzer) Compound(text string) float64 {
	return g.sia.PolarityScores(text).Compound
}
