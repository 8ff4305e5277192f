package http

import (
	"strings"

	"github.com/mind-engage/commscore/internal/grading"
)

// Category labels of the score report.
const (
	CategoryContent  = "Content & Structure"
	CategorySpeech   = "Speech Rate"
	CategoryLanguage = "Language & Grammar"
	CategoryClarity  = "Clarity"
	CategoryEngage   = "Engagement"
	CategoryGeneral  = "General"
)

type Detail struct {
	Criteria string  `json:"criteria"`
	Metric   string  `json:"metric"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Feedback string  `json:"feedback"`
	Approach string  `json:"approach"`
}

type Summary struct {
	ContentStructure float64 `json:"content_structure"`
	SpeechRate       float64 `json:"speech_rate"`
	LanguageGrammar  float64 `json:"language_grammar"`
	Clarity          float64 `json:"clarity"`
	Engagement       float64 `json:"engagement"`
}

// ScoreResponse is the report returned by POST /score.
type ScoreResponse struct {
	OverallScore float64  `json:"overall_score"`
	TotalPoints  float64  `json:"total_points"`
	MaxPoints    int      `json:"max_points"`
	WordCount    int      `json:"word_count"`
	WPM          float64  `json:"wpm"`
	TTR          float64  `json:"ttr"`
	Details      []Detail `json:"details"`
	Summary      Summary  `json:"summary"`
}

func categoryFor(metric string) string {
	m := strings.ToLower(metric)
	switch {
	case containsAny(m, "salutation", "presence", "flow"):
		return CategoryContent
	case containsAny(m, "speech rate", "wpm"):
		return CategorySpeech
	case containsAny(m, "grammar", "vocabulary"):
		return CategoryLanguage
	case strings.Contains(m, "filler"):
		return CategoryClarity
	case containsAny(m, "sentiment", "engagement"):
		return CategoryEngage
	default:
		return CategoryGeneral
	}
}

func approachFor(metric string) string {
	m := strings.ToLower(metric)
	switch {
	case containsAny(m, "grammar", "sentiment"):
		return "NLP"
	case containsAny(m, "presence", "salutation"):
		return "Rule-based + NLP"
	default:
		return "Rule-based"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Present reshapes a score result into the report.
func Present(res grading.ScoreResult) ScoreResponse {
	out := ScoreResponse{
		OverallScore: res.OverallScore,
		TotalPoints:  grading.Round(res.TotalPoints(), 2),
		MaxPoints:    int(res.MaxPoints()),
		WordCount:    res.Stats.WordCount,
		WPM:          grading.Round(res.Stats.WPM, 1),
		TTR:          grading.Round(res.Stats.TTR, 3),
		Details:      make([]Detail, 0, len(res.Breakdown)),
	}
	for _, it := range res.Breakdown {
		cat := categoryFor(it.Metric)
		switch cat {
		case CategoryContent:
			out.Summary.ContentStructure += it.Score
		case CategorySpeech:
			out.Summary.SpeechRate += it.Score
		case CategoryLanguage:
			out.Summary.LanguageGrammar += it.Score
		case CategoryClarity:
			out.Summary.Clarity += it.Score
		case CategoryEngage:
			out.Summary.Engagement += it.Score
		}
		out.Details = append(out.Details, Detail{
			Criteria: cat,
			Metric:   it.Metric,
			Score:    it.Score,
			MaxScore: it.Max,
			Feedback: it.Feedback,
			Approach: approachFor(it.Metric),
		})
	}
	s := &out.Summary
	s.ContentStructure = grading.Round(s.ContentStructure, 2)
	s.SpeechRate = grading.Round(s.SpeechRate, 2)
	s.LanguageGrammar = grading.Round(s.LanguageGrammar, 2)
	s.Clarity = grading.Round(s.Clarity, 2)
	s.Engagement = grading.Round(s.Engagement, 2)
	return out
}
