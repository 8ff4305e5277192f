package grading

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/mind-engage/commscore/internal/concept"
)

// presenceStrategy splits each rule's points evenly over its keywords.
// Keywords that resolve to a concept earn their share when the concept is
// detected and not yet credited in this call. Other keywords fall back to a
// whole-word search counted per rule.
type presenceStrategy struct {
	matcher concept.Matcher
}

func (s presenceStrategy) Evaluate(_ context.Context, g Group, in Input) (Outcome, error) {
	if s.matcher == nil {
		return Outcome{}, errors.New("presence scoring without a concept matcher")
	}
	if in.Found == nil {
		return Outcome{}, errors.New("presence scoring without a concept set")
	}
	var out Outcome
	for _, r := range g.Rules {
		if len(r.Keywords) == 0 {
			continue
		}
		share := r.Points / float64(len(r.Keywords))
		earned := 0.0
		for _, kw := range r.Keywords {
			c, known := s.matcher.Resolve(kw)
			if !known {
				if containsWord(in.Transcript, kw) {
					earned += share
					out.Feedback = append(out.Feedback, kw)
				}
				continue
			}
			if in.Found.Has(c) || !s.matcher.Detect(c, in.Transcript) {
				continue
			}
			in.Found.Add(c)
			earned += share
			out.Feedback = append(out.Feedback, kw)
		}
		out.Score += math.Min(earned, r.Points)
	}
	return out, nil
}

// keywordShareStrategy credits the fraction of each rule's keywords found
// in the transcript.
type keywordShareStrategy struct{}

func (keywordShareStrategy) Evaluate(_ context.Context, g Group, in Input) (Outcome, error) {
	var out Outcome
	for _, r := range g.Rules {
		if len(r.Keywords) == 0 {
			continue
		}
		found := 0
		for _, kw := range r.Keywords {
			if containsWord(in.Transcript, kw) {
				found++
			}
		}
		earned := math.Min(float64(found)*r.Points/float64(len(r.Keywords)), r.Points)
		if earned > 0 {
			out.Score += earned
			out.Feedback = append(out.Feedback, fmt.Sprintf("Found %d/%d keywords", found, len(r.Keywords)))
		}
	}
	return out, nil
}
