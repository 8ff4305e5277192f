package grading

import (
	"context"
	"regexp"
)

// FlowFeedback is reported when the introduction follows the expected order.
const FlowFeedback = "Correct flow: Salutation → Name → Details"

// FlowTokens are the phrase lists that mark each part of an introduction.
type FlowTokens struct {
	Salutations []string
	Names       []string
	Details     []string
}

func DefaultFlowTokens() FlowTokens {
	return FlowTokens{
		Salutations: []string{"hello", "hi", "good morning", "good afternoon", "good evening", "greetings", "hey"},
		Names:       []string{"name", "myself", "i am", "i'm", "called"},
		Details:     []string{"age", "years old", "year old", "class", "grade", "school", "family", "study", "studying"},
	}
}

type flowStrategy struct {
	salutations, names, details []*regexp.Regexp
}

func newFlowStrategy(t FlowTokens) flowStrategy {
	return flowStrategy{
		salutations: compileAll(t.Salutations),
		names:       compileAll(t.Names),
		details:     compileAll(t.Details),
	}
}

func compileAll(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, wordPattern(p))
	}
	return out
}

// InOrder reports whether the first salutation precedes the first name
// indicator, which precedes the first detail when any detail is present.
func (s flowStrategy) InOrder(transcript string) bool {
	sal := firstIndex(transcript, s.salutations)
	name := firstIndex(transcript, s.names)
	if sal < 0 || name < 0 || sal >= name {
		return false
	}
	detail := firstIndex(transcript, s.details)
	return detail < 0 || name < detail
}

// Evaluate awards every rule of the group when the order holds.
func (s flowStrategy) Evaluate(_ context.Context, g Group, in Input) (Outcome, error) {
	if !s.InOrder(in.Transcript) {
		return Outcome{}, nil
	}
	out := Outcome{Feedback: []string{FlowFeedback}}
	for _, r := range g.Rules {
		out.Score += r.Points
	}
	return out, nil
}
