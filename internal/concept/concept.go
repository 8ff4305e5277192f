// Package concept detects semantic concepts in self-introduction
// transcripts so that synonymous rubric keywords are credited once.
package concept

import (
	"regexp"
	"strings"
)

// Concept names a group of synonymous rubric keywords.
type Concept string

const (
	Name           Concept = "name"
	Age            Concept = "age"
	SchoolClass    Concept = "school_class"
	Family         Concept = "family"
	HobbyInterest  Concept = "hobbies_interest"
	AboutFamily    Concept = "about_family"
	OriginLocation Concept = "origin_location"
	Ambition       Concept = "ambition"
	FunFact        Concept = "fun_fact"
	Strength       Concept = "strength"
)

// Matcher maps rubric keywords to concepts and detects them in text.
// Alternative strategies (for example embedding similarity) can be
// plugged in behind this interface.
type Matcher interface {
	// Resolve returns the concept a rubric keyword refers to.
	Resolve(keyword string) (Concept, bool)
	// Detect reports whether the transcript exhibits the concept.
	Detect(c Concept, transcript string) bool
}

// resolver is one ordered keyword test; the first hit wins.
type resolver struct {
	concept Concept
	match   func(kw string) bool
}

func has(kw string, subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(kw, s) {
			return false
		}
	}
	return true
}

func hasAny(kw string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(kw, s) {
			return true
		}
	}
	return false
}

// Order matters: "about family" must not resolve to Family, and "name"
// is tested before "age".
var resolvers = []resolver{
	{Name, func(kw string) bool { return has(kw, "name") && !has(kw, "about") }},
	{Age, func(kw string) bool { return has(kw, "age") }},
	{SchoolClass, func(kw string) bool { return has(kw, "school", "class") }},
	{Family, func(kw string) bool { return has(kw, "family") && !has(kw, "about") }},
	{HobbyInterest, func(kw string) bool { return has(kw, "hobi") || has(kw, "interest", "free time") }},
	{AboutFamily, func(kw string) bool { return has(kw, "about family") }},
	{OriginLocation, func(kw string) bool { return has(kw, "origin", "location") }},
	{Ambition, func(kw string) bool { return hasAny(kw, "ambition", "goal", "dream") }},
	{FunFact, func(kw string) bool { return hasAny(kw, "fun fact", "interesting thing", "unique") }},
	{Strength, func(kw string) bool { return hasAny(kw, "strength", "achievement") }},
}

// Detectors are alternatives: any one matching detects the concept.
var detectors = map[Concept][]*regexp.Regexp{
	// The introducing phrase is case-insensitive; the name after it must
	// start with a capital letter.
	Name: {regexp.MustCompile(`\b(?i:myself|my name is|i am|i'm|called)\s+[A-Z]`)},
	Age:  {regexp.MustCompile(`(?i)\b\d+\s*years?\s*old\b`)},
	SchoolClass: {
		regexp.MustCompile(`(?i)\b(school|studying in)\b`),
		regexp.MustCompile(`(?i)\b(class|grade)\s*\d`),
	},
	Family: {regexp.MustCompile(`(?i)\b(family|mother|father|parent|brother|sister|people in my family)\b`)},
	HobbyInterest: {
		regexp.MustCompile(`(?i)\b(enjoy|like|love|play|playing|hobby|hobbies)\b`),
		regexp.MustCompile(`(?i)\b(interest|passionate about)\b`),
	},
	AboutFamily: {regexp.MustCompile(`(?i)\b(special.*family|family.*special|kind.*family|family.*kind)\b`)},
	OriginLocation: {
		regexp.MustCompile(`(?i)\b(i am from|i'm from|born in|native of|parents are from)\b`),
		regexp.MustCompile(`(?i)\b(i live in|from [a-z]+)\b`),
	},
	Ambition: {regexp.MustCompile(`(?i)\b(dream|goal|ambition|aspire|want to become)\b`)},
	FunFact:  {regexp.MustCompile(`(?i)\b(fun fact|interesting thing|unique about|special thing|don't know about me)\b`)},
	Strength: {regexp.MustCompile(`(?i)\b(strength|achievement|accomplish|award|good at)\b`)},
}

// Patterns is the default regex-table Matcher. It is stateless and safe
// for concurrent use.
type Patterns struct{}

func (Patterns) Resolve(keyword string) (Concept, bool) {
	kw := strings.ToLower(keyword)
	for _, r := range resolvers {
		if r.match(kw) {
			return r.concept, true
		}
	}
	return "", false
}

func (Patterns) Detect(c Concept, transcript string) bool {
	for _, re := range detectors[c] {
		if re.MatchString(transcript) {
			return true
		}
	}
	return false
}

// Set records concepts already credited during one scoring call.
type Set map[Concept]struct{}

func (s Set) Has(c Concept) bool { _, ok := s[c]; return ok }
func (s Set) Add(c Concept)      { s[c] = struct{}{} }
