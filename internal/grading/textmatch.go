package grading

import (
	"regexp"
	"strings"
)

// wordPattern matches phrase as whole words, ignoring case. Phrases that
// start or end with a non-word character only get a boundary on the word side.
func wordPattern(phrase string) *regexp.Regexp {
	p := strings.TrimSpace(phrase)
	q := regexp.QuoteMeta(p)
	if p != "" && isWordByte(p[0]) {
		q = `\b` + q
	}
	if p != "" && isWordByte(p[len(p)-1]) {
		q += `\b`
	}
	return regexp.MustCompile(`(?i)` + q)
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// containsWord reports whether phrase occurs in text as whole words.
func containsWord(text, phrase string) bool {
	if strings.TrimSpace(phrase) == "" {
		return false
	}
	return wordPattern(phrase).MatchString(text)
}

// firstIndex is the earliest byte offset of any phrase in text, or -1.
func firstIndex(text string, phrases []*regexp.Regexp) int {
	best := -1
	for _, re := range phrases {
		if loc := re.FindStringIndex(text); loc != nil && (best < 0 || loc[0] < best) {
			best = loc[0]
		}
	}
	return best
}
