package rubric

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	rangeRe = regexp.MustCompile(`([\d.]+)\s*(?:to|–|-)\s*([\d.]+)`)
	gteRe   = regexp.MustCompile(`>=\s*([\d.]+)`)
	gtRe    = regexp.MustCompile(`>\s*([\d.]+)`)
	lteRe   = regexp.MustCompile(`<=\s*([\d.]+)`)
	ltRe    = regexp.MustCompile(`<\s*([\d.]+)`)
)

// placeholders are condition cells that mean "nothing here".
var placeholders = map[string]bool{"": true, "nan": true, "-": true}

// applyCondition fills the range or keyword fields of r from the free-text
// condition cell. The first matching pattern wins; a cell never produces
// both a range and keywords. Strict and inclusive comparisons are treated
// the same: "> 5" yields MinVal 5.
func applyCondition(cell string, r *Rule) error {
	if m := rangeRe.FindStringSubmatch(cell); m != nil {
		lo, err := parseBound(m[1])
		if err != nil {
			return err
		}
		hi, err := parseBound(m[2])
		if err != nil {
			return err
		}
		r.MinVal, r.MaxVal, r.HasRange = lo, hi, true
		return nil
	}

	for _, b := range []struct {
		re    *regexp.Regexp
		lower bool
	}{
		{gteRe, true},
		{gtRe, true},
		{lteRe, false},
		{ltRe, false},
	} {
		m := b.re.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		v, err := parseBound(m[1])
		if err != nil {
			return err
		}
		if b.lower {
			r.MinVal = v
		} else {
			r.MaxVal = v
		}
		r.HasRange = true
		return nil
	}

	if placeholders[strings.ToLower(strings.TrimSpace(cell))] {
		return nil
	}
	r.Keywords = splitKeywords(cell)
	return nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad numeric bound %q", s)
	}
	return v, nil
}

func splitKeywords(cell string) []string {
	parts := strings.Split(strings.ReplaceAll(cell, "\n", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
