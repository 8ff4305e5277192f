package rubric

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"

	"github.com/chainguard-dev/clog"
	"github.com/pkg/errors"
)

// Opener reads rubric sources by key. Implementations must report a missing
// key with an error matching fs.ErrNotExist.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// SourceNotFoundError is returned when the rubric source does not exist.
type SourceNotFoundError struct {
	Source string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("rubric source not found: %s", e.Source)
}

// Options tune how a rubric table is interpreted.
type Options struct {
	// HeaderRow is the 0-based row holding column names. A negative value
	// means detect it from the header markers.
	HeaderRow int
	// Sheet selects the worksheet of a spreadsheet source.
	Sheet string
}

// DefaultOptions detects the header on the first sheet.
func DefaultOptions() Options { return Options{HeaderRow: -1} }

// Loader turns rubric sources into normalized rules.
type Loader struct {
	src  Opener
	opts Options
}

func NewLoader(src Opener, opts Options) *Loader {
	return &Loader{src: src, opts: opts}
}

// Load reads and normalizes the rubric stored under key.
func (l *Loader) Load(ctx context.Context, key string) ([]Rule, error) {
	rc, err := l.src.Open(ctx, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Source: key}
		}
		return nil, errors.Wrapf(err, "open rubric %s", key)
	}
	defer rc.Close()

	t, err := ReadTable(rc, FormatFor(key), l.opts.Sheet)
	if err != nil {
		if errors.Is(err, ErrSheetNotFound) {
			return nil, &SourceNotFoundError{Source: key + "#" + l.opts.Sheet}
		}
		return nil, err
	}
	rules, err := Parse(ctx, t, l.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parse rubric %s", key)
	}
	clog.FromContext(ctx).Infof("rubric %s loaded: %d rules", key, len(rules))
	return rules, nil
}

// Parse normalizes a raw table. Rows that cannot be read are skipped.
func Parse(ctx context.Context, t Table, opts Options) ([]Rule, error) {
	hdr := opts.HeaderRow
	if hdr < 0 {
		var err error
		if hdr, err = FindHeader(t); err != nil {
			return nil, err
		}
	} else if hdr >= len(t) {
		return nil, errors.Errorf("header row %d beyond table of %d rows", hdr, len(t))
	}

	cm := MapColumns(t[hdr])
	if err := cm.require(RoleMetric, RolePoints); err != nil {
		return nil, err
	}

	log := clog.FromContext(ctx)
	var (
		rules            []Rule
		category, metric string
	)
	for i := hdr + 1; i < len(t); i++ {
		// Category and metric cells are merged in the source sheets, so
		// carry the last seen value down over blanks.
		if v := cellFor(t, i, cm, RoleCategory); v != "" {
			category = v
		}
		if v := cellFor(t, i, cm, RoleMetric); v != "" {
			metric = v
		}

		r, ok, err := parseRow(t, i, cm, category, metric)
		if err != nil {
			log.Warnf("rubric row %d skipped: %v", i, err)
			continue
		}
		if ok {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

func cellFor(t Table, row int, cm ColumnMap, role Role) string {
	col, ok := cm[role]
	if !ok {
		return ""
	}
	return t.Cell(row, col)
}

// parseRow returns ok=false for rows without a numeric points cell.
func parseRow(t Table, i int, cm ColumnMap, category, metric string) (Rule, bool, error) {
	points, ok := parseNumber(cellFor(t, i, cm, RolePoints))
	if !ok {
		return Rule{}, false, nil
	}

	r := newRule()
	r.Category = category
	r.Metric = metric
	r.Description = cellFor(t, i, cm, RoleDescription)
	r.Points = points
	r.MaxScore = points
	if total, ok := parseNumber(cellFor(t, i, cm, RoleTotal)); ok {
		r.MaxScore = total
	}
	if err := applyCondition(cellFor(t, i, cm, RoleKeywords), &r); err != nil {
		return Rule{}, false, err
	}
	return r, true, nil
}

// parseNumber accepts finite decimal cells only; "nan" and "inf" are blanks.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
