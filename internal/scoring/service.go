// Package scoring serves scoring calls over the active rubric snapshot.
package scoring

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/pkg/errors"

	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/metrics"
	"github.com/mind-engage/commscore/internal/rubric"
)

// ErrNotReady is returned while no rubric snapshot is loaded.
var ErrNotReady = errors.New("scorer not initialized")

// RuleSource loads a rubric by key. *rubric.Loader implements it.
type RuleSource interface {
	Load(ctx context.Context, key string) ([]rubric.Rule, error)
}

// Scorer evaluates a transcript against rules. *grading.Engine implements it.
type Scorer interface {
	Score(ctx context.Context, rules []rubric.Rule, transcript string, durationSec float64) (grading.ScoreResult, error)
}

type snapshot struct {
	rules    []rubric.Rule
	loadedAt time.Time
}

// Health describes the service state.
type Health struct {
	Ready    bool      `json:"scorer_initialized"`
	Source   string    `json:"source"`
	Rules    int       `json:"rules"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Service owns an immutable rule snapshot that is swapped whole on reload.
// Scoring calls read the snapshot without locks.
type Service struct {
	source RuleSource
	key    string
	engine Scorer

	snap    atomic.Pointer[snapshot]
	lastErr atomic.Pointer[string]
	reload  sync.Mutex
}

func New(source RuleSource, key string, engine Scorer) *Service {
	return &Service{source: source, key: key, engine: engine}
}

// Load reads the rubric and installs it. On failure the previous snapshot,
// if any, stays active and the error is kept for Health.
func (s *Service) Load(ctx context.Context) error {
	s.reload.Lock()
	defer s.reload.Unlock()

	rules, err := s.source.Load(ctx, s.key)
	metrics.RubricLoaded(len(rules), err)
	if err != nil {
		msg := err.Error()
		s.lastErr.Store(&msg)
		clog.FromContext(ctx).Errorf("rubric %s not loaded: %v", s.key, err)
		return err
	}
	s.snap.Store(&snapshot{rules: rules, loadedAt: time.Now().UTC()})
	s.lastErr.Store(nil)
	return nil
}

// Source is the configured rubric key.
func (s *Service) Source() string { return s.key }

// Rules returns the active rules. Callers must not modify them.
func (s *Service) Rules() ([]rubric.Rule, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, s.notReady()
	}
	return snap.rules, nil
}

func (s *Service) Health() Health {
	h := Health{Source: s.key}
	if snap := s.snap.Load(); snap != nil {
		h.Ready = true
		h.Rules = len(snap.rules)
		h.LoadedAt = snap.loadedAt
	}
	if msg := s.lastErr.Load(); msg != nil {
		h.Error = *msg
	}
	return h
}

// Score validates input, then scores it against the active snapshot.
func (s *Service) Score(ctx context.Context, transcript string, durationSec float64) (grading.ScoreResult, error) {
	if strings.TrimSpace(transcript) == "" {
		metrics.ScoreOutcome(metrics.OutcomeInvalid)
		return grading.ScoreResult{}, &grading.InputError{Err: grading.ErrEmptyTranscript}
	}
	rules, err := s.Rules()
	if err != nil {
		metrics.ScoreOutcome(metrics.OutcomeNotReady)
		return grading.ScoreResult{}, err
	}

	log := clog.FromContext(ctx)
	log.Infof("scoring transcript (%d words)", len(strings.Fields(transcript)))
	res, err := s.engine.Score(ctx, rules, transcript, durationSec)
	if err != nil {
		var ie *grading.InputError
		if errors.As(err, &ie) {
			metrics.ScoreOutcome(metrics.OutcomeInvalid)
		} else {
			metrics.ScoreOutcome(metrics.OutcomeError)
			log.Errorf("scoring failed: %v", err)
		}
		return grading.ScoreResult{}, err
	}
	metrics.ObserveScore(res.OverallScore)
	for _, it := range res.Breakdown {
		metrics.ObserveMetric(it.Metric, it.Score, it.Max)
	}
	log.Infof("scoring complete: %.1f/100", res.OverallScore)
	return res, nil
}

func (s *Service) notReady() error {
	if msg := s.lastErr.Load(); msg != nil {
		return errors.Wrap(ErrNotReady, *msg)
	}
	return ErrNotReady
}
