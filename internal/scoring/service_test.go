package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/stats"
	"github.com/mind-engage/commscore/internal/storage"
)

type fakeSource struct {
	rules []rubric.Rule
	err   error
}

func (f *fakeSource) Load(context.Context, string) ([]rubric.Rule, error) { return f.rules, f.err }

type countingScorer struct {
	mu    sync.Mutex
	calls int
}

func (c *countingScorer) Score(_ context.Context, rules []rubric.Rule, _ string, _ float64) (grading.ScoreResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return grading.ScoreResult{OverallScore: float64(len(rules))}, nil
}

func TestNotReadyUntilLoaded(t *testing.T) {
	src := &fakeSource{err: &rubric.SourceNotFoundError{Source: "rubric.xlsx"}}
	sc := &countingScorer{}
	s := New(src, "rubric.xlsx", sc)

	require.Error(t, s.Load(context.Background()))
	h := s.Health()
	assert.False(t, h.Ready)
	assert.Contains(t, h.Error, "rubric.xlsx")

	_, err := s.Score(context.Background(), "hello", 60)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Rules()
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, sc.calls)
}

func TestEmptyTranscriptRejectedFirst(t *testing.T) {
	sc := &countingScorer{}
	s := New(&fakeSource{}, "k", sc)
	_, err := s.Score(context.Background(), "   ", 60)
	var ie *grading.InputError
	require.True(t, errors.As(err, &ie))
	assert.Zero(t, sc.calls)
}

func TestReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	src := &fakeSource{rules: []rubric.Rule{{Metric: "a"}, {Metric: "b"}}}
	s := New(src, "k", &countingScorer{})
	require.NoError(t, s.Load(context.Background()))

	src.err = errors.New("bucket unavailable")
	src.rules = nil
	require.Error(t, s.Load(context.Background()))

	rules, err := s.Rules()
	require.NoError(t, err)
	assert.Len(t, rules, 2)
	h := s.Health()
	assert.True(t, h.Ready)
	assert.Equal(t, "bucket unavailable", h.Error)

	src.err = nil
	src.rules = []rubric.Rule{{Metric: "c"}}
	require.NoError(t, s.Load(context.Background()))
	h = s.Health()
	assert.Equal(t, 1, h.Rules)
	assert.Empty(t, h.Error)
}

func TestConcurrentScoring(t *testing.T) {
	fs, err := storage.NewFSStore("../rubric/testdata")
	require.NoError(t, err)
	engine := grading.NewEngine(stats.NewCalculator())
	s := New(rubric.NewLoader(fs, rubric.DefaultOptions()), "rubric.csv", engine)
	require.NoError(t, s.Load(context.Background()))

	const transcript = "Hello everyone, myself Muskan. I am 13 years old and I study in class 8. I love painting."
	want, err := s.Score(context.Background(), transcript, 30)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Score(context.Background(), transcript, 30)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
		if i == 4 {
			require.NoError(t, s.Load(context.Background()))
		}
	}
	wg.Wait()
}
