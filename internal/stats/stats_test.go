package stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrammar struct {
	n   int
	err error
}

func (f fakeGrammar) Check(context.Context, string) (int, error) { return f.n, f.err }

type fixedSentiment float64

func (f fixedSentiment) Compound(string) float64 { return float64(f) }

func TestComputeBasics(t *testing.T) {
	c := NewCalculator(WithSentiment(fixedSentiment(0)))
	s := c.Compute(context.Background(), "Hello hello world and more words", 30)
	assert.Equal(t, 6, s.WordCount)
	assert.InDelta(t, 12.0, s.WPM, 1e-9)
	assert.InDelta(t, 5.0/6.0, s.TTR, 1e-9)
	assert.Equal(t, NeutralGrammar, s.Grammar)
	assert.Equal(t, NeutralSentiment, s.Sentiment)
}

func TestComputeZeroDuration(t *testing.T) {
	s := NewCalculator().Compute(context.Background(), "a b c", 0)
	assert.Zero(t, s.WPM)
}

func TestComputeEmpty(t *testing.T) {
	s := NewCalculator().Compute(context.Background(), "   ", 10)
	assert.Zero(t, s.WordCount)
	assert.Zero(t, s.TTR)
	assert.Zero(t, s.FillerRate)
	assert.Equal(t, NeutralGrammar, s.Grammar)
}

func TestFillerRate(t *testing.T) {
	c := NewCalculator()
	s := c.Compute(context.Background(), "Um, I like you know pizza.", 60)
	// um, like, "you know"
	assert.InDelta(t, 50.0, s.FillerRate, 1e-9)

	c = NewCalculator(WithFillers([]string{"basically"}))
	s = c.Compute(context.Background(), "Basically it works", 60)
	assert.InDelta(t, 100.0/3, s.FillerRate, 1e-9)
}

func TestGrammarScore(t *testing.T) {
	text := strings.Repeat("word ", 20)
	tests := []struct {
		name string
		g    GrammarChecker
		want float64
	}{
		{"disabled", nil, 1},
		{"no issues", fakeGrammar{n: 0}, 1},
		{"one per twenty", fakeGrammar{n: 1}, 0.5},
		{"floored", fakeGrammar{n: 10}, 0},
		{"checker down", fakeGrammar{err: errors.New("boom")}, NeutralGrammar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.g != nil {
				opts = append(opts, WithGrammar(tt.g))
			}
			s := NewCalculator(opts...).Compute(context.Background(), text, 60)
			assert.InDelta(t, tt.want, s.Grammar, 1e-9)
		})
	}
}

func TestSentimentScaled(t *testing.T) {
	s := NewCalculator(WithSentiment(fixedSentiment(0.6))).Compute(context.Background(), "x", 1)
	assert.InDelta(t, 0.8, s.Sentiment, 1e-9)
}

func TestVaderSentiment(t *testing.T) {
	v := NewVader()
	assert.Zero(t, v.Compound("The table is in the room"))

	for _, text := range []string{
		"I feel optimistic, thrilled and blessed to be here.",
		"I am eager and enthusiastic to learn.",
	} {
		c := v.Compound(text)
		assert.Greater(t, c, 0.6, text)
		assert.LessOrEqual(t, c, 1.0, text)
	}

	assert.Less(t, v.Compound("I do not love it"), 0.0)
	assert.Greater(t, v.Compound("very good"), v.Compound("good"))
	assert.Less(t, v.Compound("I am sad and tired"), 0.0)
}

func TestDefaultSentimentIsVader(t *testing.T) {
	s := NewCalculator().Compute(context.Background(), "I feel optimistic, thrilled and blessed to be here.", 10)
	assert.Greater(t, s.Sentiment, 0.9)
}

func TestLanguageTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/check", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "en-GB", r.PostForm.Get("language"))
		assert.Equal(t, "me and him goes", r.PostForm.Get("text"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[{"message":"a"},{"message":"b"}]}`))
	}))
	defer srv.Close()

	lt := NewLanguageTool(LanguageToolConfig{Endpoint: srv.URL + "/", Language: "en-GB", Timeout: time.Second})
	n, err := lt.Check(context.Background(), "me and him goes")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLanguageToolUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewLanguageTool(LanguageToolConfig{Endpoint: url, Timeout: time.Second}).Check(context.Background(), "text")
	assert.ErrorContains(t, err, "grammar check: post "+url+"/v2/check")
}

func TestLanguageToolFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	lt := NewLanguageTool(LanguageToolConfig{Endpoint: srv.URL})
	_, err := lt.Check(context.Background(), "text")
	assert.ErrorContains(t, err, "grammar check: 503")

	// the calculator degrades to neutral
	s := NewCalculator(WithGrammar(lt)).Compute(context.Background(), "some text here", 10)
	assert.Equal(t, NeutralGrammar, s.Grammar)
}
