package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/commscore/internal/accesslog"
	"github.com/mind-engage/commscore/internal/db"
	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/scoring"
	"github.com/mind-engage/commscore/internal/stats"
	"github.com/mind-engage/commscore/internal/storage"
)

const intro = "Hello everyone, myself Muskan. I am 13 years old and I study in class 8 at Christ Public School. " +
	"There are four people in my family. I enjoy playing cricket and my dream is to become a doctor. Thank you."

type testServer struct {
	router http.Handler
	svc    *scoring.Service
	logs   *accesslog.Repo
}

func newTestServer(t *testing.T, source string) *testServer {
	t.Helper()
	fs, err := storage.NewFSStore("../../rubric/testdata")
	require.NoError(t, err)
	engine := grading.NewEngine(stats.NewCalculator())
	svc := scoring.New(rubric.NewLoader(fs, rubric.DefaultOptions()), source, engine)
	_ = svc.Load(context.Background())

	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	logs := accesslog.NewRepo(conn)

	r := chi.NewRouter()
	r.Use(middleware.RealIP, accesslog.Middleware(logs))
	MountRoutes(r, svc, logs, 60)
	return &testServer{router: r, svc: svc, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func scoreBody(t *testing.T, transcript string, dur float64) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"transcript": transcript, "duration_sec": dur})
	require.NoError(t, err)
	return string(b)
}

func TestScoreEndpoint(t *testing.T) {
	s := newTestServer(t, "rubric.csv")
	rec := s.do(t, http.MethodPost, "/score", scoreBody(t, intro, 20))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 100, got.MaxPoints)
	assert.Len(t, got.Details, 8)
	assert.GreaterOrEqual(t, got.OverallScore, 0.0)
	assert.LessOrEqual(t, got.OverallScore, 100.0)
	assert.Equal(t, len(strings.Fields(intro)), got.WordCount)

	sum := got.Summary.ContentStructure + got.Summary.SpeechRate + got.Summary.LanguageGrammar +
		got.Summary.Clarity + got.Summary.Engagement
	assert.InDelta(t, got.TotalPoints, sum, 0.05)
	for _, d := range got.Details {
		assert.NotEqual(t, CategoryGeneral, d.Criteria, d.Metric)
		assert.NotEmpty(t, d.Feedback)
	}
}

func TestScoreRejectsBadInput(t *testing.T) {
	s := newTestServer(t, "rubric.csv")
	tests := []struct {
		name string
		body string
	}{
		{"empty transcript", `{"transcript": ""}`},
		{"blank transcript", `{"transcript": "   \n"}`},
		{"bad json", `{"transcript":`},
		{"negative duration", `{"transcript": "hello", "duration_sec": -5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/score", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDegradedService(t *testing.T) {
	s := newTestServer(t, "missing.xlsx")

	rec := s.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var h healthResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "error", h.Status)
	assert.False(t, h.Initialized)
	require.NotNil(t, h.Error)
	assert.Contains(t, *h.Error, "missing.xlsx")

	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodPost, "/score", scoreBody(t, intro, 60)).Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/rubric", "").Code)
	assert.Equal(t, http.StatusInternalServerError, s.do(t, http.MethodPost, "/rubric/reload", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/", "").Code)
}

func TestRubricAndReload(t *testing.T) {
	s := newTestServer(t, "rubric.csv")

	rec := s.do(t, http.MethodGet, "/rubric", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		TotalItems int               `json:"total_items"`
		Rubric     []json.RawMessage `json:"rubric"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 28, body.TotalItems)
	assert.Len(t, body.Rubric, 28)
	assert.Contains(t, rec.Body.String(), `"max_val":null`)

	rec = s.do(t, http.MethodPost, "/rubric/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/readyz", "").Code)
}

func TestAnalytics(t *testing.T) {
	s := newTestServer(t, "rubric.csv")

	rec := s.do(t, http.MethodGet, "/analytics/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No logs yet")

	s.do(t, http.MethodPost, "/score", scoreBody(t, intro, 60))
	s.do(t, http.MethodPost, "/score", `{"transcript": ""}`)

	rec = s.do(t, http.MethodGet, "/analytics/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total int               `json:"total_requests"`
		Score int               `json:"score_requests"`
		Logs  []accesslog.Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// the first analytics call is logged too
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Score)
	require.Len(t, body.Logs, 3)
	assert.Equal(t, http.StatusBadRequest, body.Logs[2].Status)
	assert.Len(t, body.Logs[0].IPHash, 8)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "rubric.csv")
	s.do(t, http.MethodPost, "/score", scoreBody(t, intro, 60))
	rec := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "commscore_score_requests_total")
	assert.Contains(t, rec.Body.String(), "commscore_rubric_rules")
}

func TestPresentLabels(t *testing.T) {
	tests := []struct {
		metric, category, approach string
	}{
		{"Salutation Level", CategoryContent, "Rule-based + NLP"},
		{"Keyword Presence", CategoryContent, "Rule-based + NLP"},
		{"Flow", CategoryContent, "Rule-based"},
		{"Speech rate (words per minute)", CategorySpeech, "Rule-based"},
		{"Grammar errors", CategoryLanguage, "NLP"},
		{"Vocabulary richness (TTR)", CategoryLanguage, "Rule-based"},
		{"Filler word rate", CategoryClarity, "Rule-based"},
		{"Sentiment/Positivity", CategoryEngage, "NLP"},
		{"Eye contact", CategoryGeneral, "Rule-based"},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			assert.Equal(t, tt.category, categoryFor(tt.metric))
			assert.Equal(t, tt.approach, approachFor(tt.metric))
		})
	}
}

func TestPresentRounding(t *testing.T) {
	res := grading.ScoreResult{
		OverallScore: 66.7,
		Stats:        stats.TranscriptStats{WordCount: 3, WPM: 123.456, TTR: 0.66666},
		Breakdown: []grading.ScoreBreakdownItem{
			{Metric: "Keyword Presence", Score: 13.33, Max: 30},
			{Metric: "Eye contact", Score: 1, Max: 15},
		},
	}
	got := Present(res)
	assert.Equal(t, 123.5, got.WPM)
	assert.Equal(t, 0.667, got.TTR)
	assert.Equal(t, 14.33, got.TotalPoints)
	assert.Equal(t, 45, got.MaxPoints)
	assert.Equal(t, 13.33, got.Summary.ContentStructure)
	assert.Equal(t, CategoryGeneral, got.Details[1].Criteria)
}
