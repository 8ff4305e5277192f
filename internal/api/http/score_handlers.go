package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/scoring"
)

// Service is the scoring surface the handlers need. *scoring.Service
// implements it.
type Service interface {
	Score(ctx context.Context, transcript string, durationSec float64) (grading.ScoreResult, error)
	Rules() ([]rubric.Rule, error)
	Load(ctx context.Context) error
	Health() scoring.Health
}

type scoreReq struct {
	Transcript  string   `json:"transcript"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
}

// POST /score
func ScoreHandler(svc Service, defaultDuration float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		dur := defaultDuration
		if req.DurationSec != nil {
			dur = *req.DurationSec
		}
		res, err := svc.Score(r.Context(), req.Transcript, dur)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, Present(res))
	}
}

// GET /rubric
func RubricHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := svc.Rules()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_items": len(rules),
			"rubric":      rules,
		})
	}
}

// POST /rubric/reload
func ReloadHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Load(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "reload: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, svc.Health())
	}
}
