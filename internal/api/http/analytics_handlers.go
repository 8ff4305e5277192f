package http

import (
	"context"
	"net/http"

	"github.com/chainguard-dev/clog"

	"github.com/mind-engage/commscore/internal/accesslog"
)

// RecentLogs is the part of the request log the analytics endpoint reads.
type RecentLogs interface {
	Recent(ctx context.Context, limit int) ([]accesslog.Entry, error)
	Counts(ctx context.Context, path string) (total, forPath int, err error)
}

const analyticsLimit = 50

// GET /analytics/download
func AnalyticsHandler(logs RecentLogs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, scored, err := logs.Counts(r.Context(), "/score")
		if err != nil {
			clog.FromContext(r.Context()).Errorf("analytics: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if total == 0 {
			writeJSON(w, http.StatusOK, map[string]any{
				"total_requests": 0,
				"score_requests": 0,
				"logs":           []accesslog.Entry{},
				"message":        "No logs yet",
			})
			return
		}
		recent, err := logs.Recent(r.Context(), analyticsLimit)
		if err != nil {
			clog.FromContext(r.Context()).Errorf("analytics: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_requests": total,
			"score_requests": scored,
			"logs":           recent,
			"message":        "Showing last 50 requests",
		})
	}
}
