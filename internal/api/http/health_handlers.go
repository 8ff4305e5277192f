package http

import (
	"net/http"
)

type healthResp struct {
	Status      string  `json:"status"`
	Initialized bool    `json:"scorer_initialized"`
	Error       *string `json:"error"`
	Source      string  `json:"source"`
	Rules       int     `json:"rules"`
}

func health(svc Service) healthResp {
	h := svc.Health()
	out := healthResp{Status: "ok", Initialized: h.Ready, Source: h.Source, Rules: h.Rules}
	if !h.Ready {
		out.Status = "error"
	}
	if h.Error != "" {
		out.Error = &h.Error
	}
	return out
}

// GET /
func RootHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := health(svc)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Communication Scoring API",
			"status":  h.Status,
			"error":   h.Error,
			"endpoints": map[string]string{
				"/score":              "POST - Score a transcript",
				"/healthz":            "GET - Health check",
				"/readyz":             "GET - Readiness (rubric loaded)",
				"/rubric":             "GET - Get rubric structure",
				"/rubric/reload":      "POST - Reload the rubric source",
				"/analytics/download": "GET - Recent request log",
				"/metrics":            "GET - Prometheus metrics",
			},
		})
	}
}

// GET /healthz always answers 200 so a degraded scorer stays observable.
func HealthzHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, health(svc))
	}
}

// GET /readyz
func ReadyzHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := health(svc)
		status := http.StatusOK
		if !h.Initialized {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, h)
	}
}
