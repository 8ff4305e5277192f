package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MountRoutes wires the service endpoints onto r.
func MountRoutes(r chi.Router, svc Service, logs RecentLogs, defaultDuration float64) {
	r.Get("/", RootHandler(svc))
	r.Get("/healthz", HealthzHandler(svc))
	r.Get("/readyz", ReadyzHandler(svc))

	r.Post("/score", ScoreHandler(svc, defaultDuration))
	r.Get("/rubric", RubricHandler(svc))
	r.Post("/rubric/reload", ReloadHandler(svc))

	r.Get("/analytics/download", AnalyticsHandler(logs))
	r.Handle("/metrics", promhttp.Handler())
}
