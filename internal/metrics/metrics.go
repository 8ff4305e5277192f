// Package metrics holds the Prometheus collectors of the scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Score outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotReady = "not_ready"
	OutcomeError    = "error"
)

var (
	scoreRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commscore_score_requests_total",
			Help: "Scoring calls by outcome",
		},
		[]string{"outcome"},
	)

	overallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "commscore_overall_score",
			Help:    "Distribution of overall scores (0-100)",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	metricRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "commscore_metric_score_ratio",
			Help: "Most recent awarded/max ratio per rubric metric (0.0-1.0)",
		},
		[]string{"metric"},
	)

	rubricRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commscore_rubric_rules",
			Help: "Rules in the active rubric snapshot",
		},
	)

	rubricLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commscore_rubric_loads_total",
			Help: "Rubric load attempts by result",
		},
		[]string{"result"},
	)
)

// ScoreOutcome counts one scoring call.
func ScoreOutcome(outcome string) { scoreRequests.WithLabelValues(outcome).Inc() }

// ObserveScore records a successful scoring call.
func ObserveScore(overall float64) {
	scoreRequests.WithLabelValues(OutcomeOK).Inc()
	overallScore.Observe(overall)
}

// ObserveMetric records the awarded share of one metric.
func ObserveMetric(metric string, score, max float64) {
	if max <= 0 {
		return
	}
	metricRatio.WithLabelValues(metric).Set(score / max)
}

// RubricLoaded records a load attempt; rules is only used on success.
func RubricLoaded(rules int, err error) {
	if err != nil {
		rubricLoads.WithLabelValues("error").Inc()
		return
	}
	rubricLoads.WithLabelValues("ok").Inc()
	rubricRules.Set(float64(rules))
}
