package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// find returns the metric of family name whose labels include want.
func find(t *testing.T, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func TestScoreMetrics(t *testing.T) {
	ScoreOutcome(OutcomeInvalid)
	ObserveScore(72.5)
	ObserveMetric("Speech Rate", 6, 10)
	ObserveMetric("Empty", 0, 0)

	m := find(t, "commscore_score_requests_total", map[string]string{"outcome": OutcomeInvalid})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)

	m = find(t, "commscore_overall_score", nil)
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))

	m = find(t, "commscore_metric_score_ratio", map[string]string{"metric": "Speech Rate"})
	require.NotNil(t, m)
	assert.InDelta(t, 0.6, m.GetGauge().GetValue(), 1e-9)
	assert.Nil(t, find(t, "commscore_metric_score_ratio", map[string]string{"metric": "Empty"}))
}

func TestRubricLoaded(t *testing.T) {
	RubricLoaded(28, nil)
	RubricLoaded(0, errors.New("missing"))

	m := find(t, "commscore_rubric_rules", nil)
	require.NotNil(t, m)
	assert.Equal(t, 28.0, m.GetGauge().GetValue())

	m = find(t, "commscore_rubric_loads_total", map[string]string{"result": "error"})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}
