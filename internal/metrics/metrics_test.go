package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/api/v1/stats/summary", http.MethodGet, 200, 5*time.Millisecond)
	m.ObserveRequest("/api/v1/stats/summary", http.MethodGet, 200, 5*time.Millisecond)
	m.ObservePrediction(OutcomeSuccess, "Theft", time.Millisecond)
	m.ObservePrediction(OutcomeUnavailable, "", 0)
	m.SetDatasetRows(42)
	m.SetModelLoaded(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/stats/summary", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(OutcomeUnavailable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.categories.WithLabelValues("Theft")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.datasetRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelLoaded))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("", "GET", 200, 0)
		m.ObservePrediction(OutcomeSuccess, "Theft", 0)
		m.SetDatasetRows(1)
		m.SetModelLoaded(false)
	})
	assert.NotNil(t, m.Handler())
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetModelLoaded(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crime_dashboard_model_loaded 1")
}
