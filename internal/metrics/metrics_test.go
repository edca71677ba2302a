package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersInstruments(t *testing.T) {
	m := New()
	require.NotNil(t, m.Registry())

	// Independent instances must not collide
	assert.NotPanics(t, func() { New() })
}

func TestObserveAnalysis(t *testing.T) {
	m := New()
	m.ObserveAnalysis("sleep", 5*time.Millisecond)
	m.ObserveAnalysis("sleep", 2*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("sleep")))
}

func TestMiddleware(t *testing.T) {
	m := New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("GET", "/api/health", "418")))
}
