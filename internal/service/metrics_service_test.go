package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.RecordPlacement("")
	m.RecordPlacement("ROOM_OCCUPIED")
	m.RecordPlacement("ROOM_OCCUPIED")
	m.RecordExport("csv")
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `routine_placement_validations_total{outcome="ACCEPTED"} 1`)
	assert.Contains(t, body, `routine_placement_validations_total{outcome="ROOM_OCCUPIED"} 2`)
	assert.Contains(t, body, `routine_exports_total{format="csv"} 1`)
	assert.Contains(t, body, "routine_cache_hit_ratio 0.5")
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/routine", http.StatusOK, 10*time.Millisecond)

	assert.True(t, strings.Contains(scrape(t, m), `routine_http_requests_total{method="GET",path="/api/v1/routine",status="200"} 1`))
}

func scrape(t *testing.T, m *MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordPlacement("TEACHER_BUSY")
	m.RecordExport("pdf")
	m.ObserveDBQuery("apply_in_slot", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
