package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecordEvent(t *testing.T) {
	m := metrics.New("test")
	m.RecordEvent("shipment.shipped")
	m.RecordEvent("shipment.shipped")
	m.RecordEvent("receiving.committed")

	body := scrape(t, m)
	assert.Contains(t, body, `test_business_events_total{type="shipment.shipped"} 2`)
	assert.Contains(t, body, `test_business_events_total{type="receiving.committed"} 1`)
}

func TestRecordReceivedUnits_IgnoraNoPositivos(t *testing.T) {
	m := metrics.New("test")
	m.RecordReceivedUnits(9)
	m.RecordReceivedUnits(-2)
	m.RecordReceivedUnits(0)
	assert.Contains(t, scrape(t, m), "test_received_units_total 9")
}

func TestRecordHTTPRequest(t *testing.T) {
	m := metrics.New("test")
	m.RecordHTTPRequest("GET", "/api/stock/:id", 200, 15*time.Millisecond)
	assert.Contains(t, scrape(t, m), `test_http_requests_total{method="GET",path="/api/stock/:id",status="200"} 1`)
}
