package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dilinamewan/Employee-Directory/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.HTTPRequests.WithLabelValues("GET", "/api/v1/employees", "200").Inc()
	m.OutboxEvents.WithLabelValues("sent").Add(3)
	m.ListResultSize.Observe(10)
	m.OutboxBacklog.WithLabelValues("dead").Set(2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `employee_directory_http_requests_total{method="GET",route="/api/v1/employees",status="200"} 1`)
	assert.Contains(t, string(body), `employee_directory_outbox_events_total{result="sent"} 3`)
	assert.Contains(t, string(body), "employee_directory_employee_list_result_size_count 1")
	assert.Contains(t, string(body), `employee_directory_outbox_backlog{status="dead"} 2`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.OutboxEvents.WithLabelValues("failed").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.OutboxEvents.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OutboxEvents.WithLabelValues("failed")))
}
