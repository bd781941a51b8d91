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

func TestMetrics_RecordSync(t *testing.T) {
	m := New()

	m.RecordSync(SyncMerged, 3)
	m.RecordSync(SyncPartial, 1)
	m.RecordSync(SyncMerged, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartSyncs.WithLabelValues(SyncMerged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartSyncs.WithLabelValues(SyncPartial)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.syncedEntries))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/cart", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/v1/cart", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordSearch(SearchFired)
	m.StreamOpened()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `qkart_search_queries_total{outcome="fired"} 1`)
	assert.Contains(t, rec.Body.String(), "qkart_search_stream_clients 1")
}
