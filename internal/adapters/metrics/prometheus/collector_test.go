package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveTransfer(t *testing.T) {
	c := NewCollector("ledger_test")
	require.NoError(t, c.Register(prometheus.NewRegistry()))

	c.ObserveTransfer("completed", "USD", decimal.RequireFromString("40.5"), 10*time.Millisecond)
	c.ObserveTransfer("completed", "USD", decimal.RequireFromString("9.5"), 10*time.Millisecond)
	c.ObserveTransfer("insufficient_funds", "", decimal.NewFromInt(50), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.transfers.WithLabelValues("completed", "USD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transfers.WithLabelValues("insufficient_funds", "unknown")))
	assert.Equal(t, 50.0, testutil.ToFloat64(c.transferAmount.WithLabelValues("USD")))
}

func TestCollector_RetriesEventsAndCircuit(t *testing.T) {
	c := NewCollector("ledger_test")

	c.ObserveConflictRetry()
	c.ObserveEventPublish(true)
	c.ObserveEventPublish(false)
	c.ObserveEventPublish(false)
	c.ObserveCircuitState("open")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.conflictRetries))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsPublished.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.eventsPublished.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.publisherCircuit))

	c.ObserveCircuitState("closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(c.publisherCircuit))
}

func TestCollector_RegisterTwiceFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector("ledger_test")
	require.NoError(t, c.Register(registry))
	assert.Error(t, c.Register(registry))
}

func TestCollector_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector("ledger_test")
	r := gin.New()
	r.Use(c.GinMiddleware())
	r.GET("/api/v1/accounts/:accountID", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/v1/accounts/:accountID", "404")))
}
