package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_service/internal/core/ports"
)

const unknownLabel = "unknown"

// Collector implements ports.TransferMetrics for Prometheus and also records
// HTTP request metrics and the event publisher's circuit state.
type Collector struct {
	transfers        *prometheus.CounterVec
	transferAmount   *prometheus.CounterVec
	transferLatency  *prometheus.HistogramVec
	conflictRetries  prometheus.Counter
	eventsPublished  *prometheus.CounterVec
	publisherCircuit prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

var _ ports.TransferMetrics = (*Collector)(nil)

// NewCollector creates a new Prometheus metrics collector.
func NewCollector(namespace string) *Collector {
	return &Collector{
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfer attempts by outcome",
			},
			[]string{"outcome", "currency"},
		),
		transferAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transferred_amount_total",
				Help:      "Sum of committed transfer amounts per currency",
			},
			[]string{"currency"},
		),
		transferLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Transfer latency including lock waits",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 15), // 0.5ms to ~8s
			},
			[]string{"outcome"},
		),
		conflictRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_conflict_retries_total",
				Help:      "Transfer units retried after a serialization failure or deadlock",
			},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "TransferCompleted events by delivery status",
			},
			[]string{"status"},
		),
		publisherCircuit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "event_publisher_circuit_state",
				Help:      "Event publisher circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (c *Collector) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.transfers,
		c.transferAmount,
		c.transferLatency,
		c.conflictRetries,
		c.eventsPublished,
		c.publisherCircuit,
		c.httpRequests,
		c.httpLatency,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// ObserveTransfer records one transfer attempt.
func (c *Collector) ObserveTransfer(outcome string, currency string, amount decimal.Decimal, elapsed time.Duration) {
	if currency == "" {
		currency = unknownLabel
	}
	c.transfers.WithLabelValues(outcome, currency).Inc()
	c.transferLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == "completed" {
		c.transferAmount.WithLabelValues(currency).Add(amount.InexactFloat64())
	}
}

// ObserveConflictRetry records a retried unit of work.
func (c *Collector) ObserveConflictRetry() {
	c.conflictRetries.Inc()
}

// ObserveEventPublish records an event delivery attempt.
func (c *Collector) ObserveEventPublish(ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	c.eventsPublished.WithLabelValues(status).Inc()
}

// ObserveCircuitState records the publisher breaker state by name
// ("closed", "half-open" or "open").
func (c *Collector) ObserveCircuitState(state string) {
	switch state {
	case "closed":
		c.publisherCircuit.Set(0)
	case "half-open":
		c.publisherCircuit.Set(1)
	case "open":
		c.publisherCircuit.Set(2)
	}
}

// GinMiddleware records request counts and latencies per matched route.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = unknownLabel
		}
		c.httpRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
