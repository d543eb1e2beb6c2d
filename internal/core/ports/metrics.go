package ports

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferMetrics receives one observation per transfer attempt.
type TransferMetrics interface {
	// ObserveTransfer records the outcome label ("completed" or a failure
	// kind), the amount and the time spent.
	ObserveTransfer(outcome string, currency string, amount decimal.Decimal, elapsed time.Duration)

	// ObserveConflictRetry records a unit of work retried after a store conflict.
	ObserveConflictRetry()

	// ObserveEventPublish records whether a completed-transfer event was delivered.
	ObserveEventPublish(ok bool)
}

// NoopMetrics discards all observations.
type NoopMetrics struct{}

func (NoopMetrics) ObserveTransfer(string, string, decimal.Decimal, time.Duration) {}
func (NoopMetrics) ObserveConflictRetry()                                          {}
func (NoopMetrics) ObserveEventPublish(bool)                                       {}
