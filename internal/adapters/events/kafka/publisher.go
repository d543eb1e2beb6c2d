package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/SscSPs/ledger_service/internal/core/ports"
)

const eventTypeTransferCompleted = "TransferCompleted"

// ErrPublisherUnavailable is returned while the circuit breaker is open.
var ErrPublisherUnavailable = errors.New("event publisher unavailable")

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config configures the publisher.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	// OnStateChange is called with the new breaker state name ("closed",
	// "half-open" or "open"). Optional.
	OnStateChange func(state string)
}

// Publisher sends ledger events to Kafka through a circuit breaker, so a
// broker outage costs a transfer at most WriteTimeout until the breaker opens.
type Publisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher for cfg.Topic.
func NewPublisher(cfg Config) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newPublisher(writer, cfg)
}

func newPublisher(writer messageWriter, cfg Config) *Publisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "kafka:" + cfg.Topic,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(to.String())
			}
		},
	}

	return &Publisher{
		writer:  writer,
		topic:   cfg.Topic,
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// PublishTransferCompleted writes the event keyed by the source account, so
// events for one account keep their order within a partition.
func (p *Publisher) PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventTypeTransferCompleted, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.FromAccount),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeTransferCompleted)},
			{Key: "transaction_id", Value: []byte(event.TransactionID)},
		},
	}

	// The transfer is already committed; the caller's cancellation must not
	// drop the event.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(writeCtx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrPublisherUnavailable, err)
		}
		return fmt.Errorf("failed to publish %s to %s: %w", eventTypeTransferCompleted, p.topic, err)
	}
	return nil
}

// Close flushes pending writes and closes the connection.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
