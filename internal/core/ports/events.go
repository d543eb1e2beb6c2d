package ports

import (
	"context"

	"github.com/SscSPs/ledger_service/internal/core/domain"
)

// EventPublisher announces committed ledger changes to other systems.
type EventPublisher interface {
	PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransferCompleted(context.Context, domain.TransferCompleted) error {
	return nil
}
