package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCommand is a request to move Amount from one account to another.
// CurrencyCode is optional; when set it must match both accounts.
type TransferCommand struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	CurrencyCode  string
	Description   string
}

// TransferResult describes a committed transfer.
type TransferResult struct {
	TransactionID string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	CurrencyCode  string
	CreatedAt     time.Time
}

// TransferCompleted is published after a transfer has been committed.
type TransferCompleted struct {
	TransactionID string          `json:"transaction_id"`
	FromAccount   string          `json:"from_account"`
	ToAccount     string          `json:"to_account"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currency_code"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
