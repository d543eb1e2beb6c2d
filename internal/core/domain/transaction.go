package domain

import "time"

// TransactionKind names the logical movement a transaction represents.
type TransactionKind string

const (
	KindTransfer TransactionKind = "transfer"
	// KindOpeningBalance is written by operators seeding an account. The
	// service never creates it.
	KindOpeningBalance TransactionKind = "opening_balance"
)

// TransactionStatus is always Completed for persisted transactions: a
// transaction row exists only if its entries were committed with it.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
)

// Transaction represents one logical monetary movement. Immutable once created.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	Kind          TransactionKind   `json:"kind"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	CreatedAt     time.Time         `json:"createdAt"`
	Entries       []LedgerEntry     `json:"entries,omitempty"` // Loaded on demand
}
