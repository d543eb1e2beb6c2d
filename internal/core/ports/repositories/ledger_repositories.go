package repositories

import (
	"context"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerUnit is a unit of work over the ledger tables. Every method runs inside
// the same store transaction.
type LedgerUnit interface {
	UnitOfWork

	// LockAccounts returns the requested accounts that exist, keyed by ID, and
	// holds an exclusive row lock on each of them until the unit ends. Missing
	// IDs are simply absent from the map.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// SumSignedEntries returns Σcredits − Σdebits for the account as seen by
	// this unit, or zero when it has no entries.
	SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error)

	// InsertTransaction appends a transaction record.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// InsertLedgerEntry appends a single ledger entry.
	InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerReader defines read operations over committed ledger data.
type LedgerReader interface {
	// SumSignedEntries returns the committed balance of an account.
	SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error)

	// FindTransactionByID retrieves a transaction without its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindEntriesByTransactionID retrieves the entries of a transaction.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error)

	// ListEntriesByAccountID retrieves entries for an account, newest first,
	// using token-based pagination. It returns the entries and the token for
	// the next page (nil when there is none).
	ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerRepository is the ledger store port used by the transfer engine.
type LedgerRepository interface {
	LedgerReader

	// BeginUnit opens a new unit of work.
	BeginUnit(ctx context.Context) (LedgerUnit, error)
}
