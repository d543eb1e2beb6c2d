package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the row shape of the ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	AccountID     string          `db:"account_id"`
	TransactionID string          `db:"transaction_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	CreatedAt     time.Time       `db:"created_at"`
}
