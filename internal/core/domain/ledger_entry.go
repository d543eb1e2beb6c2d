package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry takes money out of (debit) or
// puts money into (credit) its account.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// AmountScale is the number of decimal places an amount may carry. It matches
// the NUMERIC(20,4) amount column of ledger_entries.
const AmountScale int32 = 4

// HasValidScale reports whether amount fits in AmountScale decimal places
// without rounding.
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// LedgerEntry is one leg of a transaction against a single account. Entries are
// append-only; they are never updated or deleted.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> accounts
	TransactionID string          `json:"transactionID"` // FK -> transactions
	EntryType     EntryType       `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	CreatedAt     time.Time       `json:"createdAt"`
}

// SignedAmount returns the entry's effect on its account balance: credits
// positive, debits negative.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}
