package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumSignedAmounts returns Σcredits − Σdebits over the given entries. An empty
// slice sums to zero.
func SumSignedAmounts(entries []domain.LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SignedAmount())
	}
	return sum
}

// ValidateTransactionEntries checks that the entries form a balanced two-leg
// transaction: exactly one debit and one credit, both positive, equal in
// amount, on different accounts, referencing the same transaction.
func ValidateTransactionEntries(entries []domain.LedgerEntry) error {
	if len(entries) != 2 {
		return fmt.Errorf("transaction must have exactly two entries, got %d", len(entries))
	}

	var debits, credits decimal.Decimal
	var debitCount, creditCount int
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return fmt.Errorf("entry amount must be positive for entry ID %s", e.EntryID)
		}
		if e.TransactionID != entries[0].TransactionID {
			return fmt.Errorf("entry %s references transaction %s, expected %s", e.EntryID, e.TransactionID, entries[0].TransactionID)
		}
		switch e.EntryType {
		case domain.Debit:
			debits = debits.Add(e.Amount)
			debitCount++
		case domain.Credit:
			credits = credits.Add(e.Amount)
			creditCount++
		default:
			return fmt.Errorf("unknown entry type '%s' for entry ID %s", e.EntryType, e.EntryID)
		}
	}

	if debitCount != 1 || creditCount != 1 {
		return fmt.Errorf("transaction must have one debit and one credit, got %d and %d", debitCount, creditCount)
	}
	if entries[0].AccountID == entries[1].AccountID {
		return fmt.Errorf("debit and credit must affect different accounts")
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("entries do not balance: debits sum is %s and credits sum is %s", debits.String(), credits.String())
	}
	return nil
}
