package mapping

import (
	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/SscSPs/ledger_service/internal/models"
)

// ToModelTransaction converts domain.Transaction to models.Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Kind:          string(d.Kind),
		Status:        string(d.Status),
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransaction converts models.Transaction to domain.Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Kind:          domain.TransactionKind(m.Kind),
		Status:        domain.TransactionStatus(m.Status),
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelLedgerEntry converts domain.LedgerEntry to models.LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		EntryType:     string(d.EntryType),
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts models.LedgerEntry to domain.LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		TransactionID: m.TransactionID,
		EntryType:     domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of models.LedgerEntry to a slice of domain.LedgerEntry
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
