package dto

import (
	"time"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse mirrors domain.LedgerEntry.
type EntryResponse struct {
	EntryID       string           `json:"entryID"`
	AccountID     string           `json:"accountID"`
	TransactionID string           `json:"transactionID"`
	EntryType     domain.EntryType `json:"entryType"`
	Amount        decimal.Decimal  `json:"amount"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// TransactionResponse mirrors domain.Transaction with its entries.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	Kind          domain.TransactionKind   `json:"kind"`
	Status        domain.TransactionStatus `json:"status"`
	Description   string                   `json:"description"`
	CreatedAt     time.Time                `json:"createdAt"`
	Entries       []EntryResponse          `json:"entries"`
}

// ListEntriesParams defines query parameters for listing an account's entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries and the token for the next one.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.LedgerEntry to its DTO.
func ToEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		AccountID:     e.AccountID,
		TransactionID: e.TransactionID,
		EntryType:     e.EntryType,
		Amount:        e.Amount,
		CreatedAt:     e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(e)
	}
	return res
}

// ToTransactionResponse converts a domain.Transaction (with entries) to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Kind:          txn.Kind,
		Status:        txn.Status,
		Description:   txn.Description,
		CreatedAt:     txn.CreatedAt,
		Entries:       ToEntryResponses(txn.Entries),
	}
}
