package services

import (
	"context"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/SscSPs/ledger_service/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceSvc exposes derived balances.
type BalanceSvc interface {
	// GetBalance returns the balance of an existing account. It fails with
	// apperrors.ErrNotFound when the account does not exist.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetAccountWithBalance returns the account record and its balance.
	GetAccountWithBalance(ctx context.Context, accountID string) (*domain.Account, decimal.Decimal, error)
}

// TransferSvc moves money between accounts.
type TransferSvc interface {
	// Transfer debits the source and credits the destination as one atomic
	// unit. Any returned error is an *apperrors.TransferError.
	Transfer(ctx context.Context, cmd domain.TransferCommand) (*domain.TransferResult, error)
}

// LedgerReaderSvc exposes committed ledger history.
type LedgerReaderSvc interface {
	// GetTransaction returns a transaction together with its entries.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListAccountEntries returns a page of entries for an existing account.
	ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	BalanceSvc
	TransferSvc
	LedgerReaderSvc
}
