package dto

import (
	"time"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	OwnerName    string             `json:"ownerName" binding:"required,max=255"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS WALLET BUSINESS"`
	CurrencyCode string             `json:"currencyCode" binding:"required,iso4217"`
}

// UpdateAccountStatusRequest defines the body of a status change.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID    string               `json:"accountID"`
	OwnerName    string               `json:"ownerName"`
	AccountType  domain.AccountType   `json:"accountType"`
	CurrencyCode string               `json:"currencyCode"`
	Status       domain.AccountStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// AccountWithBalanceResponse is an account together with its derived balance.
type AccountWithBalanceResponse struct {
	AccountResponse
	Balance decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		OwnerName:    acc.OwnerName,
		AccountType:  acc.AccountType,
		CurrencyCode: acc.CurrencyCode,
		Status:       acc.Status,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
