package dto

import (
	"time"

	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /transfers.
type TransferRequest struct {
	FromAccount  string          `json:"fromAccount" binding:"required,uuid"`
	ToAccount    string          `json:"toAccount" binding:"required,uuid"`
	Amount       decimal.Decimal `json:"amount" binding:"dgt0"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,iso4217"`
	Description  string          `json:"description" binding:"max=500"`
}

// ToCommand converts the request into the engine's command.
func (r TransferRequest) ToCommand() domain.TransferCommand {
	return domain.TransferCommand{
		FromAccountID: r.FromAccount,
		ToAccountID:   r.ToAccount,
		Amount:        r.Amount,
		CurrencyCode:  r.CurrencyCode,
		Description:   r.Description,
	}
}

// TransferResponse is returned for a committed transfer.
type TransferResponse struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	FromAccount   string          `json:"fromAccount"`
	ToAccount     string          `json:"toAccount"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToTransferResponse converts a domain.TransferResult to its DTO.
func ToTransferResponse(res *domain.TransferResult) TransferResponse {
	return TransferResponse{
		Success:       true,
		TransactionID: res.TransactionID,
		FromAccount:   res.FromAccountID,
		ToAccount:     res.ToAccountID,
		Amount:        res.Amount,
		CurrencyCode:  res.CurrencyCode,
		CreatedAt:     res.CreatedAt,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
