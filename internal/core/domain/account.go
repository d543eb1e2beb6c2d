package domain

import "time"

// AccountType is a free-form category for an account. It does not affect how
// balances are computed.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
	Wallet   AccountType = "WALLET"
	Business AccountType = "BUSINESS"
)

// AccountStatus is the only mutable attribute of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// Account represents a holder of funds. The balance is never stored on the
// account; it is derived from the ledger entries that reference it.
type Account struct {
	AccountID    string        `json:"accountID"`    // Primary Key (UUID)
	OwnerName    string        `json:"ownerName"`    // Holder's display name
	AccountType  AccountType   `json:"accountType"`  // CHECKING, SAVINGS, ...
	CurrencyCode string        `json:"currencyCode"` // ISO 4217, fixed at creation
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// IsActive reports whether the account may take part in transfers.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}
