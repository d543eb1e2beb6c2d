package models

import "time"

// Account is the row shape of the accounts table.
type Account struct {
	AccountID    string    `db:"account_id"`
	OwnerName    string    `db:"owner_name"`
	AccountType  string    `db:"account_type"`
	CurrencyCode string    `db:"currency_code"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}
