package models

import "time"

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID string    `db:"transaction_id"`
	Kind          string    `db:"kind"`
	Status        string    `db:"status"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
}
