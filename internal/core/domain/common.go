package domain

import "time"

// Now returns the timestamp used for records written by the ledger. Stored times
// are UTC with microsecond precision, matching PostgreSQL timestamptz.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
