package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_service/internal/models"
	"github.com/SscSPs/ledger_service/internal/utils/mapping"
	"github.com/SscSPs/ledger_service/internal/utils/pagination"
)

const (
	transactionColumns = `transaction_id, kind, status, description, created_at`
	entryColumns       = `entry_id, account_id, transaction_id, entry_type, amount, created_at`

	// Σcredits − Σdebits, zero for an account without entries.
	sumSignedEntriesQuery = `
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'credit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE account_id = $1;
	`
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sumSignedEntries(ctx context.Context, q querier, accountID string) (decimal.Decimal, error) {
	if !isValidID(accountID) {
		return decimal.Zero, nil
	}
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, sumSignedEntriesQuery, accountID).Scan(&sum); err != nil {
		return decimal.Zero, queryFailed("sum entries of account "+accountID, err)
	}
	return sum, nil
}

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transactions and ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// BeginUnit opens a database transaction wrapped as a LedgerUnit.
func (r *PgxLedgerRepository) BeginUnit(ctx context.Context) (portsrepo.LedgerUnit, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxLedgerUnit{base: &r.BaseRepository, tx: tx}, nil
}

func (r *PgxLedgerRepository) SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return sumSignedEntries(ctx, r.Pool, accountID)
}

func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if !isValidID(transactionID) {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, queryFailed("find transaction "+transactionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, queryFailed("scan transaction "+transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	if !isValidID(transactionID) {
		return []domain.LedgerEntry{}, nil
	}
	// Debit first, matching insertion order.
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE transaction_id = $1
		ORDER BY entry_type DESC, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, queryFailed("query entries of transaction "+transactionID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, queryFailed("scan entries of transaction "+transactionID, err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

// ListEntriesByAccountID retrieves a page of entries for an account, newest
// first, using keyset pagination on (created_at, entry_id).
func (r *PgxLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	if !isValidID(accountID) {
		return []domain.LedgerEntry{}, nil, nil
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`
	args := []any{accountID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", errors.Join(apperrors.ErrValidation, decodeErr))
		}
		if !isValidID(lastEntryID) {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", apperrors.ErrValidation)
		}
		// Tuple comparison is concise and efficient in Postgres
		cursorClause := `AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastEntryID)
		query = baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	} else {
		query = baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, queryFailed("query entries for account "+accountID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, nil, queryFailed("scan entries for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nextTokenVal, nil
}

// pgxLedgerUnit is a LedgerUnit backed by a single pgx transaction.
type pgxLedgerUnit struct {
	base *BaseRepository
	tx   pgx.Tx
	done bool
}

var _ portsrepo.LedgerUnit = (*pgxLedgerUnit)(nil)

// LockAccounts selects the accounts FOR UPDATE. Rows are locked in the order
// the ORDER BY emits them, so every unit locks in ascending ID order.
func (u *pgxLedgerUnit) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := validIDs(accountIDs)
	found := make(map[string]domain.Account, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := u.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, queryFailed("lock accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, queryFailed("scan locked accounts", err)
	}
	for _, m := range ms {
		found[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return found, nil
}

func (u *pgxLedgerUnit) SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return sumSignedEntries(ctx, u.tx, accountID)
}

func (u *pgxLedgerUnit) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5);`
	if _, err := u.tx.Exec(ctx, query, m.TransactionID, m.Kind, m.Status, m.Description, m.CreatedAt); err != nil {
		return queryFailed("insert transaction "+m.TransactionID, err)
	}
	return nil
}

func (u *pgxLedgerUnit) InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `INSERT INTO ledger_entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := u.tx.Exec(ctx, query, m.EntryID, m.AccountID, m.TransactionID, m.EntryType, m.Amount, m.CreatedAt); err != nil {
		return queryFailed("insert ledger entry "+m.EntryID, err)
	}
	return nil
}

func (u *pgxLedgerUnit) Commit(ctx context.Context) error {
	u.done = true
	return u.base.Commit(ctx, u.tx)
}

// Rollback is a no-op once the unit has been committed or rolled back.
func (u *pgxLedgerUnit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.base.Rollback(ctx, u.tx)
}
