package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_service/internal/models"
	"github.com/SscSPs/ledger_service/internal/utils/mapping"
)

const accountColumns = `account_id, owner_name, account_type, currency_code, status, created_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.AccountID, m.OwnerName, m.AccountType, m.CurrencyCode, m.Status, m.CreatedAt)
	if err != nil {
		return queryFailed("save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if !isValidID(accountID) {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, queryFailed("find account by ID "+accountID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, queryFailed("scan account "+accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves a page of accounts, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at, account_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, queryFailed("list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, queryFailed("scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccountStatus changes the status of an account. The UPDATE takes the
// same row lock transfers do, so it waits for in-flight transfers.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	if !isValidID(accountID) {
		return apperrors.ErrNotFound
	}
	tag, err := r.Pool.Exec(ctx, `UPDATE accounts SET status = $2 WHERE account_id = $1;`, accountID, string(status))
	if err != nil {
		return queryFailed("update status of account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
