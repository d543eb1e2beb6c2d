package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_service/internal/apperrors"
)

// SQLSTATE codes the repositories react to.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateCheckViolation       = "23514"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction at READ COMMITTED. Callers that need
// stronger guarantees take explicit row locks.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, classifyError(err, "failed to begin transaction")
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return classifyError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// classifyError wraps a driver error in an AppError whose chain also carries
// the matching apperrors sentinel, so services can use errors.Is.
func classifyError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return apperrors.NewAppError(503, msg, errors.Join(apperrors.ErrConflict, err))
		case sqlStateUniqueViolation:
			return apperrors.NewAppError(409, msg, errors.Join(apperrors.ErrDuplicate, err))
		case sqlStateForeignKeyViolation, sqlStateCheckViolation:
			return apperrors.NewAppError(400, msg, errors.Join(apperrors.ErrValidation, err))
		}
	}
	return apperrors.NewAppError(500, msg, err)
}

// validIDs keeps only the IDs that parse as UUIDs. Anything else cannot exist in
// a uuid column and would make PostgreSQL reject the whole statement.
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func isValidID(id string) bool {
	return len(validIDs([]string{id})) == 1
}

func queryFailed(what string, err error) error {
	return classifyError(err, fmt.Sprintf("failed to %s", what))
}
