package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferError_IsMatchesOnlyItsKind(t *testing.T) {
	err := NewTransferError(KindInsufficientFunds, errors.New("balance 10 < 50"))

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.False(t, errors.Is(err, ErrStorageFailure))
	assert.False(t, errors.Is(err, ErrAccountNotFound))
	assert.Equal(t, "insufficient funds: balance 10 < 50", err.Error())
}

func TestTransferError_WrappedCauseStaysReachable(t *testing.T) {
	cause := NewAppError(500, "failed to commit transaction", ErrConflict)
	err := fmt.Errorf("transfer: %w", NewTransferError(KindStorageFailure, cause))

	assert.True(t, errors.Is(err, ErrStorageFailure))
	assert.True(t, errors.Is(err, ErrConflict))

	kind, ok := TransferKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindStorageFailure, kind)
	assert.Equal(t, "storage_failure", kind.String())
}

func TestTransferKindOf_NotATransferError(t *testing.T) {
	_, ok := TransferKindOf(ErrNotFound)
	assert.False(t, ok)
}

func TestTransferError_NilDetail(t *testing.T) {
	err := NewTransferError(KindSelfTransfer, nil)
	assert.Equal(t, ErrSelfTransfer.Error(), err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
