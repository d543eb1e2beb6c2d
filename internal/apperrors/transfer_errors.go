package apperrors

import (
	"errors"
	"fmt"
)

// TransferErrorKind discriminates the ways a transfer can fail.
type TransferErrorKind int

const (
	// KindInvalidAmount: non-positive amount, or currency mismatch between the
	// request and either account.
	KindInvalidAmount TransferErrorKind = iota + 1
	// KindSelfTransfer: source and destination are the same account.
	KindSelfTransfer
	// KindAccountNotFound: either endpoint does not exist.
	KindAccountNotFound
	// KindAccountInactive: either endpoint exists but is not active.
	KindAccountInactive
	// KindInsufficientFunds: the source balance did not cover the amount.
	KindInsufficientFunds
	// KindStorageFailure: the unit of work could not be committed.
	KindStorageFailure
)

// Sentinels matched by errors.Is against a *TransferError of the same kind.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrSelfTransfer      = errors.New("source and destination accounts are identical")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is not active")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStorageFailure    = errors.New("storage failure")
)

var kindSentinels = map[TransferErrorKind]error{
	KindInvalidAmount:     ErrInvalidAmount,
	KindSelfTransfer:      ErrSelfTransfer,
	KindAccountNotFound:   ErrAccountNotFound,
	KindAccountInactive:   ErrAccountInactive,
	KindInsufficientFunds: ErrInsufficientFunds,
	KindStorageFailure:    ErrStorageFailure,
}

func (k TransferErrorKind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid_amount"
	case KindSelfTransfer:
		return "self_transfer"
	case KindAccountNotFound:
		return "account_not_found"
	case KindAccountInactive:
		return "account_inactive"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// TransferError is the only error type returned by the transfer engine.
type TransferError struct {
	Kind TransferErrorKind
	Err  error
}

// NewTransferError builds a TransferError. detail may be nil.
func NewTransferError(kind TransferErrorKind, detail error) *TransferError {
	return &TransferError{Kind: kind, Err: detail}
}

func (e *TransferError) Error() string {
	sentinel := kindSentinels[e.Kind]
	if sentinel == nil {
		sentinel = ErrInternal
	}
	if e.Err == nil {
		return sentinel.Error()
	}
	return fmt.Sprintf("%s: %v", sentinel, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *TransferError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// TransferKindOf extracts the kind from err, returning false if err is not a TransferError.
func TransferKindOf(err error) (TransferErrorKind, bool) {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}
