// Package errors defines the ledger's error taxonomy as typed values instead of
// bare strings, so callers can branch on what happened via the Is* helpers
// without string-matching messages.
//
// Pattern: Sentinel errors + typed error structs, composed with error wrapping.
package errors

import (
	"errors"
	"fmt"
)

// Category sentinels. Every typed error below wraps one of these, so a
// caller can use errors.Is against the category without knowing the
// concrete type, and errors.As to recover the structured detail.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	ErrTransient          = errors.New("transient failure")
	ErrInternal           = errors.New("internal invariant violation")
)

// InvalidArgumentError reports a caller-supplied value that can never
// succeed: a non-positive amount, an unknown asset code, a malformed
// identifier. No store write precedes this error.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument builds an InvalidArgumentError.
func NewInvalidArgument(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

// InsufficientFundsError reports that the source wallet's balance is below
// the requested amount. The store transaction that produced this has
// already been rolled back by the time this error surfaces.
type InsufficientFundsError struct {
	WalletID int64
	Balance  string
	Amount   string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: wallet %d has %s, requested %s", e.WalletID, e.Balance, e.Amount)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// NewInsufficientFunds builds an InsufficientFundsError.
func NewInsufficientFunds(walletID int64, balance, amount string) *InsufficientFundsError {
	return &InsufficientFundsError{WalletID: walletID, Balance: balance, Amount: amount}
}

// IdempotencyConflictError reports that the idempotency key is already
// claimed by a transaction that is not COMPLETED. Non-retryable for this key.
type IdempotencyConflictError struct {
	Key    string
	Status string
}

func (e *IdempotencyConflictError) Error() string {
	return fmt.Sprintf("idempotency conflict: key %q is %s", e.Key, e.Status)
}

func (e *IdempotencyConflictError) Unwrap() error { return ErrIdempotencyConflict }

// NewIdempotencyConflict builds an IdempotencyConflictError.
func NewIdempotencyConflict(key, status string) *IdempotencyConflictError {
	return &IdempotencyConflictError{Key: key, Status: status}
}

// TransientError reports a failure the caller may retry with the same
// idempotency key: lock-acquisition timeout, statement timeout, connection
// loss, or a deadlock the store itself detected.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransient) succeed without losing the wrapped cause.
func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// NewTransient builds a TransientError.
func NewTransient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// InternalError reports an invariant violated at runtime, e.g. a wallet row
// missing immediately after an insert-if-absent. Fatal at the operation
// level; the caller receives a generic failure.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// NewInternal builds an InternalError.
func NewInternal(op string, err error) *InternalError {
	return &InternalError{Op: op, Err: err}
}

// IsInvalidArgument reports whether err belongs to the InvalidArgument category.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsInsufficientFunds reports whether err belongs to the InsufficientFunds category.
func IsInsufficientFunds(err error) bool { return errors.Is(err, ErrInsufficientFunds) }

// IsIdempotencyConflict reports whether err belongs to the IdempotencyConflict category.
func IsIdempotencyConflict(err error) bool { return errors.Is(err, ErrIdempotencyConflict) }

// IsTransient reports whether err belongs to the Transient category.
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

// IsInternal reports whether err belongs to the Internal category.
func IsInternal(err error) bool { return errors.Is(err, ErrInternal) }
