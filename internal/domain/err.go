package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidDurationFormat  = errors.New("invalid duration format")
	ErrGatewayAuth            = errors.New("gateway authentication failed")
	ErrTransferFailed         = errors.New("transfer failed")
	ErrAuthorizationFailed    = errors.New("transfer authorization failed")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInconsistentState      = errors.New("inconsistent state")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateRequest       = errors.New("duplicate request")
	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrSavingsNotFound        = errors.New("savings plan not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrIdempotencyKeyMismatch = errors.New("idempotency key mismatch")
	ErrUnauthorized           = errors.New("unauthorized")
)

// Error pairs an error kind with a reason fit for an operator and the raw
// provider or store error that caused it.
type Error struct {
	Kind   error
	Reason string
	Err    error
}

func NewError(kind error, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason returns the human-readable reason carried by err, falling back to
// the error text.
func Reason(err error) string {
	var ie *InconsistentStateError
	if errors.As(err, &ie) {
		return ie.reason()
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// InconsistentStateError reports a multi-write sequence that stopped part way.
// It is never retried automatically and needs manual reconciliation.
type InconsistentStateError struct {
	RequestID uuid.UUID
	Operation string
	Completed []string
	Failed    string
	Err       error
}

func (e *InconsistentStateError) reason() string {
	op := e.Operation
	if e.RequestID != uuid.Nil {
		op += " " + e.RequestID.String()
	}
	return fmt.Sprintf("%s stopped at %q after [%s]; manual reconciliation required",
		op, e.Failed, strings.Join(e.Completed, ", "))
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInconsistentState, e.reason(), e.Err)
}

func (e *InconsistentStateError) Is(target error) bool {
	return target == ErrInconsistentState
}

func (e *InconsistentStateError) Unwrap() error {
	return e.Err
}
