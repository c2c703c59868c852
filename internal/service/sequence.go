package service

import (
	"errors"
	"fmt"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/logger"

	"github.com/google/uuid"
)

var knownKinds = []error{
	domain.ErrInvalidAmount,
	domain.ErrInsufficientFunds,
	domain.ErrInvalidTransition,
	domain.ErrInvalidInput,
	domain.ErrDuplicateRequest,
	domain.ErrWithdrawalNotFound,
	domain.ErrSavingsNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrIdempotencyKeyMismatch,
	domain.ErrStoreUnavailable,
	domain.ErrInconsistentState,
}

// storeErr passes domain errors through and classifies anything else coming
// out of a repository as ErrStoreUnavailable.
func storeErr(op string, err error) error {
	for _, kind := range knownKinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return domain.NewError(domain.ErrStoreUnavailable, op, err)
}

// gatewayErr keeps gateway authentication failures as they are and reports
// everything else as kind, preserving the provider message underneath.
func gatewayErr(kind error, reason string, err error) error {
	if errors.Is(err, domain.ErrGatewayAuth) {
		return err
	}
	return domain.NewError(kind, reason, err)
}

// sequence tracks the writes of one multi-entity operation. Writes are issued
// in order balance, transaction, withdrawal request; once any of them (or an
// external side effect) has happened, a later failure is escalated as
// ErrInconsistentState instead of being retried.
type sequence struct {
	op        string
	id        uuid.UUID
	completed []string
}

func newSequence(op string, id uuid.UUID) *sequence {
	return &sequence{op: op, id: id}
}

func (s *sequence) done(step string) {
	s.completed = append(s.completed, step)
}

func (s *sequence) fail(step string, err error) error {
	if len(s.completed) == 0 {
		return storeErr(step, err)
	}
	return s.inconsistent(step, err)
}

func (s *sequence) inconsistent(step string, err error) error {
	ie := &domain.InconsistentStateError{
		RequestID: s.id,
		Operation: s.op,
		Completed: append([]string(nil), s.completed...),
		Failed:    step,
		Err:       err,
	}
	logger.Error().
		Err(err).
		Str("operation", s.op).
		Str("request_id", s.id.String()).
		Strs("completed_steps", ie.Completed).
		Str("failed_step", step).
		Msg("multi-write sequence stopped part way, manual reconciliation required")
	return ie
}

func lockKey(id uuid.UUID) string {
	return "withdrawal:" + id.String()
}

func idempotencyLockKey(key string) string {
	return "withdrawal-key:" + key
}

func deductKey(idempotencyKey string) string {
	return fmt.Sprintf("withdrawal:%s:deduct", idempotencyKey)
}

func restoreKey(id uuid.UUID) string {
	return fmt.Sprintf("withdrawal:%s:restore", id)
}

var reversalNamespace = uuid.MustParse("8f2a3c1e-54b7-4d0e-9a66-0c3b1f7e2d45")

// reversalTransactionID is stable per withdrawal so a retried reversal can
// only ever produce one compensating credit.
func reversalTransactionID(id uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(reversalNamespace, []byte("reversal:"+id.String()))
}
