package port

import (
	"context"
	"savingsadmin/internal/domain"

	"github.com/google/uuid"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error)
	// ListAwaitingTransfer returns pending requests whose transfer is waiting
	// for authorization or settlement.
	ListAwaitingTransfer(ctx context.Context) ([]domain.WithdrawalRequest, error)
	// Update writes the mutable fields of w only while the stored status is
	// still expected, and fails with ErrInvalidTransition otherwise.
	Update(ctx context.Context, w *domain.WithdrawalRequest, expected domain.WithdrawalStatus) error
}

type SavingsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsPlan, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.SavingsPlan, error)
	// AdjustBalance applies adj atomically against the stored balance. A key
	// already applied returns false and changes nothing. A negative delta that
	// would take the balance below zero fails with ErrInsufficientFunds.
	AdjustBalance(ctx context.Context, adj domain.BalanceAdjustment) (bool, error)
	AdjustmentApplied(ctx context.Context, key string) (bool, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, gatewayRef string) error
	ListBySavings(ctx context.Context, savingsID uuid.UUID) ([]domain.Transaction, error)
}

type FeeSettingsRepository interface {
	// GetWithdrawalFees returns nil, nil when no settings were ever saved.
	GetWithdrawalFees(ctx context.Context) (*domain.FeeSettings, error)
	SaveWithdrawalFees(ctx context.Context, s *domain.FeeSettings) error
}

// Locker serialises work on one key across callers.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
