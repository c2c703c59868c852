package port

import (
	"context"
	"savingsadmin/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ApprovalResult struct {
	Withdrawal *domain.WithdrawalRequest
	Warnings   []string
}

type SyncResult struct {
	WithdrawalID uuid.UUID
	Status       domain.WithdrawalStatus
	Gateway      domain.TransferStatus
	Err          error
}

type WithdrawalService interface {
	QuoteWithdrawal(ctx context.Context, savingsID uuid.UUID, amount decimal.Decimal) (*domain.WithdrawalDetails, error)
	CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq, by domain.Principal) (*domain.WithdrawalRequest, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID, by domain.Principal) (*ApprovalResult, error)
	AuthorizeWithdrawal(ctx context.Context, id uuid.UUID, code string, by domain.Principal) (*domain.WithdrawalRequest, error)
	ResendOTP(ctx context.Context, id uuid.UUID, by domain.Principal) (string, error)
	DeclineWithdrawal(ctx context.Context, id uuid.UUID, reason string, by domain.Principal) (*domain.WithdrawalRequest, error)
	ReverseWithdrawal(ctx context.Context, id uuid.UUID, by domain.Principal) (*domain.WithdrawalRequest, error)
	RefreshTransfer(ctx context.Context, id uuid.UUID, by domain.Principal) (*SyncResult, error)
	SyncInitializedTransfers(ctx context.Context, by domain.Principal) ([]SyncResult, error)
}

type ContributionService interface {
	RecordContribution(ctx context.Context, req *domain.ContributionReq, by domain.Principal) (*domain.Transaction, error)
}

// SavingsService is the read side of savings plans and their ledger.
type SavingsService interface {
	ListActivePlans(ctx context.Context, userID string) ([]domain.SavingsPlan, error)
	ListTransactions(ctx context.Context, savingsID uuid.UUID) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

type FeeService interface {
	GetFeeSettings(ctx context.Context) (*domain.FeeSettings, error)
	UpdateFeeSettings(ctx context.Context, s *domain.FeeSettings, by domain.Principal) (*domain.FeeSettings, error)
}
