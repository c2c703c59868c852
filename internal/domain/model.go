package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	StatusPending  WithdrawalStatus = "pending"
	StatusApproved WithdrawalStatus = "approved"
	StatusDeclined WithdrawalStatus = "declined"
	StatusReversed WithdrawalStatus = "reversed"
)

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanPaused    PlanStatus = "paused"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

type SavingsPlan struct {
	ID              uuid.UUID
	UserID          string
	Name            string
	TargetAmount    decimal.Decimal
	ActualAmount    decimal.Decimal
	Frequency       string
	FrequencyAmount decimal.Decimal
	Duration        string // e.g. "3 months"
	StartDate       time.Time
	Status          PlanStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BankDestination struct {
	BankName      string
	AccountNumber string
	BankCode      string
}

type WithdrawalReq struct {
	IdempotencyKey string
	UserID         string
	SavingsID      uuid.UUID
	Amount         decimal.Decimal
	Destination    BankDestination
	Narration      string
}

type WithdrawalRequest struct {
	ID                      uuid.UUID
	IdempotencyKey          string
	UserID                  string
	SavingsID               uuid.UUID
	RequestedAmount         decimal.Decimal
	TotalDeductedAmount     decimal.Decimal
	TotalTransferableAmount decimal.Decimal
	Fee                     decimal.Decimal
	FeePercentage           decimal.Decimal
	Destination             BankDestination
	Narration               string
	IsPlanCompleted         bool
	IsPartialWithdrawal     bool
	IsInitialized           bool
	Status                  WithdrawalStatus
	TransferReference       string
	BulkReference           string
	FeeReference            string
	GatewayReference        string
	GatewayStatus           string
	TransactionID           uuid.UUID
	ApprovedBy              string
	DeclinedBy              string
	DeclineReason           string
	ReversedBy              string
	TransferCompletedAt     *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TransferStarted reports whether a transfer was ever initiated for w. Once it
// has, Approve may not initiate another one under the same reference.
func (w *WithdrawalRequest) TransferStarted() bool {
	return w.IsInitialized || w.GatewayStatus != ""
}

// TransferInFlight reports a pending request whose transfer the gateway
// accepted but has neither settled nor put on hold for authorization.
func (w *WithdrawalRequest) TransferInFlight() bool {
	return w.Status == StatusPending && !w.IsInitialized && w.GatewayStatus != "" &&
		!TransferStatus(w.GatewayStatus).IsFinal()
}

// Matches reports whether req repeats the payload this request was created from.
func (w *WithdrawalRequest) Matches(req *WithdrawalReq) bool {
	return w.UserID == req.UserID &&
		w.SavingsID == req.SavingsID &&
		w.RequestedAmount.Equal(req.Amount) &&
		w.Destination == req.Destination
}

type Transaction struct {
	ID               uuid.UUID
	UserID           string
	Type             TransactionType
	Amount           decimal.Decimal
	Status           TransactionStatus
	Description      string
	Reference        string
	SavingsID        uuid.UUID
	SavingsName      string
	Method           string
	GatewayReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BalanceAdjustment is a keyed change to a plan balance. A key is applied at
// most once.
type BalanceAdjustment struct {
	Key       string
	SavingsID uuid.UUID
	Delta     decimal.Decimal
}

// FeeSettings holds withdrawal fee rates as percentages in [0,100].
type FeeSettings struct {
	CompletedPlanFeePercentage decimal.Decimal
	BrokenPlanFeePercentage    decimal.Decimal
	UpdatedBy                  string
	UpdatedAt                  time.Time
}

// Principal is the authenticated admin acting on a request.
type Principal struct {
	ID    string
	Email string
}

func (p Principal) String() string {
	if p.Email != "" {
		return p.Email
	}
	return p.ID
}

type ContributionReq struct {
	UserID    string
	SavingsID uuid.UUID
	Amount    decimal.Decimal
	Reference string
	Method    string
}
