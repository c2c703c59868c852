package http

import (
	"time"

	"savingsadmin/internal/domain"
	"savingsadmin/internal/port"

	"github.com/shopspring/decimal"
)

type createWithdrawalRequest struct {
	IdempotencyKey string          `json:"idempotencyKey" validate:"omitempty,max=128"`
	UserID         string          `json:"userId" validate:"required"`
	SavingsID      string          `json:"savingsId" validate:"required,uuid"`
	Amount         decimal.Decimal `json:"amount"`
	BankName       string          `json:"bankName" validate:"required"`
	AccountNumber  string          `json:"accountNumber" validate:"required,numeric,min=6,max=20"`
	BankCode       string          `json:"bankCode" validate:"required"`
	Narration      string          `json:"narration" validate:"max=140"`
}

type quoteRequest struct {
	SavingsID string          `json:"savingsId" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
}

type authorizeRequest struct {
	AuthorizationCode string `json:"authorizationCode" validate:"required"`
}

type declineRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type contributionRequest struct {
	UserID    string          `json:"userId" validate:"required"`
	SavingsID string          `json:"savingsId" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" validate:"max=128"`
	Method    string          `json:"method" validate:"omitempty,oneof=cash bank transfer card"`
}

type feeSettingsRequest struct {
	CompletedPlanFeePercentage decimal.Decimal `json:"completedPlanFeePercentage"`
	BrokenPlanFeePercentage    decimal.Decimal `json:"brokenPlanFeePercentage"`
}

type withdrawalResponse struct {
	ID                      string          `json:"id"`
	UserID                  string          `json:"userId"`
	SavingsID               string          `json:"savingsId"`
	RequestedAmount         decimal.Decimal `json:"requestedAmount"`
	TotalDeductedAmount     decimal.Decimal `json:"totalDeductedAmount"`
	TotalTransferableAmount decimal.Decimal `json:"totalTransferableAmount"`
	Fee                     decimal.Decimal `json:"fee"`
	FeePercentage           decimal.Decimal `json:"feePercentage"`
	BankName                string          `json:"bankName"`
	AccountNumber           string          `json:"accountNumber"`
	BankCode                string          `json:"bankCode"`
	Narration               string          `json:"narration"`
	IsPlanCompleted         bool            `json:"isPlanCompleted"`
	IsPartialWithdrawal     bool            `json:"isPartialWithdrawal"`
	IsInitialized           bool            `json:"isInitialized"`
	Status                  string          `json:"status"`
	TransferReference       string          `json:"transferReference"`
	BulkReference           string          `json:"bulkReference"`
	FeeReference            string          `json:"feeReference"`
	GatewayReference        string          `json:"gatewayReference,omitempty"`
	GatewayStatus           string          `json:"gatewayStatus,omitempty"`
	TransactionID           string          `json:"transactionId"`
	ApprovedBy              string          `json:"approvedBy,omitempty"`
	DeclinedBy              string          `json:"declinedBy,omitempty"`
	DeclineReason           string          `json:"declineReason,omitempty"`
	ReversedBy              string          `json:"reversedBy,omitempty"`
	TransferCompletedAt     *time.Time      `json:"transferCompletedAt,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

func toWithdrawalResponse(w *domain.WithdrawalRequest) withdrawalResponse {
	return withdrawalResponse{
		ID:                      w.ID.String(),
		UserID:                  w.UserID,
		SavingsID:               w.SavingsID.String(),
		RequestedAmount:         w.RequestedAmount,
		TotalDeductedAmount:     w.TotalDeductedAmount,
		TotalTransferableAmount: w.TotalTransferableAmount,
		Fee:                     w.Fee,
		FeePercentage:           w.FeePercentage,
		BankName:                w.Destination.BankName,
		AccountNumber:           w.Destination.AccountNumber,
		BankCode:                w.Destination.BankCode,
		Narration:               w.Narration,
		IsPlanCompleted:         w.IsPlanCompleted,
		IsPartialWithdrawal:     w.IsPartialWithdrawal,
		IsInitialized:           w.IsInitialized,
		Status:                  string(w.Status),
		TransferReference:       w.TransferReference,
		BulkReference:           w.BulkReference,
		FeeReference:            w.FeeReference,
		GatewayReference:        w.GatewayReference,
		GatewayStatus:           w.GatewayStatus,
		TransactionID:           w.TransactionID.String(),
		ApprovedBy:              w.ApprovedBy,
		DeclinedBy:              w.DeclinedBy,
		DeclineReason:           w.DeclineReason,
		ReversedBy:              w.ReversedBy,
		TransferCompletedAt:     w.TransferCompletedAt,
		CreatedAt:               w.CreatedAt,
		UpdatedAt:               w.UpdatedAt,
	}
}

type approvalResponse struct {
	Withdrawal withdrawalResponse `json:"withdrawal"`
	Warnings   []string           `json:"warnings,omitempty"`
}

type quoteResponse struct {
	RequestedAmount      decimal.Decimal `json:"requestedAmount"`
	FeePercentage        decimal.Decimal `json:"feePercentage"`
	Fee                  decimal.Decimal `json:"fee"`
	BalanceAfterFee      decimal.Decimal `json:"balanceAfterFee"`
	ActualAmountReceived decimal.Decimal `json:"actualAmountReceived"`
	TotalDeducted        decimal.Decimal `json:"totalDeducted"`
	RemainingBalance     decimal.Decimal `json:"remainingBalance"`
	MaxWithdrawable      decimal.Decimal `json:"maxWithdrawable"`
	HasSufficientFunds   bool            `json:"hasSufficientFunds"`
	IsPartialWithdrawal  bool            `json:"isPartialWithdrawal"`
	IsPlanCompleted      bool            `json:"isPlanCompleted"`
	InvalidDuration      bool            `json:"invalidDuration,omitempty"`
	EndDate              time.Time       `json:"endDate"`
}

func toQuoteResponse(d *domain.WithdrawalDetails) quoteResponse {
	return quoteResponse{
		RequestedAmount:      d.RequestedAmount,
		FeePercentage:        d.FeePercentage,
		Fee:                  d.Fee,
		BalanceAfterFee:      d.BalanceAfterFee,
		ActualAmountReceived: d.ActualAmountReceived,
		TotalDeducted:        d.TotalDeducted,
		RemainingBalance:     d.RemainingBalance,
		MaxWithdrawable:      d.MaxWithdrawable,
		HasSufficientFunds:   d.HasSufficientFunds,
		IsPartialWithdrawal:  d.IsPartialWithdrawal,
		IsPlanCompleted:      d.IsPlanCompleted,
		InvalidDuration:      d.InvalidDuration,
		EndDate:              d.EndDate,
	}
}

type syncResultResponse struct {
	WithdrawalID  string `json:"withdrawalId"`
	Status        string `json:"status"`
	GatewayStatus string `json:"gatewayStatus,omitempty"`
	Error         string `json:"error,omitempty"`
}

func toSyncResultResponse(r port.SyncResult) syncResultResponse {
	resp := syncResultResponse{
		WithdrawalID:  r.WithdrawalID.String(),
		Status:        string(r.Status),
		GatewayStatus: string(r.Gateway),
	}
	if r.Err != nil {
		resp.Error = domain.Reason(r.Err)
	}
	return resp
}

type savingsPlanResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	Frequency       string          `json:"frequency"`
	FrequencyAmount decimal.Decimal `json:"frequencyAmount"`
	Duration        string          `json:"duration"`
	StartDate       time.Time       `json:"startDate"`
	Status          string          `json:"status"`
}

func toSavingsPlanResponse(p *domain.SavingsPlan) savingsPlanResponse {
	return savingsPlanResponse{
		ID:              p.ID.String(),
		UserID:          p.UserID,
		Name:            p.Name,
		TargetAmount:    p.TargetAmount,
		ActualAmount:    p.ActualAmount,
		Frequency:       p.Frequency,
		FrequencyAmount: p.FrequencyAmount,
		Duration:        p.Duration,
		StartDate:       p.StartDate,
		Status:          string(p.Status),
	}
}

type transactionResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	SavingsID   string          `json:"savingsId"`
	SavingsName string          `json:"savingsName"`
	Method      string          `json:"method"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Status:      string(t.Status),
		Description: t.Description,
		Reference:   t.Reference,
		SavingsID:   t.SavingsID.String(),
		SavingsName: t.SavingsName,
		Method:      t.Method,
		CreatedAt:   t.CreatedAt,
	}
}

type feeSettingsResponse struct {
	CompletedPlanFeePercentage decimal.Decimal `json:"completedPlanFeePercentage"`
	BrokenPlanFeePercentage    decimal.Decimal `json:"brokenPlanFeePercentage"`
	UpdatedBy                  string          `json:"updatedBy,omitempty"`
	UpdatedAt                  *time.Time      `json:"updatedAt,omitempty"`
}

func toFeeSettingsResponse(s *domain.FeeSettings) feeSettingsResponse {
	resp := feeSettingsResponse{
		CompletedPlanFeePercentage: s.CompletedPlanFeePercentage,
		BrokenPlanFeePercentage:    s.BrokenPlanFeePercentage,
		UpdatedBy:                  s.UpdatedBy,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

type bankResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
