package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalDetails struct {
	RequestedAmount      decimal.Decimal
	FeePercentage        decimal.Decimal
	Fee                  decimal.Decimal
	BalanceAfterFee      decimal.Decimal
	ActualAmountReceived decimal.Decimal
	TotalDeducted        decimal.Decimal
	RemainingBalance     decimal.Decimal
	MaxWithdrawable      decimal.Decimal
	HasSufficientFunds   bool
	IsPartialWithdrawal  bool
	IsPlanCompleted      bool
	InvalidDuration      bool
	EndDate              time.Time
}

// ValidateAmount rejects non-positive withdrawal amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewError(ErrInvalidAmount, fmt.Sprintf("amount must be greater than zero, got %s", amount), nil)
	}
	return nil
}

// Calculate works out what a withdrawal of requested from plan costs and pays.
//
// The fee is always charged on the requested amount. When the balance left
// after the fee cannot cover the request, the payout is clipped to that
// balance. Any withdrawal that is clipped or leaves a balance behind is flagged
// as partial, including an unclipped one that leaves a residual balance.
//
// When requested exceeds the balance, HasSufficientFunds is false and every
// money field except RemainingBalance and MaxWithdrawable is zero. plan is not
// modified.
func Calculate(plan *SavingsPlan, requested, feePercentage decimal.Decimal) (WithdrawalDetails, error) {
	if err := ValidateAmount(requested); err != nil {
		return WithdrawalDetails{}, err
	}

	d := WithdrawalDetails{
		RequestedAmount:  requested,
		FeePercentage:    feePercentage,
		MaxWithdrawable:  plan.ActualAmount,
		RemainingBalance: plan.ActualAmount,
	}

	d.HasSufficientFunds = requested.LessThanOrEqual(plan.ActualAmount)
	if !d.HasSufficientFunds {
		return d, nil
	}

	d.Fee = requested.Mul(feePercentage)
	d.BalanceAfterFee = plan.ActualAmount.Sub(d.Fee)
	d.ActualAmountReceived = decimal.Min(requested, d.BalanceAfterFee)
	d.TotalDeducted = d.Fee.Add(d.ActualAmountReceived)
	d.RemainingBalance = plan.ActualAmount.Sub(d.TotalDeducted)
	d.IsPartialWithdrawal = d.ActualAmountReceived.LessThan(requested) || d.RemainingBalance.IsPositive()

	return d, nil
}

// Quote applies the fee policy for plan at now and then calculates the
// withdrawal. An unparseable plan duration does not fail the quote; it is
// flagged with InvalidDuration so the caller can report it.
func Quote(plan *SavingsPlan, requested decimal.Decimal, rates FeeRates, now time.Time) (WithdrawalDetails, error) {
	pct, completed, durErr := FeePercentage(plan, now, rates)
	d, err := Calculate(plan, requested, pct)
	if err != nil {
		return d, err
	}
	d.IsPlanCompleted = completed
	d.InvalidDuration = durErr != nil
	d.EndDate, _ = PlanEndDate(plan)
	return d, nil
}

// InsufficientFundsError describes a request larger than the plan balance.
func InsufficientFundsError(plan *SavingsPlan, requested decimal.Decimal) error {
	return NewError(ErrInsufficientFunds,
		fmt.Sprintf("requesting ₦%s but only ₦%s is available", requested.StringFixed(2), plan.ActualAmount.StringFixed(2)), nil)
}
