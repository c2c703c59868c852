package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCalculate_CompletedPlanLeavesBalance(t *testing.T) {
	plan := &SavingsPlan{ActualAmount: d("100000")}

	res, err := Calculate(plan, d("50000"), d("0.1"))
	require.NoError(t, err)

	assert.True(t, res.HasSufficientFunds)
	assertDec(t, "5000", res.Fee, "fee")
	assertDec(t, "95000", res.BalanceAfterFee, "balanceAfterFee")
	assertDec(t, "50000", res.ActualAmountReceived, "actualAmountReceived")
	assertDec(t, "55000", res.TotalDeducted, "totalDeducted")
	assertDec(t, "45000", res.RemainingBalance, "remainingBalance")
	assert.True(t, res.IsPartialWithdrawal)
	assertDec(t, "100000", plan.ActualAmount, "plan balance")
}

func TestCalculate_BrokenPlanClipsPayout(t *testing.T) {
	plan := &SavingsPlan{ActualAmount: d("10000")}

	res, err := Calculate(plan, d("9000"), d("0.2"))
	require.NoError(t, err)

	assert.True(t, res.HasSufficientFunds)
	assertDec(t, "1800", res.Fee, "fee")
	assertDec(t, "8200", res.BalanceAfterFee, "balanceAfterFee")
	assertDec(t, "8200", res.ActualAmountReceived, "actualAmountReceived")
	assertDec(t, "10000", res.TotalDeducted, "totalDeducted")
	assertDec(t, "0", res.RemainingBalance, "remainingBalance")
	assert.True(t, res.IsPartialWithdrawal)
}

func TestCalculate_InsufficientFunds(t *testing.T) {
	plan := &SavingsPlan{ActualAmount: d("5000")}

	res, err := Calculate(plan, d("6000"), d("0.2"))
	require.NoError(t, err)

	assert.False(t, res.HasSufficientFunds)
	assert.False(t, res.IsPartialWithdrawal)
	assert.True(t, res.Fee.IsZero())
	assert.True(t, res.ActualAmountReceived.IsZero())
	assert.True(t, res.TotalDeducted.IsZero())
	assertDec(t, "5000", res.MaxWithdrawable, "maxWithdrawable")
	assertDec(t, "5000", res.RemainingBalance, "remainingBalance")
}

func TestCalculate_FullWithdrawalIsNotPartial(t *testing.T) {
	plan := &SavingsPlan{ActualAmount: d("1000")}

	res, err := Calculate(plan, d("1000"), d("0"))
	require.NoError(t, err)

	assertDec(t, "1000", res.ActualAmountReceived, "actualAmountReceived")
	assertDec(t, "0", res.RemainingBalance, "remainingBalance")
	assert.False(t, res.IsPartialWithdrawal)
}

func TestCalculate_RejectsNonPositiveAmount(t *testing.T) {
	plan := &SavingsPlan{ActualAmount: d("1000")}

	for _, amount := range []string{"0", "-1", "-0.01"} {
		_, err := Calculate(plan, d(amount), d("0.1"))
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}

func TestCalculate_Properties(t *testing.T) {
	rates := []string{"0", "0.05", "0.1", "0.2", "0.333", "1"}
	balances := []string{"0.01", "1", "999.99", "10000", "123456.78"}
	amounts := []string{"0.01", "0.5", "1", "500", "9000", "123456.78", "200000"}

	for _, b := range balances {
		for _, a := range amounts {
			for _, r := range rates {
				plan := &SavingsPlan{ActualAmount: d(b)}
				res, err := Calculate(plan, d(a), d(r))
				require.NoError(t, err)

				if !res.HasSufficientFunds {
					assert.True(t, d(a).GreaterThan(d(b)))
					assert.True(t, res.TotalDeducted.IsZero())
					continue
				}

				assert.True(t, res.TotalDeducted.LessThanOrEqual(plan.ActualAmount), "deducted within balance b=%s a=%s r=%s", b, a, r)
				assert.False(t, res.RemainingBalance.IsNegative())
				assert.True(t, res.ActualAmountReceived.LessThanOrEqual(d(a)))
				assert.True(t, res.TotalDeducted.Sub(res.Fee).Equal(res.ActualAmountReceived))
				assert.True(t, res.RemainingBalance.Add(res.TotalDeducted).Equal(plan.ActualAmount))
			}
		}
	}
}

func TestQuote_AppliesFeePolicy(t *testing.T) {
	rates := FeeRates{Completed: d("0.1"), Broken: d("0.2")}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	plan := &SavingsPlan{ActualAmount: d("10000"), StartDate: start, Duration: "6 months"}

	early, err := Quote(plan, d("1000"), rates, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, early.IsPlanCompleted)
	assertDec(t, "200", early.Fee, "early fee")
	assert.Equal(t, start.AddDate(0, 6, 0), early.EndDate)

	late, err := Quote(plan, d("1000"), rates, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.True(t, late.IsPlanCompleted)
	assertDec(t, "100", late.Fee, "completed fee")

	plan.Duration = "whenever"
	odd, err := Quote(plan, d("1000"), rates, start)
	require.NoError(t, err)
	assert.True(t, odd.InvalidDuration)
	assert.True(t, odd.IsPlanCompleted)
}

func TestInsufficientFundsError(t *testing.T) {
	err := InsufficientFundsError(&SavingsPlan{ActualAmount: d("5000")}, d("6000"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "requesting ₦6000.00 but only ₦5000.00 is available", Reason(err))
}
