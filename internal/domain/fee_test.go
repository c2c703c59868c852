package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in    string
		count int
		unit  DurationUnit
		err   bool
	}{
		{"3 months", 3, UnitMonth, false},
		{"1 year", 1, UnitYear, false},
		{"12weeks", 12, UnitWeek, false},
		{"30 Days", 30, UnitDay, false},
		{"save for 6 MONTHS please", 6, UnitMonth, false},
		{"forever", 0, UnitDay, true},
		{"", 0, UnitDay, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDuration(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidDurationFormat)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.count, d.Count)
			assert.Equal(t, tt.unit, d.Unit)
		})
	}
}

func TestPlanEndDate_CalendarArithmetic(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	end, err := PlanEndDate(&SavingsPlan{StartDate: start, Duration: "1 month"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), end)

	end, err = PlanEndDate(&SavingsPlan{StartDate: start, Duration: "2 weeks"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC), end)
}

func TestIsPlanCompleted(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	plan := &SavingsPlan{StartDate: start, Duration: "3 months", Status: PlanActive}

	done, err := IsPlanCompleted(plan, start.AddDate(0, 3, 0).Add(-time.Second))
	assert.NoError(t, err)
	assert.False(t, done)

	done, err = IsPlanCompleted(plan, start.AddDate(0, 3, 0))
	assert.NoError(t, err)
	assert.True(t, done)

	// status plays no part
	plan.Status = PlanCompleted
	done, _ = IsPlanCompleted(plan, start)
	assert.False(t, done)
}

func TestIsPlanCompleted_UnparseableDurationCountsAsCompleted(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	plan := &SavingsPlan{StartDate: start, Duration: "until I decide"}

	done, err := IsPlanCompleted(plan, start)
	assert.ErrorIs(t, err, ErrInvalidDurationFormat)
	assert.True(t, done)
}

func TestFeePercentage(t *testing.T) {
	rates := FeeRates{Completed: decimal.RequireFromString("0.1"), Broken: decimal.RequireFromString("0.2")}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	plan := &SavingsPlan{StartDate: start, Duration: "1 year"}

	pct, completed, err := FeePercentage(plan, start.AddDate(0, 6, 0), rates)
	assert.NoError(t, err)
	assert.False(t, completed)
	assert.True(t, rates.Broken.Equal(pct))

	pct, completed, err = FeePercentage(plan, start.AddDate(1, 0, 0), rates)
	assert.NoError(t, err)
	assert.True(t, completed)
	assert.True(t, rates.Completed.Equal(pct))
}

func TestFeeSettings_RatesAndValidate(t *testing.T) {
	s := &FeeSettings{
		CompletedPlanFeePercentage: decimal.NewFromInt(10),
		BrokenPlanFeePercentage:    decimal.RequireFromString("12.5"),
	}
	require.NoError(t, s.Validate())

	rates := s.Rates()
	assert.True(t, decimal.RequireFromString("0.1").Equal(rates.Completed))
	assert.True(t, decimal.RequireFromString("0.125").Equal(rates.Broken))

	s.BrokenPlanFeePercentage = decimal.NewFromInt(101)
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s.BrokenPlanFeePercentage = decimal.NewFromInt(-1)
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}
