package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(day|week|month|year)s?`)

var hundred = decimal.NewFromInt(100)

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

type PlanDuration struct {
	Count int
	Unit  DurationUnit
}

// ParseDuration extracts the first "<count> <unit>" pair from s, e.g. "3 months".
func ParseDuration(s string) (PlanDuration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return PlanDuration{Unit: UnitDay}, NewError(ErrInvalidDurationFormat,
			fmt.Sprintf("duration %q has no quantity and unit", s), nil)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return PlanDuration{Unit: UnitDay}, NewError(ErrInvalidDurationFormat,
			fmt.Sprintf("duration %q has an out of range quantity", s), err)
	}
	return PlanDuration{Count: n, Unit: DurationUnit(strings.ToLower(m[2]))}, nil
}

// AddTo returns t moved forward by d. Month and year overflow normalise the
// way time.AddDate does (Jan 31 + 1 month = Mar 3).
func (d PlanDuration) AddTo(t time.Time) time.Time {
	switch d.Unit {
	case UnitWeek:
		return t.AddDate(0, 0, 7*d.Count)
	case UnitMonth:
		return t.AddDate(0, d.Count, 0)
	case UnitYear:
		return t.AddDate(d.Count, 0, 0)
	default:
		return t.AddDate(0, 0, d.Count)
	}
}

// PlanEndDate returns the start date plus the parsed duration. An unparseable
// duration yields the start date itself together with ErrInvalidDurationFormat.
//
// NOTE: treating an unparseable duration as zero-length makes the plan count as
// completed from its start date, so the lower completed-plan fee applies. This
// mirrors the behaviour of the existing back-office and may be unintended; a
// stricter policy would reject such plans at creation time. Do not change it
// without product confirmation.
func PlanEndDate(plan *SavingsPlan) (time.Time, error) {
	d, err := ParseDuration(plan.Duration)
	if err != nil {
		return plan.StartDate, err
	}
	return d.AddTo(plan.StartDate), nil
}

// IsPlanCompleted reports whether now has reached the plan's end date. The
// plan's Status field plays no part in this.
func IsPlanCompleted(plan *SavingsPlan, now time.Time) (bool, error) {
	end, err := PlanEndDate(plan)
	return !now.Before(end), err
}

// FeeRates are the two withdrawal fee rates as fractions in [0,1].
type FeeRates struct {
	Completed decimal.Decimal
	Broken    decimal.Decimal
}

// Rates converts stored percentages into fractions.
func (s *FeeSettings) Rates() FeeRates {
	return FeeRates{
		Completed: s.CompletedPlanFeePercentage.Div(hundred),
		Broken:    s.BrokenPlanFeePercentage.Div(hundred),
	}
}

// Validate checks both percentages lie in [0,100].
func (s *FeeSettings) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"completedPlanFeePercentage": s.CompletedPlanFeePercentage,
		"brokenPlanFeePercentage":    s.BrokenPlanFeePercentage,
	} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return NewError(ErrInvalidInput, fmt.Sprintf("%s must be between 0 and 100, got %s", name, v), nil)
		}
	}
	return nil
}

// FeePercentage returns the fee rate for a withdrawal from plan at now, and
// whether the plan counted as completed. The returned error is informational:
// on ErrInvalidDurationFormat the rate has still been chosen.
func FeePercentage(plan *SavingsPlan, now time.Time, rates FeeRates) (decimal.Decimal, bool, error) {
	completed, err := IsPlanCompleted(plan, now)
	if completed {
		return rates.Completed, true, err
	}
	return rates.Broken, false, err
}
