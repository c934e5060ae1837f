package cashbook

import (
	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// FullYearsElapsed returns the number of whole years between start and asOf,
// counting a year as 365.25 days. It is 0 when asOf is before start.
//
// The averaged year shifts a step-down by up to a day around anniversaries:
// 2023-01-01 to 2024-01-01 is 365 days, which is not yet a full year.
func FullYearsElapsed(start, asOf date.Date) int {
	days := asOf.Sub(start)
	if days < 0 {
		return 0
	}
	// floor(days / 365.25) without floating point.
	return days * 4 / 1461
}

// EffectiveRate returns the annual rate in percent that applies to inv on asOf.
//
// A step-down with YearTrigger N applies from the start of contract year N,
// i.e. as soon as N-1 full years have elapsed. When several step-downs
// qualify, the one with the largest trigger wins.
func EffectiveRate(inv Investment, asOf date.Date) decimal.Decimal {
	if asOf.Before(inv.Start()) {
		return inv.InitialRate
	}
	contractYear := FullYearsElapsed(inv.Start(), asOf) + 1
	rate := inv.InitialRate
	for _, step := range sortedStepDowns(inv.StepDowns) {
		if contractYear >= step.YearTrigger {
			rate = step.NewRate
		}
	}
	return rate
}

// monthlyIncome returns principal * rate/100 / 12, unrounded.
func monthlyIncome(principal Money, rate decimal.Decimal) Money {
	return principal.Mul(rate).Div(hundred).Div(twelve)
}
