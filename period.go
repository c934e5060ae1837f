package cashbook

import (
	"iter"

	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// Period is one calendar month of interest for an investment.
type Period struct {
	ID      date.Month      // ID is the accrual month, exchanged as "YYYY-MM".
	End     date.Date       // End is the last day of the month.
	Payable date.Date       // Payable is the day the income can be claimed.
	Rate    decimal.Decimal // Rate is the annual rate in percent, evaluated at End.
	Income  Money           // Income is the unrounded monthly interest.
}

// PayableDate returns the day the income for period becomes claimable: the
// investment's anchor day (the day of month of its start date) in the following
// month, clamped to that month's length.
func (t Investment) PayableDate(period date.Month) date.Date {
	return period.Next().Day(t.Start().Day())
}

// Period computes the period with the given ID. It does not check that it
// belongs to the term, see Periods for that.
func (t Investment) Period(id date.Month) Period {
	end := id.Last()
	rate := EffectiveRate(t, end)
	return Period{
		ID:      id,
		End:     end,
		Payable: t.PayableDate(id),
		Rate:    rate,
		Income:  monthlyIncome(t.Principal(), rate),
	}
}

// Periods returns the income periods of the term in chronological order.
//
// The sequence starts with the month of the start date and stops before the
// first period payable after TermEnd. Payable dates strictly increase, so it
// holds at most TermYears*12 periods. It has no side effect and can be
// iterated any number of times.
func (t Investment) Periods() iter.Seq[Period] {
	return func(yield func(Period) bool) {
		if t.TermYears <= 0 {
			return
		}
		start, termEnd := t.Start(), t.TermEnd()
		for id := start.YearMonth(); !t.PayableDate(id).After(termEnd); id = id.Next() {
			if id.Last().Before(start) {
				continue
			}
			if !yield(t.Period(id)) {
				return
			}
		}
	}
}

// Unclaimed returns the periods after LastClaimed, in order.
func (t Investment) Unclaimed() iter.Seq[Period] {
	return func(yield func(Period) bool) {
		for p := range t.Periods() {
			if t.IsClaimed(p.ID) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// NextUnclaimed returns the first period that has not been claimed yet, or
// false when the whole term has been paid out.
func (t Investment) NextUnclaimed() (Period, bool) {
	for p := range t.Unclaimed() {
		return p, true
	}
	return Period{}, false
}
