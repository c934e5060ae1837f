package cashbook

import (
	"cmp"
	"slices"

	"github.com/etnz/cashbook/date"
)

// Status tells whether a period can be claimed now or soon.
type Status int

const (
	// Due periods are payable on or before today.
	Due Status = iota + 1
	// Upcoming periods become payable later this month or next month.
	Upcoming
)

func (s Status) String() string {
	switch s {
	case Due:
		return "due"
	case Upcoming:
		return "upcoming"
	default:
		return "unknown"
	}
}

// ClaimableIncome is an unclaimed period worth showing on a given day.
type ClaimableIncome struct {
	Investment   Investment
	Period       Period
	Status       Status
	DaysUntilDue int // DaysUntilDue is only set for Upcoming periods.
}

// Classify decides whether period of inv is due or upcoming on today.
//
// It returns false when the period carries no income, is payable after the
// term end, or is payable later than next month. Claim state is not checked
// here, see Claimable.
func Classify(inv Investment, period Period, today date.Date) (ClaimableIncome, bool) {
	if !period.Income.IsPositive() {
		return ClaimableIncome{}, false
	}
	if period.Payable.After(inv.TermEnd()) {
		return ClaimableIncome{}, false
	}
	item := ClaimableIncome{Investment: inv, Period: period}
	if !today.Before(period.Payable) {
		item.Status = Due
		return item, true
	}
	payableMonth, thisMonth := period.Payable.YearMonth(), today.YearMonth()
	if payableMonth != thisMonth && payableMonth != thisMonth.Next() {
		return ClaimableIncome{}, false
	}
	item.Status = Upcoming
	item.DaysUntilDue = max(0, period.Payable.Sub(today))
	return item, true
}

// Claimable lists, across all investments, the unclaimed periods that are due
// or upcoming on today. Items are sorted by payable date, then investment ID,
// then period.
func Claimable(investments []Investment, today date.Date) []ClaimableIncome {
	var items []ClaimableIncome
	for _, inv := range investments {
		for p := range inv.Unclaimed() {
			if p.Payable.After(today) && p.Payable.YearMonth().After(today.YearMonth().Next()) {
				// Payable dates only grow from here.
				break
			}
			if item, ok := Classify(inv, p, today); ok {
				items = append(items, item)
			}
		}
	}
	slices.SortStableFunc(items, compareClaimable)
	return items
}

func compareClaimable(a, b ClaimableIncome) int {
	switch {
	case a.Period.Payable.Before(b.Period.Payable):
		return -1
	case a.Period.Payable.After(b.Period.Payable):
		return 1
	}
	if c := cmp.Compare(a.Investment.ID, b.Investment.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Period.ID, b.Period.ID)
}

// DueOnly keeps the Due items.
func DueOnly(items []ClaimableIncome) []ClaimableIncome {
	return slices.DeleteFunc(slices.Clone(items), func(c ClaimableIncome) bool { return c.Status != Due })
}
