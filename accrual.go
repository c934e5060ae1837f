package cashbook

import "github.com/etnz/cashbook/date"

// CurrentMonthlyTotal estimates the monthly interest earned today by all
// certificates whose term is running (start <= today < term end), using the
// rate in force today. It ignores claims and is not rounded.
func CurrentMonthlyTotal(investments []Investment, today date.Date) Money {
	var total Money
	for _, inv := range investments {
		if today.Before(inv.Start()) || !today.Before(inv.TermEnd()) {
			continue
		}
		rate := EffectiveRate(inv, today)
		if !rate.IsPositive() {
			continue
		}
		total = total.Add(monthlyIncome(inv.Principal(), rate))
	}
	return total
}
