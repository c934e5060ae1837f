package cashbook

import "github.com/etnz/cashbook/date"

// Summary totals a list of records.
type Summary struct {
	TotalIncome      Money // TotalIncome sums Income records, claimed interest included.
	TotalExpenses    Money // TotalExpenses sums Expense records.
	TotalInvestments Money // TotalInvestments sums the principal of every investment.
	NetBalance       Money // NetBalance is TotalIncome - TotalExpenses, principals are not spent money.
	MonthlyInterest  Money // MonthlyInterest is CurrentMonthlyTotal on the summary day.
}

// Summarize totals txs and estimates the current monthly interest on today.
func Summarize(txs []Transaction, today date.Date) Summary {
	var s Summary
	var investments []Investment
	for _, tx := range txs {
		switch v := tx.(type) {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(v.Amount)
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(v.Amount)
		case Investment:
			s.TotalInvestments = s.TotalInvestments.Add(v.Amount)
			investments = append(investments, v)
		}
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	s.MonthlyInterest = CurrentMonthlyTotal(investments, today)
	return s
}
