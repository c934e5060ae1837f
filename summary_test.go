package cashbook

import "testing"

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		NewIncome(day("2024-01-10"), "Salary", USD(2500), "Employer"),
		NewIncome(day("2024-02-15"), "Monthly income", USD(60), "Investment: CD"),
		NewExpense(day("2024-01-11"), "Rent", USD(900), "Housing"),
		yearly(t),
	}
	s := Summarize(txs, day("2024-03-01"))

	for _, tc := range []struct {
		name string
		got  Money
		want Money
	}{
		{"TotalIncome", s.TotalIncome, USD(2560)},
		{"TotalExpenses", s.TotalExpenses, USD(900)},
		{"TotalInvestments", s.TotalInvestments, USD(12000)},
		{"NetBalance", s.NetBalance, USD(1660)},
		{"MonthlyInterest", s.MonthlyInterest, USD(60)},
	} {
		if !tc.got.Equal(tc.want) {
			t.Errorf("%s = %s, want %s", tc.name, tc.got, tc.want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, day("2024-03-01"))
	if !s.NetBalance.IsZero() || !s.MonthlyInterest.IsZero() {
		t.Errorf("empty summary = %+v, want zeros", s)
	}
}
