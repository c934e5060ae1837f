package cashbook

import (
	"testing"

	"github.com/etnz/cashbook/date"
)

func TestInvestment_Validate(t *testing.T) {
	valid := func() Investment {
		return NewInvestment(day("2023-01-01"), "CD", USD(10000), rate("5"), 5)
	}
	testCases := []struct {
		name    string
		modify  func(*Investment)
		wantErr bool
	}{
		{"valid", func(*Investment) {}, false},
		{"valid step-downs", func(i *Investment) {
			i.StepDowns = []StepDown{{4, rate("3")}, {2, rate("4")}}
		}, false},
		{"zero term", func(i *Investment) { i.TermYears = 0 }, true},
		{"zero rate", func(i *Investment) { i.InitialRate = rate("0") }, true},
		{"negative principal", func(i *Investment) { i.Amount = USD(-1) }, true},
		{"no certificate", func(i *Investment) { i.Certificate = ""; i.Description = "" }, true},
		{"unknown currency", func(i *Investment) { i.Amount = M(100, "XYZ") }, true},
		{"step-down in year 1", func(i *Investment) { i.StepDowns = []StepDown{{1, rate("4")}} }, true},
		{"step-down after term", func(i *Investment) { i.StepDowns = []StepDown{{6, rate("4")}} }, true},
		{"step-down on last year", func(i *Investment) { i.StepDowns = []StepDown{{5, rate("4")}} }, false},
		{"step-down to zero", func(i *Investment) { i.StepDowns = []StepDown{{2, rate("0")}} }, true},
		{"duplicate step-down", func(i *Investment) {
			i.StepDowns = []StepDown{{2, rate("4")}, {2, rate("3")}}
		}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inv := valid()
			tc.modify(&inv)
			tx, err := inv.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			got := tx.(Investment)
			if got.ID == "" {
				t.Error("Validate() did not assign an ID")
			}
			for i := 1; i < len(got.StepDowns); i++ {
				if got.StepDowns[i-1].YearTrigger > got.StepDowns[i].YearTrigger {
					t.Errorf("step-downs not sorted: %v", got.StepDowns)
				}
			}
		})
	}
}

func TestIncomeExpense_Validate(t *testing.T) {
	interest := func(amount Money) Income {
		income := NewIncome(day("2024-02-15"), "Monthly income", amount, "Investment: Tiny CD")
		income.Investment = "tiny"
		return income
	}
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{"income", NewIncome(day("2024-01-01"), "Salary", USD(100), ""), false},
		{"income without description", NewIncome(day("2024-01-01"), " ", USD(100), ""), true},
		{"income without date", NewIncome(date.Date{}, "Salary", USD(100), ""), true},
		{"income zero", NewIncome(day("2024-01-01"), "Salary", USD(0), ""), true},
		{"income without currency", NewIncome(day("2024-01-01"), "Salary", NO(100), ""), true},
		{"interest rounded to zero", interest(USD(0)), false},
		{"negative interest", interest(USD(-1)), true},
		{"expense", NewExpense(day("2024-01-01"), "Rent", USD(100), "Housing"), false},
		{"expense without category", NewExpense(day("2024-01-01"), "Rent", USD(100), ""), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tx.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestInvestment_TermEnd(t *testing.T) {
	testCases := []struct {
		start string
		years int
		want  string
	}{
		{"2024-01-15", 1, "2025-01-15"},
		{"2023-01-01", 5, "2028-01-01"},
		{"2024-02-29", 1, "2025-02-28"},
		{"2024-02-29", 4, "2028-02-29"},
	}
	for _, tc := range testCases {
		inv := NewInvestment(day(tc.start), "CD", USD(1), rate("1"), tc.years)
		if got := inv.TermEnd(); got != day(tc.want) {
			t.Errorf("TermEnd(%s + %dy) = %s, want %s", tc.start, tc.years, got, tc.want)
		}
	}
}
