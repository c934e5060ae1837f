package cashbook

import (
	"testing"

	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

// rate is a helper for test to create a rate from a string.
func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// day is a short for date.MustParse.
func day(s string) date.Date { return date.MustParse(s) }

// month is a short for date.MustParseMonth.
func month(s string) date.Month { return date.MustParseMonth(s) }

// mustInvestment returns a validated investment with a fixed ID.
func mustInvestment(t *testing.T, id string, inv Investment) Investment {
	t.Helper()
	inv.ID = id
	tx, err := inv.Validate()
	if err != nil {
		t.Fatalf("invalid test investment: %v", err)
	}
	return tx.(Investment)
}

// stepped is the 5-year certificate with two step-downs used across tests.
func stepped(t *testing.T) Investment {
	return mustInvestment(t, "stepped", NewInvestment(day("2023-01-01"), "Stepped CD", USD(10000), rate("5"), 5,
		StepDown{YearTrigger: 2, NewRate: rate("4")},
		StepDown{YearTrigger: 4, NewRate: rate("3")},
	))
}

// yearly is the one-year 12000 @ 6% certificate starting mid-month.
func yearly(t *testing.T) Investment {
	return mustInvestment(t, "yearly", NewInvestment(day("2024-01-15"), "One Year CD", USD(12000), rate("6"), 1))
}
