package cashbook

import "testing"

func TestFullYearsElapsed(t *testing.T) {
	testCases := []struct {
		start, asOf string
		want        int
	}{
		{"2023-01-01", "2022-12-31", 0},
		{"2023-01-01", "2023-01-01", 0},
		{"2023-01-01", "2023-12-31", 0},
		// 365 days is less than an averaged year.
		{"2023-01-01", "2024-01-01", 0},
		{"2023-01-01", "2024-01-02", 1},
		{"2023-01-01", "2026-06-01", 3},
		{"2024-02-29", "2025-03-01", 1},
	}
	for _, tc := range testCases {
		t.Run(tc.start+"_"+tc.asOf, func(t *testing.T) {
			if got := FullYearsElapsed(day(tc.start), day(tc.asOf)); got != tc.want {
				t.Errorf("FullYearsElapsed(%s, %s) = %d, want %d", tc.start, tc.asOf, got, tc.want)
			}
		})
	}
}

func TestEffectiveRate(t *testing.T) {
	inv := stepped(t)
	testCases := []struct {
		asOf string
		want string
	}{
		{"2022-06-01", "5"}, // before start
		{"2023-01-01", "5"},
		{"2023-06-01", "5"},
		{"2024-01-01", "5"},
		{"2024-01-02", "4"},
		{"2024-06-01", "4"},
		{"2025-06-01", "4"},
		{"2026-06-01", "3"},
		{"2027-12-31", "3"},
	}
	for _, tc := range testCases {
		t.Run(tc.asOf, func(t *testing.T) {
			if got := EffectiveRate(inv, day(tc.asOf)); !got.Equal(rate(tc.want)) {
				t.Errorf("EffectiveRate(%s) = %s, want %s", tc.asOf, got, tc.want)
			}
		})
	}
}

func TestEffectiveRate_LastQualifyingStepWins(t *testing.T) {
	// Declared out of order on purpose: the schedule sorts by trigger.
	inv := NewInvestment(day("2020-01-01"), "CD", USD(1000), rate("5"), 5,
		StepDown{YearTrigger: 3, NewRate: rate("2")},
		StepDown{YearTrigger: 2, NewRate: rate("4")},
	)
	if got := EffectiveRate(inv, day("2023-06-01")); !got.Equal(rate("2")) {
		t.Errorf("EffectiveRate in year 4 = %s, want 2", got)
	}
	if got := EffectiveRate(inv, day("2021-06-01")); !got.Equal(rate("4")) {
		t.Errorf("EffectiveRate in year 2 = %s, want 4", got)
	}
}

func TestMonthlyIncome(t *testing.T) {
	got := monthlyIncome(USD(12000), rate("6"))
	if !got.Equal(USD(60)) {
		t.Errorf("monthlyIncome(12000, 6%%) = %s, want 60", got.Value())
	}
	// Unrounded until committed.
	got = monthlyIncome(USD(10000), rate("5"))
	if got.Value().Equal(got.Value().Round(2)) {
		t.Errorf("monthlyIncome(10000, 5%%) = %s, want more than two decimals", got.Value())
	}
}
