package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	d := New(2025, time.September, 10) // a Wednesday
	testCases := []struct {
		period Period
		want   Range
	}{
		{Daily, Range{d, d}},
		{Weekly, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{Monthly, Range{New(2025, time.September, 1), New(2025, time.September, 30)}},
		{Quarterly, Range{New(2025, time.July, 1), New(2025, time.September, 30)}},
		{Yearly, Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := NewRange(d, tc.period); got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", d, tc.period, got, tc.want)
			}
		})
	}
}

func TestWeekStartsOnMonday(t *testing.T) {
	sunday := New(2025, time.September, 14)
	if got := sunday.StartOf(Weekly); got != New(2025, time.September, 8) {
		t.Errorf("StartOf(Weekly) for a Sunday = %v", got)
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{MustParse("2024-01-01"), MustParse("2024-01-31")}
	for _, in := range []string{"2024-01-01", "2024-01-15", "2024-01-31"} {
		if !r.Contains(MustParse(in)) {
			t.Errorf("%v should contain %s", r, in)
		}
	}
	for _, out := range []string{"2023-12-31", "2024-02-01"} {
		if r.Contains(MustParse(out)) {
			t.Errorf("%v should not contain %s", r, out)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	for _, in := range []string{"day", "Week", "monthly", "quarter", "YEAR"} {
		if _, err := ParsePeriod(in); err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod(fortnight) expected an error")
	}
}
