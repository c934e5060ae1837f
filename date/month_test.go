package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMonth_Components(t *testing.T) {
	testCases := []struct {
		year  int
		month time.Month
		str   string
	}{
		{2024, time.January, "2024-01"},
		{2024, time.December, "2024-12"},
		{1999, time.June, "1999-06"},
		{2025, 13, "2026-01"},
	}
	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			m := NewMonth(tc.year, tc.month)
			if m.String() != tc.str {
				t.Errorf("NewMonth(%d, %d).String() = %q, want %q", tc.year, tc.month, m.String(), tc.str)
			}
			if back := MustParseMonth(tc.str); back != m {
				t.Errorf("ParseMonth(%q) = %d, want %d", tc.str, back, m)
			}
		})
	}
}

func TestMonth_OrderAcrossYears(t *testing.T) {
	dec := MustParseMonth("2023-12")
	jan := MustParseMonth("2024-01")
	if !dec.Before(jan) || !jan.After(dec) {
		t.Errorf("2023-12 should be before 2024-01")
	}
	if dec.Next() != jan {
		t.Errorf("2023-12.Next() = %v, want 2024-01", dec.Next())
	}
	if jan.Add(-1) != dec {
		t.Errorf("2024-01.Add(-1) = %v, want 2023-12", jan.Add(-1))
	}
	// The packed key sorts like the calendar, a string compare of "2023-9" and "2023-10" would not.
	if !MustParseMonth("2023-09").Before(MustParseMonth("2023-10")) {
		t.Errorf("2023-09 should be before 2023-10")
	}
}

func TestMonth_Days(t *testing.T) {
	feb := MustParseMonth("2024-02")
	if got := feb.First(); got != MustParse("2024-02-01") {
		t.Errorf("First() = %v", got)
	}
	if got := feb.Last(); got != MustParse("2024-02-29") {
		t.Errorf("Last() = %v", got)
	}
	if got := feb.Day(31); got != MustParse("2024-02-29") {
		t.Errorf("Day(31) = %v, want clamped 2024-02-29", got)
	}
	if got := feb.Day(15); got != MustParse("2024-02-15") {
		t.Errorf("Day(15) = %v", got)
	}
	if got := feb.Name(); got != "February 2024" {
		t.Errorf("Name() = %q", got)
	}
}

func TestMonth_Zero(t *testing.T) {
	var m Month
	if !m.IsZero() || m.String() != "" {
		t.Errorf("zero month should be absent, got %q", m.String())
	}
	if !m.Before(MustParseMonth("0001-01")) {
		t.Errorf("zero month should sort before any real month")
	}
}

func TestMonth_JSON(t *testing.T) {
	var v struct {
		Last Month `json:"last"`
	}
	if err := json.Unmarshal([]byte(`{"last":"2024-01"}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Last != NewMonth(2024, time.January) {
		t.Errorf("Unmarshal = %v", v.Last)
	}
	if err := json.Unmarshal([]byte(`{"last":""}`), &v); err != nil {
		t.Fatalf("Unmarshal empty: %v", err)
	}
	if !v.Last.IsZero() {
		t.Errorf("empty string should decode to the zero month, got %v", v.Last)
	}
	if _, err := ParseMonth("2024-13"); err == nil {
		t.Error("ParseMonth(2024-13) expected an error")
	}
}
