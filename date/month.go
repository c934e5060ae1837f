package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the textual form of a Month.
const MonthFormat = "2006-01"

// Month identifies a calendar month. It is packed as year*12 + month so that
// months compare with the usual integer operators, across year boundaries too.
//
// The zero value means "no month".
type Month int

// NewMonth returns the Month for year and month, normalizing month overflow
// (month 13 is January of the next year).
func NewMonth(year int, month time.Month) Month {
	n := year*12 + int(month) - 1
	return Month(n + 1)
}

// ParseMonth parses a "YYYY-MM" month.
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse(MonthFormat, str)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q want format %q: %w", str, "YYYY-MM", err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// IsZero reports whether m is the absent month.
func (m Month) IsZero() bool { return m == 0 }

// Year returns the year of the month.
func (m Month) Year() int { return floorDiv(int(m)-1, 12) }

// Month returns the month of the year.
func (m Month) Month() time.Month { return time.Month(int(m)-1-12*m.Year()) + 1 }

// Add returns the month n months after m.
func (m Month) Add(n int) Month { return m + Month(n) }

// Next returns the month after m.
func (m Month) Next() Month { return m + 1 }

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m < x }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m > x }

// First returns the first day of the month.
func (m Month) First() Date { return Date{m.Year(), m.Month(), 1} }

// Last returns the last day of the month.
func (m Month) Last() Date { return Date{m.Year(), m.Month(), DaysIn(m.Year(), m.Month())} }

// Day returns the given day of the month, clamped to the month length.
func (m Month) Day(day int) Date {
	y, mm := m.Year(), m.Month()
	if n := DaysIn(y, mm); day > n {
		day = n
	}
	if day < 1 {
		day = 1
	}
	return Date{y, mm, day}
}

// String returns the "YYYY-MM" form, or "" for the zero month.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year(), m.Month())
}

// Name returns a human friendly form like "January 2024".
func (m Month) Name() string { return m.First().Format("January 2006") }

// UnmarshalJSON reads a "YYYY-MM" string, an empty string is the zero month.
func (m *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*m = 0
		return nil
	}
	v, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	str := m.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
