// Package date provides calendar types with no time-of-day: a Date with day
// granularity and a Month used as an ordered period key.
//
// All values are interpreted at midnight UTC, so two equal dates always compare
// equal with ==.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
// Out of range values overflow like time.Date does: New(2025, 2, 30) is March 2nd.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Today returns the current date.
//
// Only command line entry points should call it, everything else receives "today" as a value.
func Today() Date { return New(time.Now().UTC().Date()) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format returns a textual representation of the date value formatted according to layout.
//
//	See the documentation for the [time.Format].
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// AddMonths returns the same day of the month, n months later.
// When that day does not exist in the target month it is clamped to the
// month's last day: 2024-01-31 plus one month is 2024-02-29.
func (d Date) AddMonths(n int) Date {
	target := d.YearMonth().Add(n)
	return target.Day(d.d)
}

// AddYears returns the same month and day, n years later, clamped like AddMonths.
// 2024-02-29 plus one year is 2025-02-28.
func (d Date) AddYears(n int) Date { return d.AddMonths(12 * n) }

// Sub returns the number of days from x to d (negative when d is before x).
func (d Date) Sub(x Date) int {
	return int(d.time().Sub(x.time()).Hours() / 24)
}

// YearMonth returns the calendar month containing d.
func (d Date) YearMonth() Month { return NewMonth(d.y, d.m) }

// EndOfMonth returns the last day of the month containing d.
func (d Date) EndOfMonth() Date { return New(d.y, d.m+1, 0) }

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int { return New(year, month+1, 0).d }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// ParseRelative parses a date typed by a user. Besides the ISO format it accepts
// "0d" for today and signed offsets like "-1d", "+2w", "-3m" or "+1y" counted from today.
func ParseRelative(str string, today Date) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" || str == "0d" {
		return today, nil
	}
	match := relativeDateRE.FindStringSubmatch(str)
	if match == nil {
		return Parse(str)
	}
	num, err := strconv.Atoi(match[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
	}
	if match[1] == "-" {
		num = -num
	}
	switch match[3] {
	case "d":
		return today.Add(num), nil
	case "w":
		return today.Add(7 * num), nil
	case "m":
		return today.AddMonths(num), nil
	default: // "y"
		return today.AddYears(num), nil
	}
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	on, err := Parse(str)
	if err != nil {
		return err
	}
	*d = on
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
