package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/micromind/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// DateIn returns the calendar date (YYYY-MM-DD) of t in loc.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return t, nil
}

// ValidateDate reports whether date is a valid YYYY-MM-DD calendar date.
func ValidateDate(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// LongDate renders a YYYY-MM-DD date as "Monday, January 1, 2024". Invalid
// input is returned unchanged.
func LongDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(constants.LongDateFormat)
}

// RelativeDay labels date as "Today", "Yesterday" or "Monday, Jan 1"
// relative to today.
func RelativeDay(date, today string) string {
	if date == today {
		return "Today"
	}
	if yesterday, err := AddDays(today, -1); err == nil && date == yesterday {
		return "Yesterday"
	}
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, Jan 2")
}
