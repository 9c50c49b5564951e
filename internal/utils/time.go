package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
)

// Dates are naive calendar days. Every helper here works in UTC so that
// adding days never crosses a DST transition.

// ParseDate parses a date string (YYYY-MM-DD). Only the zero-padded form
// is accepted, so the stored text always sorts and prefix-matches correctly.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(constants.DateFormat) != dateStr {
		return time.Time{}, fmt.Errorf("date %q is not in canonical YYYY-MM-DD form", dateStr)
	}
	return t, nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Day truncates a wall-clock instant to its calendar day at UTC midnight,
// keeping the local year, month and day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a calendar day by n days.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// DaysInMonth returns the length of the month, accounting for leap years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekStart returns the Monday on or before day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return AddDays(day, -offset)
}

// WeekdayAbbrev returns the three-letter weekday name ("Mon", "Tue", ...).
func WeekdayAbbrev(day time.Time) string {
	return day.Weekday().String()[:3]
}

// MonthPrefix returns the zero-padded YYYY-MM prefix shared by every date of the month.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}
