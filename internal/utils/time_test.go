package utils

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestParseDateRejectsUnpadded(t *testing.T) {
	if _, err := ParseDate("2024-1-05"); err == nil {
		t.Error("ParseDate should reject an unpadded month")
	}
	if _, err := ParseDate("2024-01-05"); err != nil {
		t.Errorf("ParseDate rejected a canonical date: %v", err)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-06-03", "2024-06-03"}, // Monday
		{"2024-06-05", "2024-06-03"}, // Wednesday
		{"2024-06-09", "2024-06-03"}, // Sunday
		{"2024-03-01", "2024-02-26"}, // crosses a month boundary
	}

	for _, tt := range tests {
		got := FormatDate(WeekStart(mustDate(t, tt.day)))
		if got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestAddDaysAcrossYear(t *testing.T) {
	got := FormatDate(AddDays(mustDate(t, "2023-12-31"), 1))
	if got != "2024-01-01" {
		t.Errorf("AddDays = %s, want 2024-01-01", got)
	}
}

func TestDayKeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	instant := time.Date(2024, 6, 1, 0, 30, 0, 0, loc)
	if got := FormatDate(Day(instant)); got != "2024-06-01" {
		t.Errorf("Day() = %s, want 2024-06-01", got)
	}
}

func TestMonthPrefixAndWeekday(t *testing.T) {
	if got := MonthPrefix(2024, time.January); got != "2024-01" {
		t.Errorf("MonthPrefix = %q", got)
	}
	if got := WeekdayAbbrev(mustDate(t, "2024-06-01")); got != "Sat" {
		t.Errorf("WeekdayAbbrev = %q, want Sat", got)
	}
}
