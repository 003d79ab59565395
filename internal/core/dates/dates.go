// Package dates holds the calendar arithmetic shared by the statistics
// engine and the HTTP layer. All helpers are pure and operate on the
// date's local calendar fields, never on the epoch, so a day key is the
// same day the user saw regardless of time zone.
package dates

import (
	"fmt"
	"time"
)

// DayKey is the canonical YYYY-MM-DD layout used to match completions
// to calendar days.
const DayKey = "2006-01-02"

// DefaultWeekStart is the week-start convention applied uniformly by
// the statistics engine.
const DefaultWeekStart = time.Monday

// DayNames indexed by DayOfWeek (Sunday = 0).
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Format renders a date as YYYY-MM-DD from its local calendar fields.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse is the inverse of Format. The result carries no location
// semantics beyond day granularity.
func Parse(s string) (time.Time, error) {
	return time.Parse(DayKey, s)
}

// Truncate drops the time-of-day component, keeping the local calendar
// day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Format(a) == Format(b)
}

// DayOfWeek returns the weekday with the Sunday = 0 convention.
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// DaysBetweenInclusive counts calendar days from start through end,
// inclusive. Returns 0 or a negative value when end precedes start;
// callers clamp as needed.
func DaysBetweenInclusive(start, end time.Time) int {
	s := Truncate(start)
	e := Truncate(end)

	days := 0
	if e.Before(s) {
		for d := e; d.Before(s); d = d.AddDate(0, 0, 1) {
			days--
		}
		return days
	}
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// WeekStart returns the first day of the week containing t, for the
// given week-start weekday.
func WeekStart(t time.Time, weekStartsOn time.Weekday) time.Time {
	d := Truncate(t)
	diff := (int(d.Weekday()) - int(weekStartsOn) + 7) % 7
	return d.AddDate(0, 0, -diff)
}

// MonthWeeks partitions a month into week buckets for the calendar
// grid: weeks 1-4 cover days 1-28, and days 29+ form a trailing
// partial bucket. Month is 1-12.
func MonthWeeks(year int, month time.Month) [][]time.Time {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var weeks [][]time.Time
	day := 1

	for w := 0; w < 4; w++ {
		var week []time.Time
		for i := 0; i < 7 && day <= daysInMonth; i++ {
			week = append(week, time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
			day++
		}
		weeks = append(weeks, week)
	}

	var extra []time.Time
	for ; day <= daysInMonth; day++ {
		extra = append(extra, time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	}
	if len(extra) > 0 {
		weeks = append(weeks, extra)
	}

	return weeks
}
