package report

import (
	"time"

	"moneta/internal/core"
)

// PeriodRange returns the calendar-aligned [start, end] window containing
// now for a budget period. Weeks start on Sunday. This is deliberately
// different from DateWeek's rolling window: budgets account against
// calendar boundaries, ad-hoc list filters use windows relative to now.
func PeriodRange(p core.Period, now time.Time) (start, end time.Time) {
	loc := now.Location()
	switch p {
	case core.PeriodWeekly:
		day := startOfDay(now)
		start = day.AddDate(0, 0, -int(day.Weekday()))
		end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case core.PeriodYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default: // monthly
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}
	return start, end
}

// DayRange returns the [start, end] window covering the calendar day of t.
func DayRange(t time.Time) (start, end time.Time) {
	start = startOfDay(t)
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
