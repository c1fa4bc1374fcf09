package models

import "time"

// ScheduleType is the weekly pattern a group trains on.
type ScheduleType string

const (
	ScheduleMonWedFri ScheduleType = "mon_wed_fri"
	ScheduleTueThu    ScheduleType = "tue_thu"
)

var scheduleWeekdays = map[ScheduleType][]time.Weekday{
	ScheduleMonWedFri: {time.Monday, time.Wednesday, time.Friday},
	ScheduleTueThu:    {time.Tuesday, time.Thursday},
}

// Weekdays returns the training days of the pattern. Unknown patterns train on every weekday.
func (s ScheduleType) Weekdays() []time.Weekday {
	if days, ok := scheduleWeekdays[s]; ok {
		return days
	}
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

// DateOf truncates t to a calendar date in UTC, the form session dates are stored in.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns the first day of the month after t's (December rolls into January).
func NextMonthStart(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}
