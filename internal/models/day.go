package models

import "strings"

// DayOfWeek names a weekday on the routine.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "Sunday"
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
)

var days = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// The academic week starts on Saturday.
var weekOrder = []DayOfWeek{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

// Days returns the weekday enumeration.
func Days() []DayOfWeek {
	out := make([]DayOfWeek, len(days))
	copy(out, days)
	return out
}

// WeekOrder returns weekdays in grid order, Saturday through Friday.
func WeekOrder() []DayOfWeek {
	out := make([]DayOfWeek, len(weekOrder))
	copy(out, weekOrder)
	return out
}

// Valid reports whether d is one of the seven weekdays.
func (d DayOfWeek) Valid() bool {
	for _, day := range days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseDay resolves a weekday name case-insensitively.
func ParseDay(raw string) (DayOfWeek, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, day := range days {
		if strings.EqualFold(string(day), trimmed) {
			return day, true
		}
	}
	return "", false
}
