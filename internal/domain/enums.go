package domain

import "time"

type SessionType string

const (
	SessionWork  SessionType = "work"
	SessionBreak SessionType = "break"
)

// TimerPhase is derived from TimerState flags; exactly one holds at a time.
type TimerPhase string

const (
	PhaseInactive TimerPhase = "inactive"
	PhasePaused   TimerPhase = "paused"
	PhaseRunning  TimerPhase = "running"
)

type ReminderType string

const (
	ReminderStudy      ReminderType = "study"
	ReminderExam       ReminderType = "exam"
	ReminderDeadline   ReminderType = "deadline"
	ReminderAssignment ReminderType = "assignment"
	ReminderClass      ReminderType = "class"
)

// ValidReminderTypes is the canonical set of accepted reminder type strings.
var ValidReminderTypes = map[ReminderType]bool{
	ReminderStudy: true, ReminderExam: true, ReminderDeadline: true,
	ReminderAssignment: true, ReminderClass: true,
}

type RecurrenceKind string

const (
	RecurNone    RecurrenceKind = "none"
	RecurDaily   RecurrenceKind = "daily"
	RecurWeekly  RecurrenceKind = "weekly"
	RecurMonthly RecurrenceKind = "monthly"
)

var validRecurrence = map[RecurrenceKind]bool{
	RecurNone: true, RecurDaily: true, RecurWeekly: true, RecurMonthly: true,
}

type GoalPeriod string

const (
	PeriodDaily  GoalPeriod = "daily"
	PeriodWeekly GoalPeriod = "weekly"
)

// ParseWeekday accepts "mon", "Monday" or "1" style values.
func ParseWeekday(s string) (time.Weekday, bool) {
	switch s {
	case "0", "sun", "sunday", "Sun", "Sunday":
		return time.Sunday, true
	case "1", "mon", "monday", "Mon", "Monday":
		return time.Monday, true
	case "2", "tue", "tuesday", "Tue", "Tuesday":
		return time.Tuesday, true
	case "3", "wed", "wednesday", "Wed", "Wednesday":
		return time.Wednesday, true
	case "4", "thu", "thursday", "Thu", "Thursday":
		return time.Thursday, true
	case "5", "fri", "friday", "Fri", "Friday":
		return time.Friday, true
	case "6", "sat", "saturday", "Sat", "Saturday":
		return time.Saturday, true
	}
	return 0, false
}
