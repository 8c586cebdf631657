package models

import "strings"

// RecurringPattern describes how an event or task repeats.
type RecurringPattern string

// RecurringPattern values
const (
	RecurringNone    RecurringPattern = "NONE"
	RecurringDaily   RecurringPattern = "DAILY"
	RecurringWeekly  RecurringPattern = "WEEKLY"
	RecurringMonthly RecurringPattern = "MONTHLY"
	RecurringYearly  RecurringPattern = "YEARLY"
)

// ParseRecurringPattern maps a wire value onto the closed enumeration.
// Unknown values map to RecurringNone.
func ParseRecurringPattern(s string) RecurringPattern {
	switch p := RecurringPattern(strings.ToUpper(strings.TrimSpace(s))); p {
	case RecurringNone, RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return p
	default:
		return RecurringNone
	}
}

// Valid reports whether p is one of the known patterns.
func (p RecurringPattern) Valid() bool {
	return ParseRecurringPattern(string(p)) == p
}

// TaskStatus is the progress state of a task.
type TaskStatus string

// TaskStatus values
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ParseTaskStatus maps a wire value onto the closed enumeration.
// Unknown values map to TaskStatusTodo.
func ParseTaskStatus(s string) TaskStatus {
	switch st := TaskStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return st
	default:
		return TaskStatusTodo
	}
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return ParseTaskStatus(string(s)) == s
}
