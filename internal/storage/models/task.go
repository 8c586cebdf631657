package models

import "time"

// Task is a to-do item, optionally scheduled.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      TaskStatus `json:"status"`
	// RecurringPattern is empty when the task does not carry one.
	RecurringPattern RecurringPattern `json:"recurringPattern,omitempty"`
	CalendarID       string           `json:"calendarId"`
	Calendar         *Calendar        `json:"calendar,omitempty"`
	CategoryID       *string          `json:"categoryId,omitempty"`
	Category         *Category        `json:"category,omitempty"`
}

// GetID returns the task ID.
func (t Task) GetID() string { return t.ID }

// HasUnresolvedReferences reports whether a calendar or category id could not
// be matched against loaded data.
func (t Task) HasUnresolvedReferences() bool {
	return unresolved(t.CalendarID, t.Calendar, t.CategoryID, t.Category)
}

// TaskDTO is the wire form of a task.
type TaskDTO struct {
	ID               string  `json:"id,omitempty"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	StartDate        *string `json:"startDate,omitempty"`
	EndDate          *string `json:"endDate,omitempty"`
	Status           string  `json:"status"`
	RecurringPattern *string `json:"recurringPattern,omitempty"`
	CalendarID       string  `json:"calendarId"`
	CategoryID       *string `json:"categoryId,omitempty"`
}
