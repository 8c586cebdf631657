package models

import "time"

// Event is a scheduled calendar entry.
// CalendarID and CategoryID hold the raw foreign keys; Calendar and Category
// are nil while the referenced entity is not loaded.
type Event struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      *string          `json:"description,omitempty"`
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	RecurringPattern RecurringPattern `json:"recurringPattern"`
	CalendarID       string           `json:"calendarId"`
	Calendar         *Calendar        `json:"calendar,omitempty"`
	CategoryID       *string          `json:"categoryId,omitempty"`
	Category         *Category        `json:"category,omitempty"`
}

// GetID returns the event ID.
func (e Event) GetID() string { return e.ID }

// HasUnresolvedReferences reports whether a calendar or category id could not
// be matched against loaded data.
func (e Event) HasUnresolvedReferences() bool {
	return unresolved(e.CalendarID, e.Calendar, e.CategoryID, e.Category)
}

// EventDTO is the wire form of an event.
type EventDTO struct {
	ID               string  `json:"id,omitempty"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	RecurringPattern string  `json:"recurringPattern"`
	CalendarID       string  `json:"calendarId"`
	CategoryID       *string `json:"categoryId,omitempty"`
}

func unresolved(calendarID string, cal *Calendar, categoryID *string, cat *Category) bool {
	if calendarID != "" && cal == nil {
		return true
	}
	return categoryID != nil && *categoryID != "" && cat == nil
}
