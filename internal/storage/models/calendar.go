// Package models contains the domain models and wire representations for the dashboard.
package models

// Calendar groups events, tasks and notes.
type Calendar struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Emoji *string `json:"emoji,omitempty"`
}

// GetID returns the calendar ID.
func (c Calendar) GetID() string { return c.ID }

// CalendarDTO is the wire form of a calendar.
type CalendarDTO struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Emoji *string `json:"emoji,omitempty"`
}

// Category is an optional, colored label for events, tasks and notes.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GetID returns the category ID.
func (c Category) GetID() string { return c.ID }

// CategoryDTO is the wire form of a category.
type CategoryDTO struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Resource paths, relative to /api/v1.
const (
	ResourceCalendars  = "calendars"
	ResourceCategories = "categories"
	ResourceEvents     = "events"
	ResourceTasks      = "tasks"
	ResourceNotes      = "notes"
)

// Resources lists every resource path in dependency order.
var Resources = []string{
	ResourceCalendars,
	ResourceCategories,
	ResourceEvents,
	ResourceTasks,
	ResourceNotes,
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
