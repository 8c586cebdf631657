package models

// Note is free-form text attached to a calendar.
type Note struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description"`
	CalendarID  string    `json:"calendarId"`
	Calendar    *Calendar `json:"calendar,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

// GetID returns the note ID.
func (n Note) GetID() string { return n.ID }

// HasUnresolvedReferences reports whether a calendar or category id could not
// be matched against loaded data.
func (n Note) HasUnresolvedReferences() bool {
	return unresolved(n.CalendarID, n.Calendar, n.CategoryID, n.Category)
}

// NoteDTO is the wire form of a note.
type NoteDTO struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description"`
	CalendarID  string  `json:"calendarId"`
	CategoryID  *string `json:"categoryId,omitempty"`
}
