// Package mapper converts between wire DTOs and domain models.
//
// ToDTO functions accept partially filled models and never fail. FromDTO
// functions resolve calendar and category ids through a Lookup; an id with no
// match leaves the embedded reference nil.
package mapper

import "github.com/planner-dashboard/backend/internal/storage/models"

// Lookup resolves foreign keys against currently loaded calendars and categories.
type Lookup interface {
	Calendar(id string) (models.Calendar, bool)
	Category(id string) (models.Category, bool)
}

// SliceLookup resolves references by scanning the given lists.
type SliceLookup struct {
	Calendars  []models.Calendar
	Categories []models.Category
}

// Calendar implements Lookup.
func (l SliceLookup) Calendar(id string) (models.Calendar, bool) {
	for _, c := range l.Calendars {
		if c.ID == id {
			return c, true
		}
	}
	return models.Calendar{}, false
}

// Category implements Lookup.
func (l SliceLookup) Category(id string) (models.Category, bool) {
	for _, c := range l.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Getter is satisfied by anything with an id index, such as a store repository.
type Getter[T any] interface {
	GetByID(id string) (T, bool)
}

// IndexLookup resolves references through indexed collections.
type IndexLookup struct {
	Calendars  Getter[models.Calendar]
	Categories Getter[models.Category]
}

// Calendar implements Lookup.
func (l IndexLookup) Calendar(id string) (models.Calendar, bool) {
	if l.Calendars == nil {
		return models.Calendar{}, false
	}
	return l.Calendars.GetByID(id)
}

// Category implements Lookup.
func (l IndexLookup) Category(id string) (models.Category, bool) {
	if l.Categories == nil {
		return models.Category{}, false
	}
	return l.Categories.GetByID(id)
}

func resolveCalendar(lookup Lookup, id string) *models.Calendar {
	if lookup == nil || id == "" {
		return nil
	}
	if c, ok := lookup.Calendar(id); ok {
		return &c
	}
	return nil
}

func resolveCategory(lookup Lookup, id *string) *models.Category {
	if lookup == nil || id == nil || *id == "" {
		return nil
	}
	if c, ok := lookup.Category(*id); ok {
		return &c
	}
	return nil
}

// calendarKey prefers the embedded calendar over the raw id.
func calendarKey(cal *models.Calendar, id string) string {
	if cal != nil && cal.ID != "" {
		return cal.ID
	}
	return id
}

func categoryKey(cat *models.Category, id *string) *string {
	if cat != nil && cat.ID != "" {
		return models.StringPtr(cat.ID)
	}
	if id == nil || *id == "" {
		return nil
	}
	return models.StringPtr(*id)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return models.StringPtr(*s)
}
