package mapper

import (
	"github.com/planner-dashboard/backend/internal/storage/models"
)

// CalendarToDTO converts a (possibly partial) calendar to wire form.
func CalendarToDTO(c models.Calendar) models.CalendarDTO {
	return models.CalendarDTO{
		ID:    c.ID,
		Name:  c.Name,
		Emoji: copyString(c.Emoji),
	}
}

// CalendarFromDTO converts a wire calendar to the domain model.
func CalendarFromDTO(dto models.CalendarDTO) models.Calendar {
	return models.Calendar{
		ID:    dto.ID,
		Name:  dto.Name,
		Emoji: copyString(dto.Emoji),
	}
}

// CategoryToDTO converts a (possibly partial) category to wire form.
func CategoryToDTO(c models.Category) models.CategoryDTO {
	return models.CategoryDTO{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
	}
}

// CategoryFromDTO converts a wire category to the domain model.
func CategoryFromDTO(dto models.CategoryDTO) models.Category {
	return models.Category{
		ID:    dto.ID,
		Name:  dto.Name,
		Color: dto.Color,
	}
}

// EventToDTO converts a (possibly partial) event to wire form.
// A missing recurring pattern is sent as NONE.
func EventToDTO(e models.Event) models.EventDTO {
	pattern := e.RecurringPattern
	if pattern == "" {
		pattern = models.RecurringNone
	}
	return models.EventDTO{
		ID:               e.ID,
		Name:             e.Name,
		Description:      copyString(e.Description),
		StartDate:        models.FormatTimestamp(e.StartDate),
		EndDate:          models.FormatTimestamp(e.EndDate),
		RecurringPattern: string(pattern),
		CalendarID:       calendarKey(e.Calendar, e.CalendarID),
		CategoryID:       categoryKey(e.Category, e.CategoryID),
	}
}

// EventFromDTO converts a wire event to the domain model, resolving its
// calendar and category through lookup.
func EventFromDTO(dto models.EventDTO, lookup Lookup) models.Event {
	start, _ := models.ParseTimestamp(dto.StartDate)
	end, _ := models.ParseTimestamp(dto.EndDate)
	categoryID := categoryKey(nil, dto.CategoryID)
	return models.Event{
		ID:               dto.ID,
		Name:             dto.Name,
		Description:      copyString(dto.Description),
		StartDate:        start,
		EndDate:          end,
		RecurringPattern: models.ParseRecurringPattern(dto.RecurringPattern),
		CalendarID:       dto.CalendarID,
		Calendar:         resolveCalendar(lookup, dto.CalendarID),
		CategoryID:       categoryID,
		Category:         resolveCategory(lookup, categoryID),
	}
}

// TaskToDTO converts a (possibly partial) task to wire form.
// A missing status is sent as TODO.
func TaskToDTO(t models.Task) models.TaskDTO {
	status := t.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	var pattern *string
	if t.RecurringPattern != "" {
		pattern = models.StringPtr(string(t.RecurringPattern))
	}
	return models.TaskDTO{
		ID:               t.ID,
		Name:             t.Name,
		Description:      copyString(t.Description),
		StartDate:        models.FormatTimestampPtr(t.StartDate),
		EndDate:          models.FormatTimestampPtr(t.EndDate),
		Status:           string(status),
		RecurringPattern: pattern,
		CalendarID:       calendarKey(t.Calendar, t.CalendarID),
		CategoryID:       categoryKey(t.Category, t.CategoryID),
	}
}

// TaskFromDTO converts a wire task to the domain model.
func TaskFromDTO(dto models.TaskDTO, lookup Lookup) models.Task {
	var pattern models.RecurringPattern
	if dto.RecurringPattern != nil {
		pattern = models.ParseRecurringPattern(*dto.RecurringPattern)
	}
	categoryID := categoryKey(nil, dto.CategoryID)
	return models.Task{
		ID:               dto.ID,
		Name:             dto.Name,
		Description:      copyString(dto.Description),
		StartDate:        models.ParseTimestampPtr(dto.StartDate),
		EndDate:          models.ParseTimestampPtr(dto.EndDate),
		Status:           models.ParseTaskStatus(dto.Status),
		RecurringPattern: pattern,
		CalendarID:       dto.CalendarID,
		Calendar:         resolveCalendar(lookup, dto.CalendarID),
		CategoryID:       categoryID,
		Category:         resolveCategory(lookup, categoryID),
	}
}

// NoteToDTO converts a (possibly partial) note to wire form.
func NoteToDTO(n models.Note) models.NoteDTO {
	return models.NoteDTO{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		CalendarID:  calendarKey(n.Calendar, n.CalendarID),
		CategoryID:  categoryKey(n.Category, n.CategoryID),
	}
}

// NoteFromDTO converts a wire note to the domain model.
func NoteFromDTO(dto models.NoteDTO, lookup Lookup) models.Note {
	categoryID := categoryKey(nil, dto.CategoryID)
	return models.Note{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		CalendarID:  dto.CalendarID,
		Calendar:    resolveCalendar(lookup, dto.CalendarID),
		CategoryID:  categoryID,
		Category:    resolveCategory(lookup, categoryID),
	}
}
