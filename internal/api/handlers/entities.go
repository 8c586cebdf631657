package handlers

import (
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/mapper"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/storage/models"
	"github.com/planner-dashboard/backend/internal/validate"
	"github.com/planner-dashboard/backend/internal/websocket"
)

// Each Normalize passes the DTO through the domain model so that dates and
// enums are stored in canonical form and the client's required-field rules
// hold on the server as well.

// CalendarResource serves /calendars.
func CalendarResource(db *storage.DB, events *websocket.EventBroadcaster, log *logger.Logger) *Resource[models.CalendarDTO] {
	return &Resource[models.CalendarDTO]{
		Name:  models.ResourceCalendars,
		Store: storage.NewCalendarRepository(db),
		Normalize: func(dto models.CalendarDTO) (models.CalendarDTO, error) {
			c := mapper.CalendarFromDTO(dto)
			if err := validate.Calendar(c); err != nil {
				return dto, err
			}
			return mapper.CalendarToDTO(c), nil
		},
		ID:     func(dto models.CalendarDTO) string { return dto.ID },
		SetID:  func(dto *models.CalendarDTO, id string) { dto.ID = id },
		Events: events,
		Log:    log,
	}
}

// CategoryResource serves /categories.
func CategoryResource(db *storage.DB, events *websocket.EventBroadcaster, log *logger.Logger) *Resource[models.CategoryDTO] {
	return &Resource[models.CategoryDTO]{
		Name:  models.ResourceCategories,
		Store: storage.NewCategoryRepository(db),
		Normalize: func(dto models.CategoryDTO) (models.CategoryDTO, error) {
			c := mapper.CategoryFromDTO(dto)
			if err := validate.Category(c); err != nil {
				return dto, err
			}
			return mapper.CategoryToDTO(c), nil
		},
		ID:     func(dto models.CategoryDTO) string { return dto.ID },
		SetID:  func(dto *models.CategoryDTO, id string) { dto.ID = id },
		Events: events,
		Log:    log,
	}
}

// EventResource serves /events.
func EventResource(db *storage.DB, events *websocket.EventBroadcaster, log *logger.Logger) *Resource[models.EventDTO] {
	return &Resource[models.EventDTO]{
		Name:  models.ResourceEvents,
		Store: storage.NewEventRepository(db),
		Normalize: func(dto models.EventDTO) (models.EventDTO, error) {
			e := mapper.EventFromDTO(dto, nil)
			if err := validate.Event(e); err != nil {
				return dto, err
			}
			return mapper.EventToDTO(e), nil
		},
		ID:     func(dto models.EventDTO) string { return dto.ID },
		SetID:  func(dto *models.EventDTO, id string) { dto.ID = id },
		Events: events,
		Log:    log,
	}
}

// TaskResource serves /tasks.
func TaskResource(db *storage.DB, events *websocket.EventBroadcaster, log *logger.Logger) *Resource[models.TaskDTO] {
	return &Resource[models.TaskDTO]{
		Name:  models.ResourceTasks,
		Store: storage.NewTaskRepository(db),
		Normalize: func(dto models.TaskDTO) (models.TaskDTO, error) {
			t := mapper.TaskFromDTO(dto, nil)
			if err := validate.Task(t); err != nil {
				return dto, err
			}
			return mapper.TaskToDTO(t), nil
		},
		ID:     func(dto models.TaskDTO) string { return dto.ID },
		SetID:  func(dto *models.TaskDTO, id string) { dto.ID = id },
		Events: events,
		Log:    log,
	}
}

// NoteResource serves /notes.
func NoteResource(db *storage.DB, events *websocket.EventBroadcaster, log *logger.Logger) *Resource[models.NoteDTO] {
	return &Resource[models.NoteDTO]{
		Name:  models.ResourceNotes,
		Store: storage.NewNoteRepository(db),
		Normalize: func(dto models.NoteDTO) (models.NoteDTO, error) {
			n := mapper.NoteFromDTO(dto, nil)
			if err := validate.Note(n); err != nil {
				return dto, err
			}
			return mapper.NoteToDTO(n), nil
		},
		ID:     func(dto models.NoteDTO) string { return dto.ID },
		SetID:  func(dto *models.NoteDTO, id string) { dto.ID = id },
		Events: events,
		Log:    log,
	}
}
