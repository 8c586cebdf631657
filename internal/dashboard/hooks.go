package dashboard

import (
	"context"
	"time"

	"github.com/planner-dashboard/backend/internal/crud"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

// CalendarHook exposes calendar operations to the view layer.
type CalendarHook struct {
	o *crud.Orchestrator[models.Calendar, models.CalendarDTO]
}

// Calendars returns the calendar hook.
func (d *Dashboard) Calendars() CalendarHook { return CalendarHook{o: d.calendars} }

// Calendars returns the cached calendars.
func (h CalendarHook) Calendars() []models.Calendar { return h.o.All() }

// Calendar returns the cached calendar with the given id.
func (h CalendarHook) Calendar(id string) (models.Calendar, bool) { return h.o.Get(id) }

// ReloadCalendars replaces the cached calendars with the server's list.
func (h CalendarHook) ReloadCalendars(ctx context.Context) error { return h.o.Reload(ctx) }

// DeleteCalendar deletes the calendar on the server, then drops it from the cache.
func (h CalendarHook) DeleteCalendar(ctx context.Context, id string) error {
	return h.o.Remove(ctx, id)
}

// AddCalendar validates and creates c, caching the server's copy.
func (h CalendarHook) AddCalendar(ctx context.Context, c models.Calendar) (models.Calendar, error) {
	return h.o.Add(ctx, c)
}

// UpdateCalendar validates and saves c, caching the server's copy.
func (h CalendarHook) UpdateCalendar(ctx context.Context, c models.Calendar) (models.Calendar, error) {
	return h.o.Update(ctx, c)
}

// CategoryHook exposes category operations to the view layer.
type CategoryHook struct {
	o *crud.Orchestrator[models.Category, models.CategoryDTO]
}

// Categories returns the category hook.
func (d *Dashboard) Categories() CategoryHook { return CategoryHook{o: d.categories} }

// Categories returns the cached categories.
func (h CategoryHook) Categories() []models.Category { return h.o.All() }

// Category returns the cached category with the given id.
func (h CategoryHook) Category(id string) (models.Category, bool) { return h.o.Get(id) }

// ReloadCategories replaces the cached categories with the server's list.
func (h CategoryHook) ReloadCategories(ctx context.Context) error { return h.o.Reload(ctx) }

// DeleteCategory deletes the category on the server, then drops it from the cache.
func (h CategoryHook) DeleteCategory(ctx context.Context, id string) error {
	return h.o.Remove(ctx, id)
}

// AddCategory validates and creates c, caching the server's copy.
func (h CategoryHook) AddCategory(ctx context.Context, c models.Category) (models.Category, error) {
	return h.o.Add(ctx, c)
}

// UpdateCategory validates and saves c, caching the server's copy.
func (h CategoryHook) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	return h.o.Update(ctx, c)
}

// EventHook exposes event operations to the view layer.
type EventHook struct {
	o *crud.Orchestrator[models.Event, models.EventDTO]
}

// Events returns the event hook.
func (d *Dashboard) Events() EventHook { return EventHook{o: d.events} }

// Events returns the cached events.
func (h EventHook) Events() []models.Event { return h.o.All() }

// Event returns the cached event with the given id.
func (h EventHook) Event(id string) (models.Event, bool) { return h.o.Get(id) }

// ReloadEvents replaces the cached events with the server's list.
func (h EventHook) ReloadEvents(ctx context.Context) error { return h.o.Reload(ctx) }

// DeleteEvent deletes the event on the server, then drops it from the cache.
func (h EventHook) DeleteEvent(ctx context.Context, id string) error {
	return h.o.Remove(ctx, id)
}

// AddEvent validates and creates e, caching the server's copy.
func (h EventHook) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	return h.o.Add(ctx, e)
}

// UpdateEvent validates and saves e, caching the server's copy.
func (h EventHook) UpdateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	return h.o.Update(ctx, e)
}

// EventsInCalendar returns the cached events of one calendar.
func (h EventHook) EventsInCalendar(calendarID string) []models.Event {
	var out []models.Event
	for _, e := range h.o.All() {
		if e.CalendarID == calendarID {
			out = append(out, e)
		}
	}
	return out
}

// TaskHook exposes task operations to the view layer.
type TaskHook struct {
	o *crud.Orchestrator[models.Task, models.TaskDTO]
}

// Tasks returns the task hook.
func (d *Dashboard) Tasks() TaskHook { return TaskHook{o: d.tasks} }

// Tasks returns the cached tasks.
func (h TaskHook) Tasks() []models.Task { return h.o.All() }

// Task returns the cached task with the given id.
func (h TaskHook) Task(id string) (models.Task, bool) { return h.o.Get(id) }

// ReloadTasks replaces the cached tasks with the server's list.
func (h TaskHook) ReloadTasks(ctx context.Context) error { return h.o.Reload(ctx) }

// DeleteTask deletes the task on the server, then drops it from the cache.
func (h TaskHook) DeleteTask(ctx context.Context, id string) error {
	return h.o.Remove(ctx, id)
}

// AddTask validates and creates t, caching the server's copy.
func (h TaskHook) AddTask(ctx context.Context, t models.Task) (models.Task, error) {
	return h.o.Add(ctx, t)
}

// UpdateTask validates and saves t, caching the server's copy.
func (h TaskHook) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	return h.o.Update(ctx, t)
}

// TasksByStatus returns the cached tasks with the given status.
func (h TaskHook) TasksByStatus(status models.TaskStatus) []models.Task {
	var out []models.Task
	for _, t := range h.o.All() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// SetTaskStatus moves a cached task to status. An uncached id fails
// validation because the task name is unknown.
func (h TaskHook) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) (models.Task, error) {
	t, ok := h.o.Get(id)
	if !ok {
		t = models.Task{ID: id}
	}
	t.Status = status
	return h.o.Update(ctx, t)
}

// ScheduledBetween returns tasks whose date range overlaps [from, to).
// Tasks with only one date use it for both ends; undated tasks are skipped.
func (h TaskHook) ScheduledBetween(from, to time.Time) []models.Task {
	var out []models.Task
	for _, t := range h.o.All() {
		start, end := t.StartDate, t.EndDate
		if start == nil && end == nil {
			continue
		}
		if start == nil {
			start = end
		}
		if end == nil {
			end = start
		}
		if start.Before(to) && !end.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

// NoteHook exposes note operations to the view layer.
type NoteHook struct {
	o *crud.Orchestrator[models.Note, models.NoteDTO]
}

// Notes returns the note hook.
func (d *Dashboard) Notes() NoteHook { return NoteHook{o: d.notes} }

// Notes returns the cached notes.
func (h NoteHook) Notes() []models.Note { return h.o.All() }

// Note returns the cached note with the given id.
func (h NoteHook) Note(id string) (models.Note, bool) { return h.o.Get(id) }

// ReloadNotes replaces the cached notes with the server's list.
func (h NoteHook) ReloadNotes(ctx context.Context) error { return h.o.Reload(ctx) }

// DeleteNote deletes the note on the server, then drops it from the cache.
func (h NoteHook) DeleteNote(ctx context.Context, id string) error {
	return h.o.Remove(ctx, id)
}

// AddNote validates and creates n, caching the server's copy.
func (h NoteHook) AddNote(ctx context.Context, n models.Note) (models.Note, error) {
	return h.o.Add(ctx, n)
}

// UpdateNote validates and saves n, caching the server's copy.
func (h NoteHook) UpdateNote(ctx context.Context, n models.Note) (models.Note, error) {
	return h.o.Update(ctx, n)
}
