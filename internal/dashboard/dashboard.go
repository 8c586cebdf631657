// Package dashboard is the composition point of the client: one shared store,
// a repository and orchestrator per entity type, and view-facing hooks.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/planner-dashboard/backend/internal/crud"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/mapper"
	"github.com/planner-dashboard/backend/internal/storage/models"
	"github.com/planner-dashboard/backend/internal/store"
	"github.com/planner-dashboard/backend/internal/validate"
)

// Dashboard holds the client-side state for one user session.
type Dashboard struct {
	store *store.Store
	log   *logger.Logger

	calendars  *crud.Orchestrator[models.Calendar, models.CalendarDTO]
	categories *crud.Orchestrator[models.Category, models.CategoryDTO]
	events     *crud.Orchestrator[models.Event, models.EventDTO]
	tasks      *crud.Orchestrator[models.Task, models.TaskDTO]
	notes      *crud.Orchestrator[models.Note, models.NoteDTO]
}

// New wires every entity type against ep. log may be nil.
func New(ep crud.Endpoint, log *logger.Logger) (*Dashboard, error) {
	if log == nil {
		log = logger.Nop()
	}

	s := store.New()
	calendarRepo := store.NewRepository[models.Calendar](s, models.ResourceCalendars)
	categoryRepo := store.NewRepository[models.Category](s, models.ResourceCategories)

	// Dependent entities resolve references against whatever the calendar
	// and category repositories hold when the mapping runs.
	lookup := mapper.IndexLookup{Calendars: calendarRepo, Categories: categoryRepo}

	d := &Dashboard{store: s, log: log}
	var err error

	d.calendars, err = crud.New(crud.Options[models.Calendar, models.CalendarDTO]{
		Resource:   models.ResourceCalendars,
		Endpoint:   ep,
		Repository: calendarRepo,
		ToDTO:      mapper.CalendarToDTO,
		FromDTO:    mapper.CalendarFromDTO,
		Validate:   validate.Calendar,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating calendar orchestrator: %w", err)
	}

	d.categories, err = crud.New(crud.Options[models.Category, models.CategoryDTO]{
		Resource:   models.ResourceCategories,
		Endpoint:   ep,
		Repository: categoryRepo,
		ToDTO:      mapper.CategoryToDTO,
		FromDTO:    mapper.CategoryFromDTO,
		Validate:   validate.Category,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating category orchestrator: %w", err)
	}

	d.events, err = crud.New(crud.Options[models.Event, models.EventDTO]{
		Resource:   models.ResourceEvents,
		Endpoint:   ep,
		Repository: store.NewRepository[models.Event](s, models.ResourceEvents),
		ToDTO:      mapper.EventToDTO,
		FromDTO: func(dto models.EventDTO) models.Event {
			return mapper.EventFromDTO(dto, lookup)
		},
		Validate: validate.Event,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event orchestrator: %w", err)
	}

	d.tasks, err = crud.New(crud.Options[models.Task, models.TaskDTO]{
		Resource:   models.ResourceTasks,
		Endpoint:   ep,
		Repository: store.NewRepository[models.Task](s, models.ResourceTasks),
		ToDTO:      mapper.TaskToDTO,
		FromDTO: func(dto models.TaskDTO) models.Task {
			return mapper.TaskFromDTO(dto, lookup)
		},
		Validate: validate.Task,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating task orchestrator: %w", err)
	}

	d.notes, err = crud.New(crud.Options[models.Note, models.NoteDTO]{
		Resource:   models.ResourceNotes,
		Endpoint:   ep,
		Repository: store.NewRepository[models.Note](s, models.ResourceNotes),
		ToDTO:      mapper.NoteToDTO,
		FromDTO: func(dto models.NoteDTO) models.Note {
			return mapper.NoteFromDTO(dto, lookup)
		},
		Validate: validate.Note,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating note orchestrator: %w", err)
	}

	return d, nil
}

// Store returns the shared store, e.g. to subscribe to changes.
func (d *Dashboard) Store() *store.Store {
	return d.store
}

// Summary is a snapshot of the cache: item counts per resource and the store
// version they were read at.
type Summary struct {
	Version uint64         `json:"version"`
	Counts  map[string]int `json:"counts"`
}

// Summary counts the cached items of every registered resource.
func (d *Dashboard) Summary() Summary {
	lens := map[string]int{
		models.ResourceCalendars:  len(d.calendars.All()),
		models.ResourceCategories: len(d.categories.All()),
		models.ResourceEvents:     len(d.events.All()),
		models.ResourceTasks:      len(d.tasks.All()),
		models.ResourceNotes:      len(d.notes.All()),
	}

	sum := Summary{Version: d.store.Version(), Counts: make(map[string]int)}
	for _, name := range d.store.Resources() {
		sum.Counts[name] = lens[name]
	}
	return sum
}

// ReloadAll loads calendars and categories first, then the entities that
// reference them. Each phase runs its reloads concurrently.
func (d *Dashboard) ReloadAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.calendars.Reload(gctx) })
	g.Go(func() error { return d.categories.Reload(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return d.events.Reload(gctx) })
	g.Go(func() error { return d.tasks.Reload(gctx) })
	g.Go(func() error { return d.notes.Reload(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	sum := d.Summary()
	d.log.Info("Dashboard reloaded", "version", sum.Version, "counts", sum.Counts)
	return nil
}
