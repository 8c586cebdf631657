package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

// EventSink is where imported events are written. dashboard.EventHook
// implements it.
type EventSink interface {
	EventsInCalendar(calendarID string) []models.Event
	AddEvent(ctx context.Context, e models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) (models.Event, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	CalendarID string    `json:"calendar_id"`
	Found      int       `json:"found"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Failed     int       `json:"failed"`
	SyncedAt   time.Time `json:"synced_at"`
}

// Importer copies feed events into a calendar.
type Importer struct {
	parser *Parser
	sink   EventSink
	log    *logger.Logger
}

// NewImporter creates an importer writing to sink.
func NewImporter(sink EventSink, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{parser: NewParser(), sink: sink, log: log}
}

// ImportURL fetches a feed and imports the events overlapping [from, to).
func (im *Importer) ImportURL(ctx context.Context, cal models.Calendar, url string, from, to time.Time) (*ImportResult, error) {
	events, err := im.parser.FetchAndParse(ctx, url)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, cal, FilterByDateRange(events, from, to))
}

// Import writes events into cal. An event already in the calendar with the
// same name and start is updated in place when its other fields differ.
// Individual failures are counted and logged; the run continues.
func (im *Importer) Import(ctx context.Context, cal models.Calendar, events []FeedEvent) (*ImportResult, error) {
	if cal.ID == "" {
		return nil, errors.New("import: calendar id is required")
	}

	result := &ImportResult{
		CalendarID: cal.ID,
		Found:      len(events),
		SyncedAt:   time.Now().UTC(),
	}

	existing := make(map[string]models.Event)
	for _, ev := range im.sink.EventsInCalendar(cal.ID) {
		existing[eventKey(ev.Name, ev.StartDate)] = ev
	}

	for _, fe := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		created, updated, err := im.processEvent(ctx, cal, fe, existing)
		switch {
		case err != nil:
			im.log.Warn("Importing event failed", "uid", fe.UID, "summary", fe.Summary, "error", err)
			result.Failed++
		case created:
			result.Created++
		case updated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	im.log.Info("Calendar import finished",
		"calendar_id", cal.ID,
		"found", result.Found,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed)
	return result, nil
}

func (im *Importer) processEvent(ctx context.Context, cal models.Calendar, fe FeedEvent, existing map[string]models.Event) (created, updated bool, err error) {
	name := fe.Summary
	if name == "" {
		name = "(untitled)"
	}
	var description *string
	if fe.Description != "" {
		description = models.StringPtr(fe.Description)
	}

	key := eventKey(name, fe.Start)
	if ev, ok := existing[key]; ok {
		if ev.EndDate.Equal(fe.End) && ev.RecurringPattern == fe.Pattern && equalText(ev.Description, description) {
			return false, false, nil
		}
		ev.EndDate = fe.End
		ev.RecurringPattern = fe.Pattern
		ev.Description = description
		if _, err := im.sink.UpdateEvent(ctx, ev); err != nil {
			return false, false, fmt.Errorf("updating event: %w", err)
		}
		return false, true, nil
	}

	c := cal
	ev, err := im.sink.AddEvent(ctx, models.Event{
		Name:             name,
		Description:      description,
		StartDate:        fe.Start,
		EndDate:          fe.End,
		RecurringPattern: fe.Pattern,
		CalendarID:       cal.ID,
		Calendar:         &c,
	})
	if err != nil {
		return false, false, fmt.Errorf("creating event: %w", err)
	}
	existing[key] = ev
	return true, false, nil
}

func eventKey(name string, start time.Time) string {
	return name + "\x00" + start.UTC().Format(time.RFC3339)
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
