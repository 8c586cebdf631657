package calendar

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"DTSTART:20240101T090000Z\r\n" +
	"DTEND:20240101T091500Z\r\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=MO\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:review@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Review\r\n" +
	"DESCRIPTION:Quarterly slides\r\n" +
	"DTSTART:20240315T140000Z\r\n" +
	"DTEND:20240315T150000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"RECURRENCE-ID:20240108T090000Z\r\n" +
	"SUMMARY:Standup (moved)\r\n" +
	"DTSTART:20240108T100000Z\r\n" +
	"DTEND:20240108T101500Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func date(s string) time.Time {
	t, ok := models.ParseTimestamp(s)
	if !ok {
		panic(s)
	}
	return t
}

func TestParse(t *testing.T) {
	events, err := NewParser().Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, events, 2, "recurrence overrides are skipped")

	assert.Equal(t, "Standup", events[0].Summary)
	assert.Equal(t, models.RecurringWeekly, events[0].Pattern)
	assert.True(t, events[0].Start.Equal(date("2024-01-01T09:00")))
	assert.True(t, events[0].End.Equal(date("2024-01-01T09:15")))

	assert.Equal(t, "Review", events[1].Summary)
	assert.Equal(t, "Quarterly slides", events[1].Description)
	assert.Equal(t, models.RecurringNone, events[1].Pattern)
}

func TestPatternFromRRule(t *testing.T) {
	tests := map[string]models.RecurringPattern{
		"":                        models.RecurringNone,
		"FREQ=DAILY":              models.RecurringDaily,
		"INTERVAL=2;FREQ=monthly": models.RecurringMonthly,
		"FREQ=YEARLY;COUNT=3":     models.RecurringYearly,
		"FREQ=HOURLY":             models.RecurringNone,
		"BYDAY=MO,TU;FREQ=WEEKLY": models.RecurringWeekly,
	}
	for rule, want := range tests {
		t.Run(rule, func(t *testing.T) {
			assert.Equal(t, want, patternFromRRule(rule))
		})
	}
}

func TestFilterByDateRange(t *testing.T) {
	events := []FeedEvent{
		{Summary: "past", Start: date("2023-12-01T09:00"), End: date("2023-12-01T10:00"), Pattern: models.RecurringNone},
		{Summary: "series", Start: date("2023-12-01T09:00"), End: date("2023-12-01T10:00"), Pattern: models.RecurringDaily},
		{Summary: "inside", Start: date("2024-01-02T09:00"), End: date("2024-01-02T10:00"), Pattern: models.RecurringNone},
		{Summary: "future", Start: date("2024-02-01T09:00"), End: date("2024-02-01T10:00"), Pattern: models.RecurringDaily},
	}

	got := FilterByDateRange(events, date("2024-01-01T00:00"), date("2024-01-31T00:00"))

	var names []string
	for _, e := range got {
		names = append(names, e.Summary)
	}
	assert.Equal(t, []string{"series", "inside"}, names)
}

type fakeSink struct {
	events  []models.Event
	failOn  string
	added   int
	updated int
}

func (s *fakeSink) EventsInCalendar(calendarID string) []models.Event {
	var out []models.Event
	for _, e := range s.events {
		if e.CalendarID == calendarID {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeSink) AddEvent(_ context.Context, e models.Event) (models.Event, error) {
	if e.Name == s.failOn {
		return e, errors.New("boom")
	}
	s.added++
	e.ID = "ev" + string(rune('0'+len(s.events)))
	s.events = append(s.events, e)
	return e, nil
}

func (s *fakeSink) UpdateEvent(_ context.Context, e models.Event) (models.Event, error) {
	s.updated++
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
		}
	}
	return e, nil
}

func TestImport(t *testing.T) {
	cal := models.Calendar{ID: "c1", Name: "Work"}
	sink := &fakeSink{
		failOn: "Broken",
		events: []models.Event{{
			ID:               "old",
			Name:             "Review",
			StartDate:        date("2024-03-15T14:00"),
			EndDate:          date("2024-03-15T14:30"),
			RecurringPattern: models.RecurringNone,
			CalendarID:       "c1",
		}},
	}

	feedEvents, err := NewParser().Parse(strings.NewReader(feed))
	require.NoError(t, err)
	feedEvents = append(feedEvents, FeedEvent{Summary: "Broken", Start: date("2024-01-05T09:00"), End: date("2024-01-05T10:00")})

	im := NewImporter(sink, nil)
	result, err := im.Import(context.Background(), cal, feedEvents)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Found)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, sink.events[0].EndDate.Equal(date("2024-03-15T15:00")))

	created := sink.events[1]
	assert.Equal(t, "Standup", created.Name)
	require.NotNil(t, created.Calendar)
	assert.Equal(t, "Work", created.Calendar.Name)

	// A second run finds nothing to change.
	sink.failOn = ""
	result, err = im.Import(context.Background(), cal, feedEvents[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, result.Unchanged)
	assert.Equal(t, 1, sink.added)
}

func TestImportRequiresCalendar(t *testing.T) {
	_, err := NewImporter(&fakeSink{}, nil).Import(context.Background(), models.Calendar{}, nil)
	assert.Error(t, err)
}

func TestImportURL(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, "https://feeds.test/work.ics",
		httpmock.NewStringResponder(http.StatusOK, feed))

	sink := &fakeSink{}
	im := NewImporter(sink, nil)

	result, err := im.ImportURL(context.Background(), models.Calendar{ID: "c1"}, "https://feeds.test/work.ics",
		date("2024-03-01T00:00"), date("2024-04-01T00:00"))
	require.NoError(t, err)

	// The weekly series started before the window and is kept; the review is inside it.
	assert.Equal(t, 2, result.Created)
}

func TestExportRoundTrip(t *testing.T) {
	desc := "Bring notes"
	events := []models.Event{
		{ID: "e1", Name: "Standup", StartDate: date("2024-01-01T09:00"), EndDate: date("2024-01-01T09:15"), RecurringPattern: models.RecurringDaily},
		{ID: "e2", Name: "Review", Description: &desc, StartDate: date("2024-03-15T14:00"), EndDate: date("2024-03-15T15:00"), RecurringPattern: models.RecurringNone},
	}

	out := Export(models.Calendar{ID: "c1", Name: "Work"}, events, date("2024-01-01T00:00"))
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "RRULE:FREQ=DAILY")

	parsed, err := NewParser().Parse(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "e1", parsed[0].UID)
	assert.Equal(t, models.RecurringDaily, parsed[0].Pattern)
	assert.True(t, parsed[0].Start.Equal(events[0].StartDate))
	assert.Equal(t, "Bring notes", parsed[1].Description)
}
