package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planner-dashboard/backend/internal/endpoint"
	"github.com/planner-dashboard/backend/internal/storage/models"
	"github.com/planner-dashboard/backend/internal/store"
	"github.com/planner-dashboard/backend/internal/validate"
)

const base = "http://api.test/api/v1/"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	client := endpoint.NewClient(endpoint.Config{BaseURL: "http://api.test"}, endpoint.StaticToken("tok"))
	d, err := New(client, nil)
	require.NoError(t, err)
	return d
}

func registerList(resource, body string) {
	httpmock.RegisterResponder(http.MethodGet, base+resource, httpmock.NewStringResponder(http.StatusOK, body))
}

func registerAll(t *testing.T) {
	t.Helper()
	registerList("calendars", `[{"id":"c1","name":"Work"},{"id":"c2","name":"Home","emoji":"🏠"}]`)
	registerList("categories", `[{"id":"k1","name":"Focus","color":"#00f"}]`)
	registerList("events", `[
		{"id":"e1","name":"Standup","startDate":"2024-01-01T09:00","endDate":"2024-01-01T09:15","recurringPattern":"DAILY","calendarId":"c1","categoryId":"k1"},
		{"id":"e2","name":"Dentist","startDate":"2024-01-03T14:00","endDate":"2024-01-03T15:00","recurringPattern":"NONE","calendarId":"c2"}
	]`)
	registerList("tasks", `[
		{"id":"t1","name":"Report","status":"IN_PROGRESS","startDate":"2024-01-02T00:00","endDate":"2024-01-04T00:00","calendarId":"c1"},
		{"id":"t2","name":"Groceries","status":"WHATEVER","calendarId":"c2"}
	]`)
	registerList("notes", `[{"id":"n1","description":"remember","calendarId":"c9"}]`)
}

func TestEndToEndAddEvent(t *testing.T) {
	setupHTTPMock(t)
	registerList("calendars", `[{"id":"c1","name":"Work"}]`)

	var posted string
	httpmock.RegisterResponder(http.MethodPost, base+"events",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			posted = string(body)

			var dto models.EventDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return nil, err
			}
			dto.ID = "srv-1"
			return httpmock.NewJsonResponse(http.StatusCreated, dto)
		})

	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Calendars().ReloadCalendars(ctx))

	created, err := d.Events().AddEvent(ctx, models.Event{
		Name:      "Standup",
		StartDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),
		Calendar:  &models.Calendar{ID: "c1", Name: "Work"},
	})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"name":"Standup","startDate":"2024-01-01T09:00","endDate":"2024-01-01T09:15","recurringPattern":"NONE","calendarId":"c1"}`,
		posted)
	assert.Equal(t, "srv-1", created.ID)

	events := d.Events().Events()
	require.Len(t, events, 1)
	assert.Equal(t, "srv-1", events[0].ID)
	assert.Equal(t, &models.Calendar{ID: "c1", Name: "Work"}, events[0].Calendar)
}

func TestValidationGateSkipsNetwork(t *testing.T) {
	setupHTTPMock(t)
	d := newTestDashboard(t)

	_, err := d.Events().AddEvent(context.Background(), models.Event{})
	assert.ErrorIs(t, err, validate.ErrFieldRequired)
	_, err = d.Events().UpdateEvent(context.Background(), models.Event{ID: "1"})
	assert.ErrorIs(t, err, validate.ErrFieldRequired)
	_, err = d.Notes().AddNote(context.Background(), models.Note{Name: "no body"})
	assert.ErrorIs(t, err, validate.ErrFieldRequired)

	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestReloadAllResolvesReferences(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)

	d := newTestDashboard(t)

	var (
		mu      sync.Mutex
		changes []store.Change
	)
	unsubscribe := d.Store().Subscribe(func(c store.Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, d.ReloadAll(context.Background()))
	mu.Lock()
	assert.Len(t, changes, 5)
	mu.Unlock()

	ev, ok := d.Events().Event("e1")
	require.True(t, ok)
	require.NotNil(t, ev.Calendar)
	assert.Equal(t, "Work", ev.Calendar.Name)
	require.NotNil(t, ev.Category)
	assert.Equal(t, "#00f", ev.Category.Color)

	t2, ok := d.Tasks().Task("t2")
	require.True(t, ok)
	assert.Equal(t, models.TaskStatusTodo, t2.Status)

	n1, ok := d.Notes().Note("n1")
	require.True(t, ok)
	assert.Nil(t, n1.Calendar)
	assert.True(t, n1.HasUnresolvedReferences())

	assert.Len(t, d.Events().EventsInCalendar("c1"), 1)
	assert.Len(t, d.Tasks().TasksByStatus(models.TaskStatusInProgress), 1)

	sum := d.Summary()
	assert.Equal(t, uint64(5), sum.Version)
	assert.Equal(t, map[string]int{
		"calendars":  2,
		"categories": 1,
		"events":     2,
		"tasks":      2,
		"notes":      1,
	}, sum.Counts)
}

func TestReloadAllStopsWhenCalendarsFail(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)
	httpmock.RegisterResponder(http.MethodGet, base+"calendars",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	d := newTestDashboard(t)
	err := d.ReloadAll(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, endpoint.StatusCode(err))
	assert.Empty(t, d.Events().Events())
	assert.Zero(t, httpmock.GetCallCountInfo()["GET "+base+"events"])
}

func TestRemoveFailureKeepsItem(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)
	httpmock.RegisterResponder(http.MethodDelete, base+"notes/n1",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	d := newTestDashboard(t)
	require.NoError(t, d.ReloadAll(context.Background()))

	err := d.Notes().DeleteNote(context.Background(), "n1")
	assert.True(t, endpoint.IsFetchError(err))
	_, ok := d.Notes().Note("n1")
	assert.True(t, ok)

	httpmock.RegisterResponder(http.MethodDelete, base+"notes/n1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	require.NoError(t, d.Notes().DeleteNote(context.Background(), "n1"))
	assert.Empty(t, d.Notes().Notes())
}

func TestSetTaskStatus(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)
	httpmock.RegisterResponder(http.MethodPut, base+"tasks/t1",
		func(req *http.Request) (*http.Response, error) {
			var dto models.TaskDTO
			if err := json.NewDecoder(req.Body).Decode(&dto); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(http.StatusOK, dto)
		})

	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.ReloadAll(ctx))

	updated, err := d.Tasks().SetTaskStatus(ctx, "t1", models.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, updated.Status)
	assert.Equal(t, "Report", updated.Name)

	cached, _ := d.Tasks().Task("t1")
	assert.Equal(t, models.TaskStatusDone, cached.Status)

	_, err = d.Tasks().SetTaskStatus(ctx, "unknown", models.TaskStatusDone)
	assert.ErrorIs(t, err, validate.ErrFieldRequired)
}

func TestAgenda(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)

	d := newTestDashboard(t)
	require.NoError(t, d.ReloadAll(context.Background()))

	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	occ, err := d.Agenda(from, to)
	require.NoError(t, err)
	require.Len(t, occ, 3)

	assert.Equal(t, "e1", occ[0].Event.ID)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), occ[0].Start)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 15, 0, 0, time.UTC), occ[0].End)
	assert.Equal(t, "e2", occ[1].Event.ID)
	assert.Equal(t, "e1", occ[2].Event.ID)
	assert.Equal(t, time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC), occ[2].Start)

	_, err = d.Agenda(to, from)
	assert.Error(t, err)

	tasks := d.Tasks().ScheduledBetween(from, to)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestExpandEventPatterns(t *testing.T) {
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	ev := models.Event{ID: "e", StartDate: start, EndDate: start.Add(time.Hour)}

	tests := []struct {
		pattern models.RecurringPattern
		to      time.Time
		want    int
	}{
		{models.RecurringNone, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{models.RecurringDaily, time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC), 7},
		{models.RecurringWeekly, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 5},
		// RFC 5545 skips months without a 31st.
		{models.RecurringMonthly, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 3},
		{models.RecurringYearly, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.pattern), func(t *testing.T) {
			ev.RecurringPattern = tt.pattern
			occ, err := ExpandEvent(ev, start, tt.to)
			require.NoError(t, err)
			assert.Len(t, occ, tt.want)
		})
	}
}

func TestRefresher(t *testing.T) {
	setupHTTPMock(t)
	registerAll(t)
	d := newTestDashboard(t)

	_, err := NewRefresher(d, "not a spec", 0)
	assert.Error(t, err)

	r, err := NewRefresher(d, "", 0)
	require.NoError(t, err)

	r.refresh()
	assert.Len(t, d.Calendars().Calendars(), 2)

	r.Start()
	r.Stop()
}
