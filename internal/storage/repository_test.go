package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db, nil))
	return db
}

func seedCalendar(t *testing.T, db *DB, name string) models.CalendarDTO {
	t.Helper()
	cal := models.CalendarDTO{Name: name, Emoji: models.StringPtr("📅")}
	require.NoError(t, NewCalendarRepository(db).Create(context.Background(), &cal))
	return cal
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RunMigrations(db, nil))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMigrationsLogProgress(t *testing.T) {
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	require.NoError(t, RunMigrations(db, log))
	assert.Equal(t, 2, logs.FilterMessage("Migration applied").Len())

	// A row from a newer build is reported, not fatal.
	_, err = db.Exec("INSERT INTO _migrations (name) VALUES ('999_future.sql')")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, log))
	assert.Equal(t, 1, logs.FilterMessage("Database has a migration this build does not know").Len())
	assert.Equal(t, 2, logs.FilterMessage("Migration applied").Len())
}

func TestCalendarRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCalendarRepository(db)

	cal := seedCalendar(t, db, "Work")
	require.NotEmpty(t, cal.ID)

	got, err := repo.GetByID(ctx, cal.ID)
	require.NoError(t, err)
	assert.Equal(t, cal, got)

	cal.Name = "Office"
	cal.Emoji = nil
	require.NoError(t, repo.Update(ctx, &cal))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Office", all[0].Name)
	assert.Nil(t, all[0].Emoji)

	require.NoError(t, repo.Delete(ctx, cal.ID))
	_, err = repo.GetByID(ctx, cal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, cal.ID), ErrNotFound)
}

func TestListEmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	cats, err := NewCategoryRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestEventRepositoryReferences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEventRepository(db)

	ev := models.EventDTO{
		Name:             "Standup",
		StartDate:        "2024-01-01T09:00",
		EndDate:          "2024-01-01T09:15",
		RecurringPattern: "NONE",
		CalendarID:       "missing",
	}
	assert.ErrorIs(t, repo.Create(ctx, &ev), ErrUnknownReference)

	cal := seedCalendar(t, db, "Work")
	ev.CalendarID = cal.ID
	ev.CategoryID = models.StringPtr("missing")
	assert.ErrorIs(t, repo.Create(ctx, &ev), ErrUnknownReference)

	ev.CategoryID = nil
	require.NoError(t, repo.Create(ctx, &ev))

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCalendarRepository(db)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO calendars (id, name) VALUES ('c1', 'Work')")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Creates racing a calendar delete either land before it (and cascade away)
// or fail with ErrUnknownReference; never with a constraint error.
func TestCreateRacingCalendarDelete(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db, nil))

	cal := seedCalendar(t, db, "Work")
	events := NewEventRepository(db)
	tasks := NewTaskRepository(db)
	notes := NewNoteRepository(db)

	const writers = 20
	errs := make(chan error, 3*writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("item %d", i)
			errs <- events.Create(ctx, &models.EventDTO{Name: name, StartDate: "2024-01-01T09:00",
				EndDate: "2024-01-01T10:00", CalendarID: cal.ID})
			errs <- tasks.Create(ctx, &models.TaskDTO{Name: name, CalendarID: cal.ID})
			errs <- notes.Create(ctx, &models.NoteDTO{Description: name, CalendarID: cal.ID})
		}(i)
	}
	require.NoError(t, NewCalendarRepository(db).Delete(ctx, cal.ID))
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrUnknownReference)
		}
	}

	all, err := events.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEventRepositoryNormalizesPattern(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cal := seedCalendar(t, db, "Work")
	repo := NewEventRepository(db)

	ev := models.EventDTO{Name: "x", StartDate: "2024-01-01T09:00", EndDate: "2024-01-01T10:00",
		RecurringPattern: "FORTNIGHTLY", CalendarID: cal.ID}
	require.NoError(t, repo.Create(ctx, &ev))
	assert.Equal(t, "NONE", ev.RecurringPattern)

	ev.RecurringPattern = "WEEKLY"
	require.NoError(t, repo.Update(ctx, &ev))
	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "WEEKLY", got.RecurringPattern)
}

func TestDeletingCalendarCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cal := seedCalendar(t, db, "Home")

	task := models.TaskDTO{Name: "Laundry", Status: "TODO", CalendarID: cal.ID}
	require.NoError(t, NewTaskRepository(db).Create(ctx, &task))
	note := models.NoteDTO{Description: "buy milk", CalendarID: cal.ID}
	require.NoError(t, NewNoteRepository(db).Create(ctx, &note))

	require.NoError(t, NewCalendarRepository(db).Delete(ctx, cal.ID))

	tasks, err := NewTaskRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	notes, err := NewNoteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestDeletingCategoryClearsReference(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cal := seedCalendar(t, db, "Home")
	cat := models.CategoryDTO{Name: "Chores", Color: "#00ff00"}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, &cat))

	tasks := NewTaskRepository(db)
	task := models.TaskDTO{Name: "Dishes", Status: "bogus", CalendarID: cal.ID, CategoryID: &cat.ID}
	require.NoError(t, tasks.Create(ctx, &task))
	assert.Equal(t, "TODO", task.Status)

	require.NoError(t, NewCategoryRepository(db).Delete(ctx, cat.ID))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestTaskRepositoryUpdateMissing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cal := seedCalendar(t, db, "Home")

	task := models.TaskDTO{ID: "nope", Name: "x", Status: "DONE", CalendarID: cal.ID}
	assert.ErrorIs(t, NewTaskRepository(db).Update(ctx, &task), ErrNotFound)
}

func TestUserSessions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)

	u := models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, &u))

	dup := models.User{Name: "Ada", Email: "ADA@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, users.Create(ctx, &dup), ErrEmailTaken)

	found, err := users.GetByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	s, err := users.CreateSession(ctx, u.ID)
	require.NoError(t, err)

	owner, err := users.SessionUser(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner.ID)

	require.NoError(t, users.DeleteSession(ctx, s.Token))
	_, err = users.SessionUser(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsRepository(newTestDB(t))

	_, err := settings.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, settings.Set(ctx, "token", "a"))
	require.NoError(t, settings.Set(ctx, "token", "b"))
	v, err := settings.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, settings.Delete(ctx, "token"))
	require.NoError(t, settings.Delete(ctx, "token"))
	_, err = settings.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}
