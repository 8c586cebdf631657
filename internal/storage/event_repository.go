package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// EventRepository provides data access for events.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const eventColumns = `id, name, description, start_date, end_date, recurring_pattern, calendar_id, category_id`

func scanEvent(row interface{ Scan(...any) error }) (models.EventDTO, error) {
	var ev models.EventDTO
	err := row.Scan(&ev.ID, &ev.Name, &ev.Description, &ev.StartDate, &ev.EndDate,
		&ev.RecurringPattern, &ev.CalendarID, &ev.CategoryID)
	return ev, err
}

// Create inserts a new event and assigns its ID.
func (r *EventRepository) Create(ctx context.Context, ev *models.EventDTO) error {
	ev.ID = GenerateID()
	ev.RecurringPattern = string(models.ParseRecurringPattern(ev.RecurringPattern))
	now := r.Now()

	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, ev.CalendarID, ev.CategoryID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (`+eventColumns+`, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ev.ID, ev.Name, ev.Description, ev.StartDate, ev.EndDate, ev.RecurringPattern,
			ev.CalendarID, nullString(ev.CategoryID), now, now)
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}

		return nil
	})
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (models.EventDTO, error) {
	ev, err := scanEvent(r.DB().QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return ev, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ev, fmt.Errorf("querying event: %w", err)
	}

	return ev, nil
}

// List retrieves all events ordered by start date.
func (r *EventRepository) List(ctx context.Context) ([]models.EventDTO, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []models.EventDTO{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// Update updates an existing event.
func (r *EventRepository) Update(ctx context.Context, ev *models.EventDTO) error {
	ev.RecurringPattern = string(models.ParseRecurringPattern(ev.RecurringPattern))

	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, ev.CalendarID, ev.CategoryID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE events SET
				name = ?, description = ?, start_date = ?, end_date = ?,
				recurring_pattern = ?, calendar_id = ?, category_id = ?, updated_at = ?
			WHERE id = ?
		`, ev.Name, ev.Description, ev.StartDate, ev.EndDate, ev.RecurringPattern,
			ev.CalendarID, nullString(ev.CategoryID), r.Now(), ev.ID)
		if err != nil {
			return fmt.Errorf("updating event: %w", err)
		}

		return checkAffected(result, "event", ev.ID)
	})
}

// Delete removes an event by ID.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	return checkAffected(result, "event", id)
}
