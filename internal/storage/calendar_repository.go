package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// CalendarRepository provides data access for calendars.
type CalendarRepository struct {
	BaseRepository
}

// NewCalendarRepository creates a new calendar repository.
func NewCalendarRepository(db *DB) *CalendarRepository {
	return &CalendarRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new calendar and assigns its ID.
func (r *CalendarRepository) Create(ctx context.Context, cal *models.CalendarDTO) error {
	cal.ID = GenerateID()
	now := r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO calendars (id, name, emoji, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, cal.ID, cal.Name, nullString(cal.Emoji), now, now)
	if err != nil {
		return fmt.Errorf("inserting calendar: %w", err)
	}

	return nil
}

// GetByID retrieves a calendar by its ID.
func (r *CalendarRepository) GetByID(ctx context.Context, id string) (models.CalendarDTO, error) {
	var cal models.CalendarDTO

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, emoji FROM calendars WHERE id = ?
	`, id).Scan(&cal.ID, &cal.Name, &cal.Emoji)

	if errors.Is(err, sql.ErrNoRows) {
		return cal, fmt.Errorf("calendar %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return cal, fmt.Errorf("querying calendar: %w", err)
	}

	return cal, nil
}

// List retrieves all calendars ordered by name.
func (r *CalendarRepository) List(ctx context.Context) ([]models.CalendarDTO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, emoji FROM calendars ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}
	defer rows.Close()

	calendars := []models.CalendarDTO{}
	for rows.Next() {
		var cal models.CalendarDTO
		if err := rows.Scan(&cal.ID, &cal.Name, &cal.Emoji); err != nil {
			return nil, fmt.Errorf("scanning calendar: %w", err)
		}
		calendars = append(calendars, cal)
	}

	return calendars, rows.Err()
}

// Update updates an existing calendar.
func (r *CalendarRepository) Update(ctx context.Context, cal *models.CalendarDTO) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE calendars SET name = ?, emoji = ?, updated_at = ?
		WHERE id = ?
	`, cal.Name, nullString(cal.Emoji), r.Now(), cal.ID)
	if err != nil {
		return fmt.Errorf("updating calendar: %w", err)
	}

	return checkAffected(result, "calendar", cal.ID)
}

// Delete removes a calendar and, through the foreign keys, its events,
// tasks and notes.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}

	return checkAffected(result, "calendar", id)
}
