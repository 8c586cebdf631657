package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// NoteRepository provides data access for notes.
type NoteRepository struct {
	BaseRepository
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const noteColumns = `id, name, description, calendar_id, category_id`

func scanNote(row interface{ Scan(...any) error }) (models.NoteDTO, error) {
	var n models.NoteDTO
	err := row.Scan(&n.ID, &n.Name, &n.Description, &n.CalendarID, &n.CategoryID)
	return n, err
}

// Create inserts a new note and assigns its ID.
func (r *NoteRepository) Create(ctx context.Context, n *models.NoteDTO) error {
	n.ID = GenerateID()
	now := r.Now()

	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, n.CalendarID, n.CategoryID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (`+noteColumns+`, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.Name, n.Description, n.CalendarID, nullString(n.CategoryID), now, now)
		if err != nil {
			return fmt.Errorf("inserting note: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a note by its ID.
func (r *NoteRepository) GetByID(ctx context.Context, id string) (models.NoteDTO, error) {
	n, err := scanNote(r.DB().QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return n, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return n, fmt.Errorf("querying note: %w", err)
	}

	return n, nil
}

// List retrieves all notes, newest first.
func (r *NoteRepository) List(ctx context.Context) ([]models.NoteDTO, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []models.NoteDTO{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// Update updates an existing note.
func (r *NoteRepository) Update(ctx context.Context, n *models.NoteDTO) error {
	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, n.CalendarID, n.CategoryID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE notes SET name = ?, description = ?, calendar_id = ?, category_id = ?, updated_at = ?
			WHERE id = ?
		`, n.Name, n.Description, n.CalendarID, nullString(n.CategoryID), r.Now(), n.ID)
		if err != nil {
			return fmt.Errorf("updating note: %w", err)
		}

		return checkAffected(result, "note", n.ID)
	})
}

// Delete removes a note by ID.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	return checkAffected(result, "note", id)
}
