package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownReference is returned when a calendar or category id does not exist.
var ErrUnknownReference = errors.New("unknown reference")

// Queryable represents a database connection that can execute queries.
// Both *sql.DB and *sql.Tx implement this interface.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	db *DB
}

// NewBaseRepository creates a new base repository with the given database connection.
func NewBaseRepository(db *DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the underlying database connection.
func (r *BaseRepository) DB() *DB {
	return r.db
}

// Now returns the current time in UTC for database timestamps.
func (r *BaseRepository) Now() time.Time {
	return time.Now().UTC()
}

// Transaction executes a function within a database transaction. Reference
// checks and the write that depends on them run in one transaction.
func (r *BaseRepository) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return r.db.Transaction(ctx, fn)
}

// GenerateID creates a new UUID for use as a primary key.
func GenerateID() string {
	return uuid.NewString()
}

// checkAffected turns a zero-row update or delete into ErrNotFound.
func checkAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

// checkReferences verifies that the calendar and optional category exist.
func checkReferences(ctx context.Context, q Queryable, calendarID string, categoryID *string) error {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendars WHERE id = ?", calendarID).Scan(&n); err != nil {
		return fmt.Errorf("checking calendar: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("calendar %q: %w", calendarID, ErrUnknownReference)
	}

	if categoryID == nil || *categoryID == "" {
		return nil
	}
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE id = ?", *categoryID).Scan(&n); err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %q: %w", *categoryID, ErrUnknownReference)
	}
	return nil
}

// nullString maps empty optional ids to NULL.
func nullString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
