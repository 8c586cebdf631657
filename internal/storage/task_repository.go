package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// TaskRepository provides data access for tasks.
type TaskRepository struct {
	BaseRepository
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const taskColumns = `id, name, description, start_date, end_date, status, recurring_pattern, calendar_id, category_id`

func scanTask(row interface{ Scan(...any) error }) (models.TaskDTO, error) {
	var t models.TaskDTO
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
		&t.Status, &t.RecurringPattern, &t.CalendarID, &t.CategoryID)
	return t, err
}

// normalizeTask coerces enum fields onto their closed sets.
func normalizeTask(t *models.TaskDTO) {
	t.Status = string(models.ParseTaskStatus(t.Status))
	if t.RecurringPattern != nil {
		p := string(models.ParseRecurringPattern(*t.RecurringPattern))
		t.RecurringPattern = &p
	}
}

// Create inserts a new task and assigns its ID.
func (r *TaskRepository) Create(ctx context.Context, t *models.TaskDTO) error {
	t.ID = GenerateID()
	normalizeTask(t)
	now := r.Now()

	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, t.CalendarID, t.CategoryID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.Description, t.StartDate, t.EndDate, t.Status, t.RecurringPattern,
			t.CalendarID, nullString(t.CategoryID), now, now)
		if err != nil {
			return fmt.Errorf("inserting task: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (models.TaskDTO, error) {
	t, err := scanTask(r.DB().QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return t, fmt.Errorf("querying task: %w", err)
	}

	return t, nil
}

// List retrieves all tasks, open ones first.
func (r *TaskRepository) List(ctx context.Context) ([]models.TaskDTO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		ORDER BY status = 'DONE', start_date IS NULL, start_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.TaskDTO{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update updates an existing task.
func (r *TaskRepository) Update(ctx context.Context, t *models.TaskDTO) error {
	normalizeTask(t)

	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, t.CalendarID, t.CategoryID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE tasks SET
				name = ?, description = ?, start_date = ?, end_date = ?, status = ?,
				recurring_pattern = ?, calendar_id = ?, category_id = ?, updated_at = ?
			WHERE id = ?
		`, t.Name, t.Description, t.StartDate, t.EndDate, t.Status, t.RecurringPattern,
			t.CalendarID, nullString(t.CategoryID), r.Now(), t.ID)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		return checkAffected(result, "task", t.ID)
	})
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	return checkAffected(result, "task", id)
}
