package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// CategoryRepository provides data access for categories.
type CategoryRepository struct {
	BaseRepository
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new category and assigns its ID.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.CategoryDTO) error {
	cat.ID = GenerateID()
	now := r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, cat.ID, cat.Name, cat.Color, now, now)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.CategoryDTO, error) {
	var cat models.CategoryDTO

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, color FROM categories WHERE id = ?
	`, id).Scan(&cat.ID, &cat.Name, &cat.Color)

	if errors.Is(err, sql.ErrNoRows) {
		return cat, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return cat, fmt.Errorf("querying category: %w", err)
	}

	return cat, nil
}

// List retrieves all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.CategoryDTO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, color FROM categories ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CategoryDTO{}
	for rows.Next() {
		var cat models.CategoryDTO
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

// Update updates an existing category.
func (r *CategoryRepository) Update(ctx context.Context, cat *models.CategoryDTO) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, updated_at = ?
		WHERE id = ?
	`, cat.Name, cat.Color, r.Now(), cat.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	return checkAffected(result, "category", cat.ID)
}

// Delete removes a category. References to it are cleared.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return checkAffected(result, "category", id)
}
