package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/planner-dashboard/backend/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one embedded schema file, applied at most once.
type migration struct {
	Name string
	SQL  string
}

// RunMigrations applies the embedded schema files that the database has not
// seen yet, each in its own transaction, in file name order.
func RunMigrations(db *DB, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	ctx := context.Background()

	// Create migrations tracking table
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			name TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("listing applied migrations: %w", err)
	}

	// Get available migrations
	available, err := embeddedMigrations()
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}

	known := make(map[string]bool, len(available))
	for _, m := range available {
		known[m.Name] = true
	}
	for name := range applied {
		if !known[name] {
			log.Warn("Database has a migration this build does not know", "name", name)
		}
	}

	// Apply pending migrations in order
	pending := 0
	for _, m := range available {
		if applied[m.Name] {
			continue
		}
		pending++

		err := db.Transaction(ctx, func(tx *sql.Tx) error {
			// Execute migration SQL
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("executing SQL: %w", err)
			}
			// Record migration
			if _, err := tx.ExecContext(ctx, "INSERT INTO _migrations (name) VALUES (?)", m.Name); err != nil {
				return fmt.Errorf("recording migration: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
		log.Info("Migration applied", "name", m.Name)
	}

	if pending > 0 {
		log.Info("Database schema up to date", "applied", pending, "total", len(available))
	}
	return nil
}

func appliedMigrations(ctx context.Context, q Queryable) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, "SELECT name FROM _migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

func embeddedMigrations() ([]migration, error) {
	paths, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	// Sort by filename (numeric prefix ensures correct order)
	sort.Strings(paths)

	migrations := make([]migration, 0, len(paths))
	for _, p := range paths {
		content, err := migrationsFS.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		migrations = append(migrations, migration{Name: path.Base(p), SQL: string(content)})
	}

	return migrations, nil
}
