// Package cli implements the dashboard command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/planner-dashboard/backend/internal/auth"
	"github.com/planner-dashboard/backend/internal/dashboard"
	"github.com/planner-dashboard/backend/internal/endpoint"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
)

// App carries the flags and lazily built clients shared by every command.
type App struct {
	ConfigPath string
	DataDir    string
	JSON       bool

	Out io.Writer
	Log *logger.Logger

	db        *storage.DB
	auth      *auth.Client
	dashboard *dashboard.Dashboard
}

// NewApp returns an App writing to stdout with defaults from the environment.
func NewApp(log *logger.Logger) *App {
	dataDir := ".planner"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".planner")
	}
	return &App{
		DataDir: dataDir,
		Out:     os.Stdout,
		Log:     log,
	}
}

// Auth opens the token store and returns the authentication client.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	if a.auth != nil {
		return a.auth, nil
	}

	cfg := endpoint.DefaultConfig()
	if a.ConfigPath != "" {
		var err error
		if cfg, err = endpoint.LoadConfig(a.ConfigPath); err != nil {
			return nil, err
		}
	}

	if a.db == nil {
		db, err := storage.NewDB(filepath.Join(a.DataDir, "dashboard.db"))
		if err != nil {
			return nil, err
		}
		if err := storage.RunMigrations(db, a.Log); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
	}

	client, err := auth.New(ctx, cfg, storage.NewSettingsRepository(a.db), a.Log)
	if err != nil {
		return nil, err
	}
	a.auth = client
	return client, nil
}

// Dashboard returns a dashboard bound to the authenticated endpoint and
// loaded with the current server state.
func (a *App) Dashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	if a.dashboard != nil {
		return a.dashboard, nil
	}

	client, err := a.Auth(ctx)
	if err != nil {
		return nil, err
	}

	d, err := dashboard.New(client.Endpoint(), a.Log)
	if err != nil {
		return nil, err
	}
	if err := d.ReloadAll(ctx); err != nil {
		if endpoint.StatusCode(err) == http.StatusUnauthorized {
			return nil, errors.New("not logged in; run `dashboard login` first")
		}
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}

	a.dashboard = d
	return d, nil
}

// Close releases the token store.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
