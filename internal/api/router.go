// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planner-dashboard/backend/internal/api/handlers"
	"github.com/planner-dashboard/backend/internal/api/middleware"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/websocket"
)

// Options configures NewRouter.
type Options struct {
	DB  *storage.DB
	Hub *websocket.Hub
	Log *logger.Logger

	// Version is reported by /api/health.
	Version string

	// RequireAuth guards the resource routes with bearer tokens.
	RequireAuth bool

	// StaticDir, when set, is served at the root for the built frontend.
	StaticDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(opts Options) *mux.Router {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := mux.NewRouter()

	r.Use(middleware.Logging(log))
	r.Use(middleware.ErrorRecovery(log))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.HealthCheck(opts.DB, opts.Version)).Methods(http.MethodGet)
	api.HandleFunc("/status", handlers.Status(opts.DB, opts.Hub)).Methods(http.MethodGet)
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(opts.Hub, log)).Methods(http.MethodGet)

	v1 := api.PathPrefix("/v1").Subrouter()

	users := storage.NewUserRepository(opts.DB)
	v1.HandleFunc("/authentication/register", handlers.Register(users, log)).Methods(http.MethodPost)
	v1.HandleFunc("/authentication/login", handlers.Login(users, log)).Methods(http.MethodPost)
	v1.HandleFunc("/authentication/logout", handlers.Logout(users, log)).Methods(http.MethodPost)

	resources := v1.NewRoute().Subrouter()
	if opts.RequireAuth {
		resources.Use(middleware.RequireAuth(users))
	}

	events := websocket.NewEventBroadcaster(opts.Hub, log)
	handlers.CalendarResource(opts.DB, events, log).Register(resources)
	handlers.CategoryResource(opts.DB, events, log).Register(resources)
	handlers.EventResource(opts.DB, events, log).Register(resources)
	handlers.TaskResource(opts.DB, events, log).Register(resources)
	handlers.NoteResource(opts.DB, events, log).Register(resources)
	resources.HandleFunc("/calendars/{id}/ics", handlers.CalendarICS(opts.DB, log)).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
