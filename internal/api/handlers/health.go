// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"net/http"

	"github.com/planner-dashboard/backend/internal/api/middleware"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/storage/models"
	"github.com/planner-dashboard/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.PingContext(r.Context()) == nil

		status, code := "healthy", http.StatusOK
		if !dbConnected {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		middleware.WriteJSON(w, code, HealthResponse{
			Status:      status,
			Version:     version,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse reports row counts per resource and live websocket clients.
type StatusResponse struct {
	Counts           map[string]int `json:"counts"`
	WebSocketClients int            `json:"websocket_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		counts := make(map[string]int, len(models.Resources))
		for _, resource := range models.Resources {
			var n int
			// Table names come from the fixed resource list.
			if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+resource).Scan(&n); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to count "+resource)
				return
			}
			counts[resource] = n
		}

		middleware.WriteJSON(w, http.StatusOK, StatusResponse{
			Counts:           counts,
			WebSocketClients: hub.ClientCount(),
		})
	}
}
