package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/planner-dashboard/backend/internal/api/middleware"
	"github.com/planner-dashboard/backend/internal/calendar"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/mapper"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

// CalendarICS serves one calendar and its events as a text/calendar feed.
func CalendarICS(db *storage.DB, log *logger.Logger) http.HandlerFunc {
	calendars := storage.NewCalendarRepository(db)
	events := storage.NewEventRepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := calendars.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
				return
			}
			log.Error("Failed to load calendar", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to export calendar")
			return
		}

		all, err := events.List(r.Context())
		if err != nil {
			log.Error("Failed to list events", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to export calendar")
			return
		}

		cal := mapper.CalendarFromDTO(dto)
		lookup := mapper.SliceLookup{Calendars: []models.Calendar{cal}}
		var owned []models.Event
		for _, e := range all {
			if e.CalendarID == cal.ID {
				owned = append(owned, mapper.EventFromDTO(e, lookup))
			}
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(calendar.Export(cal, owned, time.Now())))
	}
}
