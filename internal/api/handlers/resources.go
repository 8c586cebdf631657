package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planner-dashboard/backend/internal/api/middleware"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/validate"
	"github.com/planner-dashboard/backend/internal/websocket"
)

// ResourceStore is the persistence a Resource needs.
type ResourceStore[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// Resource serves one collection under /api/v1/{Name}.
type Resource[T any] struct {
	Name  string
	Store ResourceStore[T]

	// Normalize validates an incoming DTO and returns its canonical form.
	Normalize func(T) (T, error)

	ID    func(T) string
	SetID func(*T, string)

	Events *websocket.EventBroadcaster
	Log    *logger.Logger
}

// List returns every item of the collection.
func (res *Resource[T]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := res.Store.List(r.Context())
		if err != nil {
			res.fail(w, "list", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, items)
	}
}

// Get returns a single item by ID.
func (res *Resource[T]) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := res.Store.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			res.fail(w, "get", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, item)
	}
}

// Create stores a new item and responds 201 with the stored representation.
func (res *Resource[T]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := res.decode(w, r)
		if !ok {
			return
		}
		res.SetID(&item, "")

		if err := res.Store.Create(r.Context(), &item); err != nil {
			res.fail(w, "create", err)
			return
		}

		res.Events.EntityCreated(res.Name, res.ID(item), item)
		middleware.WriteJSON(w, http.StatusCreated, item)
	}
}

// Update replaces the item named by the path ID and responds with it.
func (res *Resource[T]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := res.decode(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		res.SetID(&item, id)

		if err := res.Store.Update(r.Context(), &item); err != nil {
			res.fail(w, "update", err)
			return
		}

		res.Events.EntityUpdated(res.Name, id, item)
		middleware.WriteJSON(w, http.StatusOK, item)
	}
}

// Delete removes the item named by the path ID and responds 204.
func (res *Resource[T]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := res.Store.Delete(r.Context(), id); err != nil {
			res.fail(w, "delete", err)
			return
		}

		res.Events.EntityDeleted(res.Name, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Register mounts the collection routes on r.
func (res *Resource[T]) Register(r *mux.Router) {
	r.HandleFunc("/"+res.Name, res.List()).Methods(http.MethodGet)
	r.HandleFunc("/"+res.Name, res.Create()).Methods(http.MethodPost)
	r.HandleFunc("/"+res.Name+"/{id}", res.Get()).Methods(http.MethodGet)
	r.HandleFunc("/"+res.Name+"/{id}", res.Update()).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/"+res.Name+"/{id}", res.Delete()).Methods(http.MethodDelete)
}

func (res *Resource[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
		return item, false
	}

	item, err := res.Normalize(item)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
		return item, false
	}
	return item, true
}

func (res *Resource[T]) fail(w http.ResponseWriter, op string, err error) {
	var vErr *validate.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
	case errors.Is(err, storage.ErrUnknownReference), errors.As(err, &vErr):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
	default:
		res.Log.Error("Resource operation failed", "resource", res.Name, "op", op, "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to "+op+" "+res.Name)
	}
}
