// Package crud coordinates a remote resource endpoint, the local repository,
// mapping and validation for one entity type.
package crud

import (
	"context"
	"errors"

	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/store"
	"github.com/planner-dashboard/backend/internal/validate"
)

// Endpoint is the remote resource contract. *endpoint.Client implements it.
type Endpoint interface {
	List(ctx context.Context, resource string, out any) error
	Create(ctx context.Context, resource string, in, out any) error
	Update(ctx context.Context, resource, id string, in, out any) error
	Delete(ctx context.Context, resource, id string) error
}

// Options configures an Orchestrator. Validate and Logger are optional.
type Options[D store.Entity, T any] struct {
	Resource   string
	Endpoint   Endpoint
	Repository *store.Repository[D]
	ToDTO      func(D) T
	FromDTO    func(T) D
	Validate   func(D) error
	Logger     *logger.Logger
}

// Orchestrator runs reload/add/update/remove for one entity type. It keeps no
// state of its own: every read and write goes through the repository at the
// moment the operation executes.
type Orchestrator[D store.Entity, T any] struct {
	resource string
	endpoint Endpoint
	repo     *store.Repository[D]
	toDTO    func(D) T
	fromDTO  func(T) D
	validate func(D) error
	log      *logger.Logger
}

// referenceChecker is implemented by entities that embed calendar/category references.
type referenceChecker interface {
	HasUnresolvedReferences() bool
}

// New creates an orchestrator from opts.
func New[D store.Entity, T any](opts Options[D, T]) (*Orchestrator[D, T], error) {
	switch {
	case opts.Resource == "":
		return nil, errors.New("crud: resource is required")
	case opts.Endpoint == nil:
		return nil, errors.New("crud: endpoint is required")
	case opts.Repository == nil:
		return nil, errors.New("crud: repository is required")
	case opts.ToDTO == nil || opts.FromDTO == nil:
		return nil, errors.New("crud: mapper functions are required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Orchestrator[D, T]{
		resource: opts.Resource,
		endpoint: opts.Endpoint,
		repo:     opts.Repository,
		toDTO:    opts.ToDTO,
		fromDTO:  opts.FromDTO,
		validate: opts.Validate,
		log:      log.With("resource", opts.Resource),
	}, nil
}

// Resource returns the REST resource path.
func (o *Orchestrator[D, T]) Resource() string {
	return o.resource
}

// All returns the cached collection.
func (o *Orchestrator[D, T]) All() []D {
	return o.repo.GetAll()
}

// Get returns a cached item by id.
func (o *Orchestrator[D, T]) Get(id string) (D, bool) {
	return o.repo.GetByID(id)
}

// Reload fetches the whole collection and replaces the repository contents.
// On failure the repository is left untouched.
func (o *Orchestrator[D, T]) Reload(ctx context.Context) error {
	var dtos []T
	if err := o.endpoint.List(ctx, o.resource, &dtos); err != nil {
		o.log.Warn("Reload failed", "error", err)
		return err
	}

	items := make([]D, 0, len(dtos))
	unresolved := 0
	for _, dto := range dtos {
		item := o.fromDTO(dto)
		if o.hasUnresolved(item) {
			unresolved++
		}
		items = append(items, item)
	}

	o.repo.SetAll(items)

	if unresolved > 0 {
		o.log.Warn("Loaded items reference calendars or categories that are not loaded",
			"count", unresolved)
	}
	o.log.Debug("Reloaded", "count", len(items))
	return nil
}

// Add validates partial, creates it remotely and caches the server's copy.
func (o *Orchestrator[D, T]) Add(ctx context.Context, partial D) (D, error) {
	var zero D

	if err := o.check(partial); err != nil {
		return zero, err
	}

	var created T
	if err := o.endpoint.Create(ctx, o.resource, o.toDTO(partial), &created); err != nil {
		o.log.Warn("Create failed", "error", err)
		return zero, err
	}

	item := o.fromDTO(created)
	o.repo.Add(item)
	o.warnUnresolved(item)

	return item, nil
}

// Update validates partial, which must carry an id, sends it remotely and
// replaces the cached entry. An id that is not cached is not inserted.
func (o *Orchestrator[D, T]) Update(ctx context.Context, partial D) (D, error) {
	var zero D

	id := partial.GetID()
	if err := validate.ID(o.resource, id); err != nil {
		return zero, err
	}
	if err := o.check(partial); err != nil {
		return zero, err
	}

	var updated T
	if err := o.endpoint.Update(ctx, o.resource, id, o.toDTO(partial), &updated); err != nil {
		o.log.Warn("Update failed", "id", id, "error", err)
		return zero, err
	}

	item := o.fromDTO(updated)
	if !o.repo.Update(item) {
		o.log.Warn("Updated item is not cached, repository unchanged", "id", item.GetID())
	}
	o.warnUnresolved(item)

	return item, nil
}

// Remove deletes id remotely, then drops it from the repository.
func (o *Orchestrator[D, T]) Remove(ctx context.Context, id string) error {
	if err := o.endpoint.Delete(ctx, o.resource, id); err != nil {
		o.log.Warn("Delete failed", "id", id, "error", err)
		return err
	}

	o.repo.Remove(id)
	return nil
}

func (o *Orchestrator[D, T]) check(partial D) error {
	if o.validate == nil {
		return nil
	}
	return o.validate(partial)
}

func (o *Orchestrator[D, T]) hasUnresolved(item D) bool {
	rc, ok := any(item).(referenceChecker)
	return ok && rc.HasUnresolvedReferences()
}

func (o *Orchestrator[D, T]) warnUnresolved(item D) {
	if o.hasUnresolved(item) {
		o.log.Warn("Item references a calendar or category that is not loaded", "id", item.GetID())
	}
}
