package store

import "sync"

// Entity is anything identified by a string id.
type Entity interface {
	GetID() string
}

// Repository is the normalized collection for one entity type. It keeps
// insertion order and an id index. All reads return copies of the slice.
type Repository[T Entity] struct {
	store    *Store
	resource string

	mu    sync.RWMutex
	items []T
	index map[string]int
}

// NewRepository registers resource in s and returns its repository.
// Registering the same resource twice panics.
func NewRepository[T Entity](s *Store, resource string) *Repository[T] {
	s.register(resource)
	return &Repository[T]{
		store:    s,
		resource: resource,
		index:    make(map[string]int),
	}
}

// Resource returns the resource name the repository was registered under.
func (r *Repository[T]) Resource() string {
	return r.resource
}

// GetAll returns the current collection.
func (r *Repository[T]) GetAll() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// GetByID returns the item with the given id.
func (r *Repository[T]) GetByID(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.index[id]; ok {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of cached items.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// SetAll replaces the whole collection. Later duplicates of an id win.
func (r *Repository[T]) SetAll(items []T) {
	r.mu.Lock()
	r.items = make([]T, 0, len(items))
	r.index = make(map[string]int, len(items))
	for _, item := range items {
		r.put(item)
	}
	r.mu.Unlock()

	r.store.publish(r.resource, OpReset, "")
}

// Add appends item, or replaces the entry with the same id.
func (r *Repository[T]) Add(item T) {
	r.mu.Lock()
	r.put(item)
	r.mu.Unlock()

	r.store.publish(r.resource, OpAdd, item.GetID())
}

// Update replaces the entry with the same id. Items whose id is not cached are
// dropped and Update reports false.
func (r *Repository[T]) Update(item T) bool {
	r.mu.Lock()
	i, ok := r.index[item.GetID()]
	if ok {
		r.items[i] = item
	}
	r.mu.Unlock()

	if ok {
		r.store.publish(r.resource, OpUpdate, item.GetID())
	}
	return ok
}

// Remove deletes the entry with the given id and reports whether it existed.
func (r *Repository[T]) Remove(id string) bool {
	r.mu.Lock()
	i, ok := r.index[id]
	if ok {
		r.items = append(r.items[:i], r.items[i+1:]...)
		delete(r.index, id)
		for j := i; j < len(r.items); j++ {
			r.index[r.items[j].GetID()] = j
		}
	}
	r.mu.Unlock()

	if ok {
		r.store.publish(r.resource, OpRemove, id)
	}
	return ok
}

// put must be called with mu held.
func (r *Repository[T]) put(item T) {
	if i, ok := r.index[item.GetID()]; ok {
		r.items[i] = item
		return
	}
	r.index[item.GetID()] = len(r.items)
	r.items = append(r.items, item)
}
