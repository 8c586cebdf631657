// Package store provides the shared client-side cache: one Store handle and a
// normalized Repository per entity type registered in it.
package store

import (
	"fmt"
	"sort"
	"sync"
)

// Op identifies the kind of write that produced a Change.
type Op string

// Change operations
const (
	OpReset  Op = "reset"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Change describes a single committed write.
type Change struct {
	Resource string
	Op       Op
	// ID is empty for OpReset.
	ID      string
	Version uint64
}

// Listener receives changes after they are committed. Listeners run one at a
// time in Version order; they may read repositories but must not write to
// them.
type Listener func(Change)

// Store is the shared handle every repository writes through.
type Store struct {
	mu           sync.Mutex
	listeners    map[int]Listener
	nextListener int
	version      uint64
	resources    map[string]struct{}

	// deliver is held while listeners run. publish takes it before
	// releasing mu, so deliveries follow version order.
	deliver sync.Mutex
}

// New creates an empty store.
func New() *Store {
	return &Store{
		listeners: make(map[int]Listener),
		resources: make(map[string]struct{}),
	}
}

// Subscribe registers fn for every subsequent change. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Version returns the number of changes committed so far.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Resources returns the registered resource names, sorted.
func (s *Store) Resources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) register(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.resources[resource]; exists {
		panic(fmt.Sprintf("store: resource %q registered twice", resource))
	}
	s.resources[resource] = struct{}{}
}

// publish bumps the version and notifies listeners outside mu so they may
// read from repositories.
func (s *Store) publish(resource string, op Op, id string) {
	s.mu.Lock()
	s.version++
	change := Change{Resource: resource, Op: op, ID: id, Version: s.version}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.deliver.Lock()
	s.mu.Unlock()
	defer s.deliver.Unlock()

	for _, l := range listeners {
		l(change)
	}
}
