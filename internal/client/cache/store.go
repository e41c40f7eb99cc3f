// Package cache keeps an optimistic local copy of the task list. Reads are
// served from memory; mutations are applied locally first and rolled back if
// the server rejects them.
package cache

import (
	"sync"

	"github.com/cuadratic/tasklist/internal/models"
)

// Key identifies one cached task list.
type Key struct {
	Endpoint string
	Username string
}

type entry struct {
	tasks []models.Task
	stale bool
}

// Store is a concurrency-safe in-memory cache of task lists.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

// Get returns a copy of the cached list for key and whether the entry is
// fresh. A stale entry is still returned so callers can render it while a
// refetch is in flight.
func (s *Store) Get(key Key) ([]models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return copyTasks(e.tasks), !e.stale
}

// Set replaces the cached list for key and marks it fresh.
func (s *Store) Set(key Key, tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{tasks: copyTasks(tasks)}
}

// Invalidate marks the entry stale without dropping its data.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.stale = true
	}
}

// InvalidateAll marks every entry stale. Used when connectivity returns and
// everything cached may have drifted.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.stale = true
	}
}

// Drop removes the entry for key.
func (s *Store) Drop(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func copyTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
