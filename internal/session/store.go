// Package session ties the engines together for one editing session: an
// id-keyed recording store, the current timeline with bounded undo, the
// clipboard, and the playback scheduler.
package session

import (
	"sync"

	"github.com/mchenetz/ascii-edit/internal/recording"
)

// Store holds loaded recordings keyed by id. It implements
// timeline.Library.
type Store struct {
	mu    sync.RWMutex
	recs  map[string]*recording.Recording
	order []string
}

// NewStore creates an empty recording store.
func NewStore() *Store {
	return &Store{recs: make(map[string]*recording.Recording)}
}

// Add registers a recording under its id.
func (s *Store) Add(rec *recording.Recording) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recs[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.recs[rec.ID] = rec
}

// Recording returns a recording by id.
func (s *Store) Recording(id string) (*recording.Recording, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[id]
	return rec, ok
}

// IDs returns the registered recording ids in load order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered recordings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
