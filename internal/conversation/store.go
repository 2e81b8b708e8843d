// Package conversation holds the in-memory, append-only turn log of a chat
// session.
package conversation

import (
	"sync"

	"lingo-backend/internal/models"
)

// Store is an ordered log of turns. Turns are never removed or updated.
// Each session owns its own Store; it must not be shared across sessions.
type Store struct {
	mu    sync.RWMutex
	turns []models.Turn
}

func NewStore() *Store {
	return &Store{}
}

// Append adds a turn at the end of the log.
func (s *Store) Append(turn models.Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the log. Later appends are not visible through it.
func (s *Store) Snapshot() models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(models.Conversation, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
