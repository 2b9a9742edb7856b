package game

import (
	"sync"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
)

// Session is the single source of truth for one player's game. Reads hand
// out deep copies and writes replace the whole state, so a failed operation
// can simply drop its staging copy: the previous state stays intact until a
// commit succeeds. Callers follow a single-writer discipline; the lock only
// guards incidental concurrent reads (e.g. rendering during an in-flight
// illustration).
type Session struct {
	mu    sync.RWMutex
	state models.PlayerState
}

// NewSession creates a session holding the given initial state.
func NewSession(initial models.PlayerState) *Session {
	return &Session{state: initial.Clone()}
}

// State returns a deep copy of the current state.
func (s *Session) State() models.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Commit atomically replaces the state.
func (s *Session) Commit(next models.PlayerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next.Clone()
}

// Reset atomically replaces the state, discarding the old scene log
// entirely. It is the only legal path that may drop score to zero or swap
// the quest without a quest completion.
func (s *Session) Reset(next models.PlayerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next.Clone()
}
