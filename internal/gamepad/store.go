package gamepad

import (
	"sync"
)

// Store holds the single most recent validated batch. Every successful
// submission overwrites it; no history is kept. Reads and writes come from
// different request goroutines, hence the lock.
type Store struct {
	mu   sync.RWMutex
	last Batch
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetLast(b Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := make(Batch, len(b))
	copy(last, b)
	s.last = last
}

// Last returns a copy of the most recent batch, or nil before the first
// successful submission.
func (s *Store) Last() Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	out := make(Batch, len(s.last))
	copy(out, s.last)
	return out
}
