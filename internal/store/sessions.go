package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/vizboard/internal/core/model"
)

var ErrNotFound = errors.New("dataset not found")

// Sessions keeps uploaded datasets in memory until they expire.
type Sessions struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// UUIDGenerator and Now are replaceable in tests.
	UUIDGenerator func() string
	Now           func() time.Time
}

type entry struct {
	ds       *model.Dataset
	lastSeen time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		entries:       make(map[string]entry),
		ttl:           ttl,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           time.Now,
	}
}

// Put stores ds under a fresh id and returns it. ds.ID is set.
func (s *Sessions) Put(ds *model.Dataset) string {
	id := s.UUIDGenerator()
	ds.ID = id

	s.mu.Lock()
	s.entries[id] = entry{ds: ds, lastSeen: s.Now()}
	s.mu.Unlock()
	return id
}

// Get returns the dataset and refreshes its expiry.
func (s *Sessions) Get(id string) (*model.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.Now()
	s.entries[id] = e
	return e.ds, nil
}

func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

// Sweep evicts datasets idle for longer than the TTL and reports how many
// were removed. A zero TTL disables eviction.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
