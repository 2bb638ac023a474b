package draftstore

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

type memoryEntry struct {
	draft     chargeversion.Draft
	expiresAt time.Time
}

// MemoryStore is a DraftRepository held in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[port.Key]memoryEntry
	opts    options
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		entries: make(map[port.Key]memoryEntry),
		opts:    newOptions(opts),
	}
}

// Get returns a copy of the stored draft, or nil when there is none
func (s *MemoryStore) Get(ctx context.Context, key port.Key) (*chargeversion.Draft, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.opts.expired(entry.expiresAt) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, nil
	}

	d := entry.draft.Clone()
	return &d, nil
}

// Set stores a copy of the draft
func (s *MemoryStore) Set(ctx context.Context, key port.Key, draft *chargeversion.Draft) error {
	if draft == nil {
		return s.Clear(ctx, key)
	}

	entry := memoryEntry{draft: draft.Clone(), expiresAt: s.opts.expiry()}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Clear removes the draft; clearing a missing key is not an error
func (s *MemoryStore) Clear(ctx context.Context, key port.Key) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Purge deletes every expired draft and returns how many were removed
func (s *MemoryStore) Purge(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if s.opts.expired(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored drafts, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var (
	_ port.DraftRepository = (*MemoryStore)(nil)
	_ Purger               = (*MemoryStore)(nil)
)
