package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

type memoryEntry struct {
	state     report.PipelineState
	expiresAt time.Time
}

// MemoryStore keeps pipeline state in process memory. This matches the
// single-process session semantics of the pipeline and is the default.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[uuid.UUID]memoryEntry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

// Load implements report.SessionStore.
func (s *MemoryStore) Load(_ context.Context, id uuid.UUID) (report.PipelineState, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return report.PipelineState{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return report.PipelineState{}, false, nil
	}
	return entry.state, true, nil
}

// Save implements report.SessionStore.
func (s *MemoryStore) Save(_ context.Context, id uuid.UUID, state report.PipelineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	s.entries[id] = memoryEntry{state: state, expiresAt: exp}
	s.sweepLocked()
	return nil
}

// Delete implements report.SessionStore.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) sweepLocked() {
	for id, entry := range s.entries {
		if hasExpired(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func hasExpired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && time.Now().After(expiresAt)
}

var _ report.SessionStore = (*MemoryStore)(nil)
