package firedlog

import (
	"context"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

var _ domain.FiredLogStore = (*MemoryStore)(nil)

// MemoryStore keeps fired logs for the lifetime of the process only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]time.Time)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]time.Time(nil), s.data[userID]...), nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, entries []time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entries) == 0 {
		delete(s.data, userID)
		return nil
	}
	s.data[userID] = append([]time.Time(nil), entries...)
	return nil
}
