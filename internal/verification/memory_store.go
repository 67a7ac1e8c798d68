package verification

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. It is lost on restart and is
// not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Put(_ context.Context, key string, rec Record) error {
	s.mu.Lock()
	s.records[key] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, ErrNoRecord
	}
	return rec, nil
}

func (s *MemoryStore) CompareAndDelete(_ context.Context, key string, rec Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[key]
	if !ok || cur.CodeHash != rec.CodeHash || !cur.ExpiresAt.Equal(rec.ExpiresAt) {
		return false, nil
	}
	delete(s.records, key)
	return true, nil
}

// PurgeExpired drops every record that expired more than ExpiredRetention
// before now.
func (s *MemoryStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-ExpiredRetention)
	n := 0
	for k, rec := range s.records {
		if cutoff.After(rec.ExpiresAt) {
			delete(s.records, k)
			n++
		}
	}
	return n
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
