package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/tripboard/internal/domain/model"
)

// MemoryStore keeps records in process memory. It backs demo setups with a
// "memory://" url and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.FeedbackRecord // insertion order
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns a copy of every record, newest first. Records with the
// same created_at come back latest-inserted first.
func (s *MemoryStore) ListAll(_ context.Context) ([]model.FeedbackRecord, error) {
	s.mu.RLock()
	out := make([]model.FeedbackRecord, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.FeedbackRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// Insert appends rec, assigning an id and created_at when missing.
func (s *MemoryStore) Insert(_ context.Context, rec model.FeedbackRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	s.records = append(s.records, rec)
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close(context.Context) error { return nil }
