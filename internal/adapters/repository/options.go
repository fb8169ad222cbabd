package repository

import (
	"time"

	"github.com/okian/tripboard/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the time source used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecords seeds the store. Records keep their own created_at.
func WithRecords(recs ...model.FeedbackRecord) Option {
	return func(s *MemoryStore) {
		s.records = append(s.records, recs...)
	}
}
