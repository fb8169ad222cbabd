package repository

import (
	"context"
	"time"

	"github.com/okian/tripboard/internal/domain/model"
	"github.com/okian/tripboard/pkg/metrics"
)

// instrumented records latency and errors for every store call.
type instrumented struct {
	next Store
}

// Instrument wraps s with Prometheus latency and error metrics.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

func (s *instrumented) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	start := time.Now()
	recs, err := s.next.ListAll(ctx)
	observe(metrics.StoreOpList, start, err)
	return recs, err
}

func (s *instrumented) Insert(ctx context.Context, rec model.FeedbackRecord) error {
	start := time.Now()
	err := s.next.Insert(ctx, rec)
	observe(metrics.StoreOpInsert, start, err)
	return err
}

func (s *instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(op)
	}
}
