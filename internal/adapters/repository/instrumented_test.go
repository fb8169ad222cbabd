package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/tripboard/internal/domain/model"
	"github.com/okian/tripboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type failingStore struct{}

func (failingStore) ListAll(context.Context) ([]model.FeedbackRecord, error) {
	return nil, ErrRead
}

func (failingStore) Insert(context.Context, model.FeedbackRecord) error { return ErrWrite }

func (failingStore) Close(context.Context) error { return nil }

func TestInstrument_CountsErrors(t *testing.T) {
	ctx := context.Background()
	s := Instrument(failingStore{})

	before, err := testutil.GatherAndCount(metrics.GetRegistry(), "tripboard_store_errors_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	if _, err := s.ListAll(ctx); !errors.Is(err, ErrRead) {
		t.Errorf("expected ErrRead to pass through, got %v", err)
	}
	if err := s.Insert(ctx, model.FeedbackRecord{}); !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite to pass through, got %v", err)
	}

	after, err := testutil.GatherAndCount(metrics.GetRegistry(), "tripboard_store_errors_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if after < before || after < 2 {
		t.Errorf("expected store error series to be present, before=%d after=%d", before, after)
	}
}
