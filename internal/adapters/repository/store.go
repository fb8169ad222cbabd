// Package repository stores submitted feedback records.
package repository

import (
	"context"

	"github.com/okian/tripboard/internal/domain/model"
)

// DefaultTable is the table (or collection) holding feedback records.
const DefaultTable = "trip_feedback"

// Store is the feedback datastore. Records are append-only: there is no
// update or delete.
type Store interface {
	// ListAll returns every record, newest created first.
	// Failures wrap ErrRead.
	ListAll(ctx context.Context) ([]model.FeedbackRecord, error)

	// Insert stores one record. Failures wrap ErrWrite.
	Insert(ctx context.Context, rec model.FeedbackRecord) error

	Close(ctx context.Context) error
}
