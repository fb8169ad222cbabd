// Package sessionstore keeps per-browser sessions between requests.
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/okian/tripboard/internal/domain/session"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 12 * time.Hour

// Store persists sessions by id. Saved sessions are copies: later changes to
// the caller's value do not affect the stored one.
type Store interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	// Save stores s and refreshes its expiry.
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
	Close() error
}
