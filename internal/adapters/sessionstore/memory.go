package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/okian/tripboard/internal/domain/session"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps sessions in process memory as encoded snapshots.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	cfg     config
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), cfg: cfg}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.cfg.now().Before(e.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(e.data)
}

func (m *MemoryStore) Save(_ context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{data: data, expires: m.cfg.now().Add(m.cfg.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Count drops expired sessions and returns how many remain.
func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.cfg.now()
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
	return len(m.entries), nil
}

func (m *MemoryStore) Close() error { return nil }

func decode(data []byte) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
