package session

import (
	"context"
	"sync"

	"github.com/pumaprintables/portal/models"
)

// Record is the persisted shape of a session: the bearer token, the decoded
// user and the expiry in epoch milliseconds (0 when the token never expires).
type Record struct {
	Token     string          `json:"token"`
	User      models.AuthUser `json:"user"`
	ExpiresAt int64           `json:"expiresAt,omitempty"`
}

// Store persists sessions across portal restarts. Load returns (nil, nil)
// when no record exists; implementations wipe corrupt entries rather than
// returning them.
type Store interface {
	Load(ctx context.Context, sid string) (*Record, error)
	Save(ctx context.Context, sid string, rec *Record) error
	Delete(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in process memory. Used when no REDIS_URL is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Load(_ context.Context, sid string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sid]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, sid string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sid] = *rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sid)
	return nil
}
