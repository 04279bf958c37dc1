package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrNilSession     = errors.New("session is nil")
	ErrInvalidSession = errors.New("session id is empty")
)

// Store is the persistence contract for conversation state.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory with a TTL. Suitable for a
// single-instance deployment; a restart drops conversational context only.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

const defaultMemoryTTL = 24 * time.Hour

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.ID) == "" {
		return ErrInvalidSession
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) pruneLocked() {
	cutoff := m.now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

func cloneSession(s *Session) *Session {
	out := &Session{
		ID:        s.ID,
		UpdatedAt: s.UpdatedAt,
	}
	if len(s.Turns) > 0 {
		out.Turns = append([]Turn(nil), s.Turns...)
	}
	return out
}
