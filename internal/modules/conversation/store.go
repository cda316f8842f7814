// README: Session store contract and the in-process implementation.
package conversation

import (
	"context"
	"sync"
)

// Store persists the turns of each session in insertion order.
// Implementations return ErrSessionNotFound for unknown session ids.
type Store interface {
	CreateSession(ctx context.Context, sessionID string, seed Turn) error
	Append(ctx context.Context, sessionID string, t Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
	// Recent returns at most the last n turns, oldest first. n <= 0 returns
	// the whole history.
	Recent(ctx context.Context, sessionID string, n int) ([]Turn, error)
}

// MemoryStore keeps sessions in process memory. Sessions live until restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]Turn)}
}

func (s *MemoryStore) CreateSession(_ context.Context, sessionID string, seed Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = []Turn{seed}
	return nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, t Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.sessions[sessionID] = append(turns, t)
	return nil
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.Recent(ctx, sessionID, 0)
}

func (s *MemoryStore) Recent(_ context.Context, sessionID string, n int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if n > 0 {
		turns = Window(turns, n)
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}
