package appstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and single-tenant/dev
// deployments. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	goals   map[string]Goal
	byUser  map[string][]string
	configs map[string]Configuration
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		goals:   make(map[string]Goal),
		byUser:  make(map[string][]string),
		configs: make(map[string]Configuration),
	}
}

func (s *MemoryStore) CreateGoal(_ context.Context, g Goal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals[g.ID] = g
	s.byUser[g.UserID] = append(s.byUser[g.UserID], g.ID)
	return g.ID, nil
}

func (s *MemoryStore) ListGoals(_ context.Context, userID string) ([]Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	out := make([]Goal, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.goals[id])
	}
	return out, nil
}

func (s *MemoryStore) GetGoal(_ context.Context, userID, goalID string) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, nil
	}
	cp := g
	return &cp, nil
}

func (s *MemoryStore) GetUserConfiguration(_ context.Context, userID string) (*Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.configs[userID]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (s *MemoryStore) PutUserConfiguration(_ context.Context, cfg Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.UserID] = cfg
	return nil
}
