package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store implementation used in tests and in
// single-tenant/dev deployments. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[tokenKey]Row
	creds  map[credKey]ClientIDSecret
}

type tokenKey struct {
	userID, tenantID, provider string
}

type credKey struct {
	tenantID, provider string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[tokenKey]Row),
		creds:  make(map[credKey]ClientIDSecret),
	}
}

func (s *MemoryStore) GetUserOAuthToken(_ context.Context, userID, tenantID, provider string) (*Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.tokens[tokenKey{userID, tenantID, provider}]
	if !ok {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (s *MemoryStore) UpsertUserOAuthToken(_ context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey{row.UserID, row.TenantID, row.Provider}] = row
	return nil
}

func (s *MemoryStore) DeleteUserOAuthToken(_ context.Context, userID, tenantID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey{userID, tenantID, provider})
	return nil
}

func (s *MemoryStore) GetTenantOAuthCredentials(_ context.Context, tenantID, provider string) (*ClientIDSecret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[credKey{tenantID, provider}]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

// SetTenantOAuthCredentials is a test/seed helper; production deployments
// populate tenant_oauth_credentials through the persistent store directly.
func (s *MemoryStore) SetTenantOAuthCredentials(tenantID, provider string, creds ClientIDSecret) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[credKey{tenantID, provider}] = creds
}
