package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

var _ ports.CredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps the bearer token in process memory only.
type CredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string
	key    string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{tokens: map[string]string{}, key: ports.DefaultCredentialKey}
}

func (s *CredentialStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[s.key], nil
}

func (s *CredentialStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key] = strings.TrimSpace(token)
	return nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key)
	return nil
}
