package ports

import (
	"context"
	"strings"
)

// DefaultCredentialKey is the fixed key the bearer token is persisted under.
const DefaultCredentialKey = "token"

// CredentialStore persists the bearer token between process runs.
// Only the session store writes to it; other components may Peek.
type CredentialStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Peek reports whether a token is present. It says nothing about whether the
// session store has validated it; call RestoreSession before trusting status.
func Peek(ctx context.Context, store CredentialStore) bool {
	if store == nil {
		return false
	}
	token, err := store.Load(ctx)
	return err == nil && strings.TrimSpace(token) != ""
}

// NoopCredentialStore never persists anything.
var NoopCredentialStore CredentialStore = noopCredentialStore{}

type noopCredentialStore struct{}

func (noopCredentialStore) Load(context.Context) (string, error) { return "", nil }
func (noopCredentialStore) Save(context.Context, string) error   { return nil }
func (noopCredentialStore) Clear(context.Context) error          { return nil }
