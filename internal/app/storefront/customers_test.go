package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionmemory "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/memory"
	sessionapp "github.com/Apurer/foodio-storefront/internal/domains/session/application"
	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

type loginOnlyAuth struct{ sessionports.AuthService }

func (loginOnlyAuth) Login(_ context.Context, email, _ string) (*sessionports.AuthResult, error) {
	return &sessionports.AuthResult{Identity: &sessiondomain.Identity{ID: "u-9", Email: email}, Token: "t"}, nil
}

func TestSessionCustomers(t *testing.T) {
	store := sessionapp.NewStore(loginOnlyAuth{}, sessionmemory.NewCredentialStore())
	customers := NewSessionCustomers(store)

	_, ok := customers.Customer()
	assert.False(t, ok)

	_, err := store.Login(context.Background(), "ravi@example.com", "pw")
	require.NoError(t, err)
	customer, ok := customers.Customer()
	require.True(t, ok)
	assert.Equal(t, "u-9", customer.ID)
	assert.Equal(t, "ravi@example.com", customer.Email)
}
