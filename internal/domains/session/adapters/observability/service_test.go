package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

type fixedSessions struct {
	sessionports.Service
	session *sessiondomain.Session
}

func (f fixedSessions) Login(context.Context, string, string) (*sessiondomain.Session, error) {
	return f.session, nil
}

func TestService_LogsValidOutcome(t *testing.T) {
	var logs bytes.Buffer
	svc := New(fixedSessions{session: &sessiondomain.Session{
		Status:          sessiondomain.StatusAuthenticated,
		Identity:        &sessiondomain.Identity{ID: "u-1"},
		CredentialToken: "tok",
	}}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	result, err := svc.Login(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, sessiondomain.StatusAuthenticated, result.Status)
	assert.Contains(t, logs.String(), "session updated")
	assert.NotContains(t, logs.String(), "invariant")
	assert.NotContains(t, logs.String(), "tok")
}

func TestService_LogsBrokenInvariant(t *testing.T) {
	var logs bytes.Buffer
	svc := New(fixedSessions{session: &sessiondomain.Session{
		Status:   sessiondomain.StatusAuthenticated,
		Identity: &sessiondomain.Identity{ID: "u-1"},
	}}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	_, err := svc.Login(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "session invariant violated")
	assert.Contains(t, logs.String(), sessiondomain.ErrMissingCredential.Error())
	assert.NotContains(t, logs.String(), "session updated")
}
