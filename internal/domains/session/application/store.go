package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

// Store is the single source of truth for who the current user is.
//
// Network calls run without holding the state lock. Each operation carries its own
// in-flight guard, so a second Login while one is outstanding fails fast with
// ports.ErrOperationInFlight. Different operations may overlap (for example Logout
// while Login is awaiting the server); in that case the last response to arrive wins.
type Store struct {
	auth        ports.AuthService
	credentials ports.CredentialStore

	mu      sync.RWMutex
	session *domain.Session

	inflight map[ports.Operation]*atomic.Bool
	restore  singleflight.Group
}

func NewStore(auth ports.AuthService, credentials ports.CredentialStore) *Store {
	if credentials == nil {
		credentials = ports.NoopCredentialStore
	}
	inflight := make(map[ports.Operation]*atomic.Bool, len(ports.Operations))
	for _, op := range ports.Operations {
		inflight[op] = &atomic.Bool{}
	}
	return &Store{
		auth:        auth,
		credentials: credentials,
		session:     domain.NewAnonymous(),
		inflight:    inflight,
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// InFlight reports whether op is currently awaiting the Auth Service.
func (s *Store) InFlight(op ports.Operation) bool {
	flag, ok := s.inflight[op]
	return ok && flag.Load()
}

func (s *Store) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	done, err := s.begin(ports.OpLogin)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.requireNotAuthenticated(); err != nil {
		return nil, err
	}
	email, err = domain.NormalizeEmail(email)
	if err == nil && strings.TrimSpace(password) == "" {
		err = domain.ErrEmptyPassword
	}
	if err != nil {
		return s.failToAnonymous(mapError(err), msgLoginFailed)
	}

	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return s.failToAnonymous(err, msgLoginFailed)
	}
	return s.completeAuth(ctx, email, result, msgLoginFailed)
}

func (s *Store) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	done, err := s.begin(ports.OpRegister)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.requireNotAuthenticated(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email, err = domain.NormalizeEmail(email)
	switch {
	case err != nil:
	case name == "":
		err = domain.ErrEmptyName
	case strings.TrimSpace(password) == "":
		err = domain.ErrEmptyPassword
	}
	if err != nil {
		return s.failToAnonymous(mapError(err), msgRegisterFailed)
	}

	result, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return s.failToAnonymous(err, msgRegisterFailed)
	}
	return s.completeAuth(ctx, email, result, msgRegisterFailed)
}

// VerifyOTP exchanges a one-time code for a credential. It is only valid while the
// session is pending verification; an empty email defaults to the pending one.
func (s *Store) VerifyOTP(ctx context.Context, email, code string) (*domain.Session, error) {
	done, err := s.begin(ports.OpVerifyOTP)
	if err != nil {
		return nil, err
	}
	defer done()

	s.mu.RLock()
	status, pendingEmail := s.session.Status, s.session.PendingEmail
	s.mu.RUnlock()
	if status != domain.StatusPendingVerification {
		return nil, domain.ErrInvalidTransition
	}
	if strings.TrimSpace(email) == "" {
		email = pendingEmail
	}
	email, err = domain.NormalizeEmail(email)
	if err == nil && pendingEmail != "" && email != pendingEmail {
		err = domain.ErrEmailMismatch
	}
	code = strings.TrimSpace(code)
	if err == nil && code == "" {
		err = domain.ErrEmptyOTP
	}
	if err != nil {
		return s.failInPlace(mapError(err), msgVerifyFailed)
	}

	result, err := s.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return s.failInPlace(err, msgVerifyFailed)
	}
	if result == nil || result.Identity == nil || strings.TrimSpace(result.Token) == "" {
		return s.failInPlace(fmt.Errorf("%w: verification response carried no credential", ports.ErrAuthRejected), msgVerifyFailed)
	}
	if err := s.credentials.Save(ctx, result.Token); err != nil {
		return s.failInPlace(fmt.Errorf("%w: %w", ErrCredentialPersistence, err), msgVerifyFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Authenticate(result.Identity, result.Token); err != nil {
		return nil, err
	}
	return s.session.Clone(), nil
}

// Logout always ends in Anonymous with the persisted credential cleared. The server
// call is best effort and its failure is deliberately swallowed.
func (s *Store) Logout(ctx context.Context) *domain.Session {
	done, err := s.begin(ports.OpLogout)
	if err != nil {
		// A logout is already clearing state; report what we have.
		return s.Snapshot()
	}
	defer done()

	s.mu.RLock()
	token := s.session.CredentialToken
	s.mu.RUnlock()
	if token == "" {
		token, _ = s.credentials.Load(ctx)
	}
	if strings.TrimSpace(token) != "" {
		_, _ = s.auth.Logout(ctx, token)
	}
	_ = s.credentials.Clear(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	s.session.LastError = ""
	return s.session.Clone()
}

// RestoreSession validates the persisted credential once at startup. Without a token no
// network call is made. Concurrent callers share the same outstanding check.
func (s *Store) RestoreSession(ctx context.Context) (*domain.Session, error) {
	v, err, _ := s.restore.Do(string(ports.OpRestore), func() (any, error) {
		flag := s.inflight[ports.OpRestore]
		flag.Store(true)
		defer flag.Store(false)
		return s.restoreSession(ctx)
	})
	// Callers sharing one check must not share one pointer.
	if session, ok := v.(*domain.Session); ok && session != nil {
		return session.Clone(), err
	}
	return s.Snapshot(), err
}

func (s *Store) restoreSession(ctx context.Context) (*domain.Session, error) {
	token, err := s.credentials.Load(ctx)
	if err != nil {
		return s.resetWithError(ctx, fmt.Errorf("load credential: %w", err), msgSessionCheckFailed)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.session.Reset()
		return s.session.Clone(), nil
	}

	check, err := s.auth.Check(ctx, token)
	if err != nil {
		return s.resetWithError(ctx, err, msgSessionCheckFailed)
	}
	if check == nil || !check.LoggedIn || check.Identity == nil {
		return s.resetWithError(ctx, fmt.Errorf("%w: session no longer valid", ports.ErrAuthRejected), msgSessionExpired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Authenticate(check.Identity, token); err != nil {
		return nil, err
	}
	return s.session.Clone(), nil
}

// SaveAddress attaches a delivery address to the authenticated identity. A 401 means the
// credential is gone server side, so the session falls back to Anonymous.
func (s *Store) SaveAddress(ctx context.Context, address domain.Address) (*domain.Session, error) {
	done, err := s.begin(ports.OpSaveAddress)
	if err != nil {
		return nil, err
	}
	defer done()

	s.mu.RLock()
	authenticated, token := s.session.IsAuthenticated(), s.session.CredentialToken
	s.mu.RUnlock()
	if !authenticated {
		return nil, ErrNotAuthenticated
	}
	if err := address.Normalize(); err != nil {
		return s.failInPlace(mapError(err), msgSaveAddressFailed)
	}

	result, err := s.auth.SaveAddress(ctx, token, address)
	if err != nil {
		if errors.Is(err, ports.ErrCredentialRejected) {
			return s.resetWithError(ctx, err, msgSessionExpired)
		}
		return s.failInPlace(err, msgSaveAddressFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.LastError = ""
	// Drop the identity update if the session changed hands while the call was out.
	if result != nil && result.Identity != nil && s.session.CredentialToken == token {
		if err := s.session.ReplaceIdentity(result.Identity); err != nil {
			return nil, err
		}
	}
	return s.session.Clone(), nil
}

func (s *Store) completeAuth(ctx context.Context, email string, result *ports.AuthResult, fallback string) (*domain.Session, error) {
	if result == nil {
		return s.failToAnonymous(fmt.Errorf("%w: empty response", ports.ErrAuthRejected), fallback)
	}
	token := strings.TrimSpace(result.Token)
	if token == "" {
		// The server wants the emailed OTP before it issues a credential.
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.session.AwaitVerification(email); err != nil {
			return nil, err
		}
		return s.session.Clone(), nil
	}
	if result.Identity == nil {
		return s.failToAnonymous(fmt.Errorf("%w: response carried no user", ports.ErrAuthRejected), fallback)
	}
	if err := s.credentials.Save(ctx, token); err != nil {
		return s.failToAnonymous(fmt.Errorf("%w: %w", ErrCredentialPersistence, err), fallback)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Authenticate(result.Identity, token); err != nil {
		return nil, err
	}
	return s.session.Clone(), nil
}

func (s *Store) begin(op ports.Operation) (func(), error) {
	flag, ok := s.inflight[op]
	if !ok {
		return nil, fmt.Errorf("unknown session operation %q", op)
	}
	if !flag.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: %s", ports.ErrOperationInFlight, op)
	}
	return func() { flag.Store(false) }, nil
}

func (s *Store) requireNotAuthenticated() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Status == domain.StatusAuthenticated {
		return domain.ErrInvalidTransition
	}
	return nil
}

// failToAnonymous records the failure, lands in Anonymous, and re-raises err.
func (s *Store) failToAnonymous(err error, fallback string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	s.session.Fail(failureMessage(err, fallback))
	return s.session.Clone(), err
}

// failInPlace records the failure and keeps the current status.
func (s *Store) failInPlace(err error, fallback string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Fail(failureMessage(err, fallback))
	return s.session.Clone(), err
}

// resetWithError clears the persisted credential as well as local state.
func (s *Store) resetWithError(ctx context.Context, err error, fallback string) (*domain.Session, error) {
	_ = s.credentials.Clear(ctx)
	return s.failToAnonymous(err, fallback)
}

var _ ports.Service = (*Store)(nil)
