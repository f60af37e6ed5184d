// Package services contains the long-lived client state shared by every
// screen: the session lifecycle and the notification poller.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
	"github.com/driftdesk/driftdesk-cli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiry = errors.New("token carries no expiry")

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

// AuthAPI is the subset of the REST client the session needs.
type AuthAPI interface {
	Bootstrap(ctx context.Context, req models.BootstrapRequest) (*models.BootstrapResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// SessionStore persists the token and cached user.
type SessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session models.Session) error
	SaveUser(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string) routes.Route
}

// SessionService owns the authentication state.
//
// Contract:
//   - Hydrate: restore a stored session at start-up without asking the server.
//   - Login/Bootstrap: Unauthenticated -> Authenticating -> Authenticated, or
//     back to Unauthenticated with LastError set.
//   - Logout/ForceLogout: drop token and user together and go to /login.
//   - Refresh: reload the current user from the server.
type SessionService interface {
	Hydrate(ctx context.Context) error
	Login(ctx context.Context, req models.LoginRequest) error
	Bootstrap(ctx context.Context, req models.BootstrapRequest) error
	Logout(ctx context.Context) error
	ForceLogout(ctx context.Context)
	Refresh(ctx context.Context) error

	State() State
	User() *models.User
	Token() string
	ExpiresAt() (time.Time, error)
	LastError() string
	ClearError()
	Subscribe(fn func(State)) (unsubscribe func())
}

type sessionService struct {
	auth  AuthAPI
	store SessionStore
	nav   Navigator
	log   logging.Logger

	mu        sync.RWMutex
	state     State
	session   *models.Session
	lastErr   string
	observers map[int]func(State)
	nextObs   int
}

// NewSessionService constructs a SessionService. nav may be nil in tests.
func NewSessionService(auth AuthAPI, store SessionStore, nav Navigator, log logging.Logger) SessionService {
	if log == nil {
		log = logging.Discard()
	}
	return &sessionService{auth: auth, store: store, nav: nav, log: log, observers: map[int]func(State){}}
}

func (s *sessionService) Hydrate(ctx context.Context) error {
	sess, err := s.store.Load(ctx)
	if err != nil {
		s.set(StateUnauthenticated, nil, "")
		return fmt.Errorf("load stored session: %w", err)
	}
	if !sess.Valid() {
		s.set(StateUnauthenticated, nil, "")
		return nil
	}
	s.log.Debug(ctx, "restored session", "user", sess.User.Username)
	s.set(StateAuthenticated, sess, "")
	return nil
}

func (s *sessionService) Login(ctx context.Context, req models.LoginRequest) error {
	s.set(StateAuthenticating, nil, "")

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return s.fail(ctx, "login failed", err)
	}
	return s.establish(ctx, models.Session{Token: resp.AccessToken, User: resp.User})
}

// Bootstrap creates the first administrator, then signs in with the same
// credentials since the bootstrap endpoint issues no token.
func (s *sessionService) Bootstrap(ctx context.Context, req models.BootstrapRequest) error {
	s.set(StateAuthenticating, nil, "")

	if _, err := s.auth.Bootstrap(ctx, req); err != nil {
		return s.fail(ctx, "bootstrap failed", err)
	}

	resp, err := s.auth.Login(ctx, models.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		return s.fail(ctx, "login after bootstrap failed", err)
	}
	return s.establish(ctx, models.Session{Token: resp.AccessToken, User: resp.User})
}

func (s *sessionService) establish(ctx context.Context, sess models.Session) error {
	if err := s.store.Save(ctx, sess); err != nil {
		return s.fail(ctx, "persist session failed", fmt.Errorf("persist session: %w", err))
	}
	s.log.Info(ctx, "signed in", "user", sess.User.Username, "role", sess.User.Role)
	s.set(StateAuthenticated, &sess, "")
	return nil
}

func (s *sessionService) fail(ctx context.Context, msg string, err error) error {
	s.log.Warn(ctx, msg, "err", err)
	s.set(StateUnauthenticated, nil, api.Message(err))
	return err
}

func (s *sessionService) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err != nil {
		s.log.Error(ctx, "clear stored session", "err", err)
	}
	s.signOut()
	return err
}

// ForceLogout is the unauthorized handler of the REST client.
func (s *sessionService) ForceLogout(ctx context.Context) {
	s.log.Info(ctx, "session expired or revoked")
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "clear stored session", "err", err)
	}
	s.signOut()
}

func (s *sessionService) signOut() {
	s.mu.Lock()
	prev := s.state
	s.state = StateUnauthenticated
	s.session = nil
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(routes.Login)
	}
	if prev != StateUnauthenticated {
		s.notify(StateUnauthenticated)
	}
}

func (s *sessionService) Refresh(ctx context.Context) error {
	user, err := s.auth.Me(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil
	}
	s.session.User = *user
	s.mu.Unlock()

	if err := s.store.SaveUser(ctx, *user); err != nil {
		return fmt.Errorf("cache user: %w", err)
	}
	return nil
}

func (s *sessionService) set(state State, sess *models.Session, lastErr string) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.session = sess
	s.lastErr = lastErr
	s.mu.Unlock()

	if prev != state {
		s.notify(state)
	}
}

func (s *sessionService) notify(state State) {
	s.mu.RLock()
	fns := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *sessionService) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *sessionService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the signed-in user, or nil.
func (s *sessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

func (s *sessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// ExpiresAt reads the exp claim without verifying the signature. The
// value is informational; the server remains the authority.
func (s *sessionService) ExpiresAt() (time.Time, error) {
	token := s.Token()
	if token == "" {
		return time.Time{}, ErrNoExpiry
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

func (s *sessionService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *sessionService) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}
