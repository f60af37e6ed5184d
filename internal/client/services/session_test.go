package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
	"github.com/driftdesk/driftdesk-cli/internal/client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuth struct {
	LoginRet     *models.LoginResponse
	LoginErr     error
	BootstrapErr error
	MeRet        *models.User
	MeErr        error

	// runs inside Login before it returns, like the 401 handler does
	OnLogin func()

	LoginCalls     int
	BootstrapCalls int
	LastLogin      models.LoginRequest
	LastBootstrap  models.BootstrapRequest
}

func (f *fakeAuth) Bootstrap(_ context.Context, req models.BootstrapRequest) (*models.BootstrapResponse, error) {
	f.BootstrapCalls++
	f.LastBootstrap = req
	if f.BootstrapErr != nil {
		return nil, f.BootstrapErr
	}
	return &models.BootstrapResponse{Message: "ok", User: models.User{Username: req.Username, Role: models.RoleAdmin}}, nil
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.LoginCalls++
	f.LastLogin = req
	if f.OnLogin != nil {
		f.OnLogin()
	}
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) {
	return f.MeRet, f.MeErr
}

type fakeNav struct {
	Paths []string
}

func (f *fakeNav) Navigate(path string) routes.Route {
	f.Paths = append(f.Paths, path)
	return routes.Match(path)
}

type failingStore struct {
	SaveErr error
}

func (f *failingStore) Load(context.Context) (*models.Session, error) { return nil, nil }
func (f *failingStore) Save(context.Context, models.Session) error    { return f.SaveErr }
func (f *failingStore) SaveUser(context.Context, models.User) error   { return nil }
func (f *failingStore) Clear(context.Context) error                   { return nil }

// ---- helpers ----

var alice = models.User{ID: 2, Username: "alice", Email: "alice@desk.io", FullName: "Alice", Role: models.RoleUser, IsActive: true}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func setupStore(t *testing.T) *storage.SessionStore {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSessionStore(db)
}

func recordStates(s SessionService) *[]State {
	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })
	return &seen
}

// ---- tests ----

func TestHydrate_RestoresWithoutServer(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: "tok", User: alice}))

	auth := &fakeAuth{}
	s := NewSessionService(auth, store, nil, nil)

	require.NoError(t, s.Hydrate(ctx))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "alice", s.User().Username)
	assert.Equal(t, "tok", s.Token())
	assert.Zero(t, auth.LoginCalls)
}

func TestHydrate_EmptyStoreIsSignedOut(t *testing.T) {
	s := NewSessionService(&fakeAuth{}, setupStore(t), nil, nil)

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Nil(t, s.User())
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	auth := &fakeAuth{LoginRet: &models.LoginResponse{AccessToken: "tok-1", TokenType: "bearer", User: alice}}
	s := NewSessionService(auth, store, nil, nil)
	states := recordStates(s)

	require.NoError(t, s.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret1"}))

	assert.Equal(t, []State{StateAuthenticating, StateAuthenticated}, *states)
	assert.Equal(t, "alice", auth.LastLogin.Username)
	assert.Empty(t, s.LastError())

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok-1", stored.Token)
	assert.Equal(t, alice.Email, stored.User.Email)
}

func TestLogin_FailureRecordsMessage(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	auth := &fakeAuth{LoginErr: &api.Error{Status: 401, Message: "Incorrect username or password"}}
	s := NewSessionService(auth, store, nil, nil)
	states := recordStates(s)

	err := s.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong!"})
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Equal(t, "Incorrect username or password", s.LastError())
	assert.Equal(t, []State{StateAuthenticating, StateUnauthenticated}, *states)

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestLogin_UnauthorizedHandlerDuringLogin(t *testing.T) {
	nav := &fakeNav{}
	auth := &fakeAuth{LoginErr: &api.Error{Status: 401, Message: "Incorrect username or password"}}
	s := NewSessionService(auth, setupStore(t), nav, nil)
	auth.OnLogin = func() { s.ForceLogout(context.Background()) }

	err := s.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrong!"})
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Equal(t, "Incorrect username or password", s.LastError())
	assert.Equal(t, []string{routes.Login}, nav.Paths)
}

func TestLogin_PersistFailureIsUnauthenticated(t *testing.T) {
	auth := &fakeAuth{LoginRet: &models.LoginResponse{AccessToken: "tok", User: alice}}
	s := NewSessionService(auth, &failingStore{SaveErr: errors.New("disk full")}, nil, nil)

	err := s.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Contains(t, s.LastError(), "disk full")
}

func TestBootstrap_LogsInWithSameCredentials(t *testing.T) {
	root := models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
	auth := &fakeAuth{LoginRet: &models.LoginResponse{AccessToken: "tok-root", User: root}}
	s := NewSessionService(auth, setupStore(t), nil, nil)

	err := s.Bootstrap(context.Background(), models.BootstrapRequest{Username: "root", Email: "r@d.io", FullName: "Root", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, 1, auth.BootstrapCalls)
	assert.Equal(t, models.LoginRequest{Username: "root", Password: "secret1"}, auth.LastLogin)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.True(t, s.User().IsAdmin())
}

func TestBootstrap_FailureSkipsLogin(t *testing.T) {
	auth := &fakeAuth{BootstrapErr: &api.Error{Status: 400, Message: "System already initialized. Admin user exists."}}
	s := NewSessionService(auth, setupStore(t), nil, nil)

	err := s.Bootstrap(context.Background(), models.BootstrapRequest{Username: "root", Password: "secret1"})
	require.Error(t, err)
	assert.Zero(t, auth.LoginCalls)
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Equal(t, "System already initialized. Admin user exists.", s.LastError())
}

func TestLogout_ClearsBothAndNavigates(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: "tok", User: alice}))
	nav := &fakeNav{}
	s := NewSessionService(&fakeAuth{}, store, nav, nil)
	require.NoError(t, s.Hydrate(ctx))

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Nil(t, s.User())
	assert.Equal(t, []string{routes.Login}, nav.Paths)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestForceLogout_NotifiesOnce(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: "tok", User: alice}))
	s := NewSessionService(&fakeAuth{}, store, &fakeNav{}, nil)
	require.NoError(t, s.Hydrate(ctx))
	states := recordStates(s)

	s.ForceLogout(ctx)
	s.ForceLogout(ctx)

	assert.Equal(t, []State{StateUnauthenticated}, *states)
}

func TestRefresh_UpdatesCachedUser(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: "tok", User: alice}))

	renamed := alice
	renamed.FullName = "Alice Liddell"
	s := NewSessionService(&fakeAuth{MeRet: &renamed}, store, nil, nil)
	require.NoError(t, s.Hydrate(ctx))

	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, "Alice Liddell", s.User().FullName)

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", stored.User.FullName)
	assert.Equal(t, "tok", stored.Token)
}

func TestExpiresAt(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: signedToken(t, exp), User: alice}))

	s := NewSessionService(&fakeAuth{}, store, nil, nil)
	_, err := s.ExpiresAt()
	require.ErrorIs(t, err, ErrNoExpiry)

	require.NoError(t, s.Hydrate(ctx))
	got, err := s.ExpiresAt()
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestExpiresAt_OpaqueToken(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	require.NoError(t, store.Save(ctx, models.Session{Token: "opaque", User: alice}))
	s := NewSessionService(&fakeAuth{}, store, nil, nil)
	require.NoError(t, s.Hydrate(ctx))

	_, err := s.ExpiresAt()
	require.Error(t, err)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := NewSessionService(&fakeAuth{LoginErr: errors.New("boom")}, setupStore(t), nil, nil)
	calls := 0
	unsubscribe := s.Subscribe(func(State) { calls++ })
	unsubscribe()

	_ = s.Login(context.Background(), models.LoginRequest{})
	assert.Zero(t, calls)
}
