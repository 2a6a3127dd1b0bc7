package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/credstore"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake API ----

type fakeAPI struct {
	mu sync.Mutex

	// LoginFn, when set, replaces LoginResp/LoginErr.
	LoginFn   func(ctx context.Context) (*models.LoginResponse, error)
	LoginResp *models.LoginResponse
	LoginErr  error

	RegisterResp *models.RegisterResponse
	RegisterErr  error

	CreateSessionErr error

	// SyncFn, when set, replaces SyncResp/SyncErr.
	SyncFn   func(ctx context.Context) (*models.SyncResponse, error)
	SyncResp *models.SyncResponse
	SyncErr  error

	LogoutErr error

	ProfileResp *models.UserProfile
	ProfileErr  error

	// CartFn, when set, replaces CartResp/CartErr.
	CartFn   func(ctx context.Context) (*models.CartSummary, error)
	CartResp *models.CartSummary
	CartErr  error

	PingErr error

	// captured
	LoginCalls    []models.LoginRequest
	RegisterCalls []models.RegisterRequest
	SessionCalls  []models.SessionRequest
	SyncCalls     []*time.Time
	LogoutCalls   int
	ProfileCalls  int
	CartCalls     int
	Token         string
	TokenAtLogout string
}

func (f *fakeAPI) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.mu.Lock()
	f.LoginCalls = append(f.LoginCalls, req)
	fn, resp, err := f.LoginFn, f.LoginResp, f.LoginErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return resp, err
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls = append(f.RegisterCalls, req)
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeAPI) CreateSession(_ context.Context, req models.SessionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionCalls = append(f.SessionCalls, req)
	return f.CreateSessionErr
}

func (f *fakeAPI) Sync(ctx context.Context, lastSync *time.Time) (*models.SyncResponse, error) {
	f.mu.Lock()
	f.SyncCalls = append(f.SyncCalls, lastSync)
	fn, resp, err := f.SyncFn, f.SyncResp, f.SyncErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if resp == nil && err == nil {
		resp = &models.SyncResponse{}
	}
	return resp, err
}

func (f *fakeAPI) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	f.TokenAtLogout = f.Token
	return f.LogoutErr
}

func (f *fakeAPI) Profile(context.Context) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProfileCalls++
	return f.ProfileResp, f.ProfileErr
}

func (f *fakeAPI) Cart(ctx context.Context) (*models.CartSummary, error) {
	f.mu.Lock()
	f.CartCalls++
	fn, resp, err := f.CartFn, f.CartResp, f.CartErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return resp, err
}

func (f *fakeAPI) Ping(context.Context) error { return f.PingErr }

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeAPI) syncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.SyncCalls)
}

func (f *fakeAPI) token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token
}

// ---- navigator ----

type recordingNav struct {
	mu      sync.Mutex
	path    string
	visited []string
}

func newNav(path string) *recordingNav { return &recordingNav{path: path} }

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.visited = append(n.visited, path)
}

func (n *recordingNav) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *recordingNav) redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visited...)
}

// ---- clock ----

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ---- store wrapper with injected failures ----

type faultyStore struct {
	CredentialStore
	LoadErr      error
	SaveLoginErr error
	ClearErr     error
}

func (s *faultyStore) Load(ctx context.Context) (*credstore.Snapshot, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.CredentialStore.Load(ctx)
}

func (s *faultyStore) SaveLogin(ctx context.Context, token string, p *models.UserProfile) (*models.Credential, error) {
	if s.SaveLoginErr != nil {
		return nil, s.SaveLoginErr
	}
	return s.CredentialStore.SaveLogin(ctx, token, p)
}

func (s *faultyStore) Clear(ctx context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	return s.CredentialStore.Clear(ctx)
}

// ---- fixture ----

type fixture struct {
	api   *fakeAPI
	store *credstore.Store
	nav   *recordingNav
	clock *fakeClock
	c     *SessionCoordinator
}

func testConfig() SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.RegisterLoginDelay = 0
	return cfg
}

func newFixture(t *testing.T, path string, opts ...Option) *fixture {
	t.Helper()
	clock := newClock()
	f := &fixture{
		api:   &fakeAPI{},
		store: credstore.NewMemory(metadata.NewMemoryRepository(), credstore.WithClock(clock.Now)),
		nav:   newNav(path),
		clock: clock,
	}
	opts = append([]Option{WithClock(f.clock.Now)}, opts...)
	f.c = NewSessionCoordinator(f.api, f.store, f.nav, logging.Nop(), testConfig(), opts...)
	t.Cleanup(f.c.Close)
	return f
}

// seed stores a session as a previous run would have.
func (f *fixture) seed(t *testing.T, token string, p *models.UserProfile) {
	t.Helper()
	_, err := f.store.SaveLogin(context.Background(), token, p)
	require.NoError(t, err)
}

func (f *fixture) snapshot(t *testing.T) *credstore.Snapshot {
	t.Helper()
	snap, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return snap
}

// setLogin replaces the login response under the fake's lock.
func (f *fixture) setLogin(resp *models.LoginResponse, fn func(ctx context.Context) (*models.LoginResponse, error)) {
	f.api.mu.Lock()
	defer f.api.mu.Unlock()
	f.api.LoginResp = resp
	f.api.LoginFn = fn
}

// signIn puts the coordinator in AuthenticatedLocal through Login.
func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	f.api.LoginResp = &models.LoginResponse{Token: "T1", User: &models.UserProfile{ID: 1, FirstName: "A"}}
	_, err := f.c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
}
