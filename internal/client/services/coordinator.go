package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/credstore"
	"github.com/dmitrijs2005/storefront/internal/client/guard"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrSessionChanged is returned by Login when the session was ended or
	// replaced while the request was in flight. The response is dropped.
	ErrSessionChanged = errors.New("session changed during login")
)

// CredentialStore is the persisted side of the session.
type CredentialStore interface {
	Load(ctx context.Context) (*credstore.Snapshot, error)
	SaveLogin(ctx context.Context, token string, profile *models.UserProfile) (*models.Credential, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	MarkSynced(ctx context.Context, at time.Time, profile *models.UserProfile) error
	Clear(ctx context.Context) error
	ClientID(ctx context.Context) (string, error)
}

// SessionConfig holds the coordinator timings.
type SessionConfig struct {
	// SyncInterval is the period of StartAutoSync.
	SyncInterval time.Duration
	// MinSyncInterval is the minimum time between two issued sync requests.
	MinSyncInterval time.Duration
	// RequestTimeout bounds every API call.
	RequestTimeout time.Duration
	// RegisterLoginDelay is the pause between a successful registration and
	// the automatic login.
	RegisterLoginDelay time.Duration
	// UserAgent is reported to the server when a session is created.
	UserAgent string
}

// DefaultSessionConfig returns the production timings: sync every 5m, at
// most every 30s, 10s per request and a 2s pause before the post-register
// login.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SyncInterval:       5 * time.Minute,
		MinSyncInterval:    30 * time.Second,
		RequestTimeout:     10 * time.Second,
		RegisterLoginDelay: 2 * time.Second,
		UserAgent:          "storefront-cli",
	}
}

// Option customizes a SessionCoordinator.
type Option func(*SessionCoordinator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *SessionCoordinator) { c.now = now }
}

// WithSleep replaces the context-aware sleep used for the register delay.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *SessionCoordinator) { c.sleep = sleep }
}

// SessionCoordinator decides whether the user is signed in, as whom, and
// whether that was confirmed by the server.
//
// Contract:
//   - The store and the in-memory cache are written under the same lock, so
//     once a call returns they agree about token presence.
//   - Network calls are never made while holding the lock.
//   - Every login, logout and forced sign-out bumps a generation counter;
//     responses issued under an older generation are discarded.
//   - Sync failures are logged and never change the decision.
type SessionCoordinator struct {
	api   client.Client
	store CredentialStore
	nav   guard.Navigator
	log   logging.Logger
	cfg   SessionConfig
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu         sync.Mutex
	decision   models.AuthDecision
	cred       *models.Credential
	profile    *models.UserProfile
	syncState  models.SyncState
	lastSynced *time.Time // persisted last_sync_time, sent as X-Last-Sync
	generation uint64
	visible    bool

	obsMu     sync.Mutex
	observers map[uint64]func(models.Event)
	nextObsID uint64

	bgCtx    context.Context
	bgCancel context.CancelFunc
	wg       sync.WaitGroup
}

// NewSessionCoordinator builds a coordinator in the Unauthenticated state.
// Call Initialize to restore a persisted session and Close to stop
// background syncs.
func NewSessionCoordinator(api client.Client, store CredentialStore, nav guard.Navigator, log logging.Logger, cfg SessionConfig, opts ...Option) *SessionCoordinator {
	bgCtx, cancel := context.WithCancel(context.Background())
	c := &SessionCoordinator{
		api:       api,
		store:     store,
		nav:       nav,
		log:       log.With("component", "session"),
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepCtx,
		visible:   true,
		observers: make(map[uint64]func(models.Event)),
		bgCtx:     bgCtx,
		bgCancel:  cancel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize restores the persisted session without touching the network,
// applies the guard and, when signed in, starts a background sync.
func (c *SessionCoordinator) Initialize(ctx context.Context) models.AuthDecision {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "stored session unreadable, starting signed out", "error", err)
		snap = nil
	}

	c.mu.Lock()
	c.generation++
	switch {
	case snap.HasSession() && !snap.Credential.Expired(c.now()):
		c.cred = snap.Credential
		c.profile = snap.Profile
		c.lastSynced = snap.LastSync
		c.syncState.LastSyncAt = nil
		c.decision = models.AuthenticatedLocal
		c.api.SetToken(c.cred.Token)
	default:
		if err != nil || (snap != nil && (snap.Credential != nil || snap.Profile != nil)) {
			if cerr := c.store.Clear(ctx); cerr != nil {
				c.log.Error(ctx, "failed to clear stored session", "error", cerr)
			}
		}
		c.resetLocked()
	}
	ev := c.eventLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "session initialized", "decision", ev.Decision.String())
	c.publish(ev)
	c.applyGuard(ev.Decision)

	if ev.Decision.Authenticated() {
		c.goSync()
	}
	return ev.Decision
}

// Login authenticates with the server and stores the new session. On
// failure all local session state is cleared and the API error returned.
// A response that arrives after the session was ended or replaced is
// dropped with ErrSessionChanged.
func (c *SessionCoordinator) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	if email == "" || password == "" {
		c.signOutLocal(ctx, "login failed")
		return nil, common.ErrEmptyCredentials
	}

	c.mu.Lock()
	hasLocal := c.cred != nil
	gen := c.generation
	c.mu.Unlock()

	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	resp, err := c.api.Login(rctx, models.LoginRequest{
		Email:           email,
		Password:        password,
		ClientTimestamp: c.now().UnixMilli(),
		HasLocalData:    hasLocal,
	})
	cancel()
	if err != nil {
		if c.Generation() == gen {
			c.signOutLocal(ctx, "login failed")
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	profile := resp.User
	if profile == nil {
		profile = &models.UserProfile{Email: email}
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		c.log.Info(ctx, "discarding login response for a changed session")
		return nil, ErrSessionChanged
	}
	cred, err := c.store.SaveLogin(ctx, resp.Token, profile)
	if err != nil {
		c.mu.Unlock()
		c.signOutLocal(ctx, "login not persisted")
		return nil, fmt.Errorf("login: %w", err)
	}
	c.generation++
	c.cred = cred
	c.profile = profile.Clone()
	c.lastSynced = nil
	c.syncState.LastSyncAt = nil
	c.decision = models.AuthenticatedLocal
	c.api.SetToken(cred.Token)
	ev := c.eventLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "signed in", "user_id", profile.ID)
	c.createSession(ctx, profile)
	c.publish(ev)
	c.nav.Navigate(common.HomePath)

	return profile.Clone(), nil
}

// Register creates an account and then signs in with the same credentials
// after RegisterLoginDelay. When that automatic login fails the user is sent
// to the login page and the registered profile is still returned. A failed
// registration leaves any existing session alone.
func (c *SessionCoordinator) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrEmptyCredentials
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, common.ErrEmptyName
	}
	req.ClientTimestamp = c.now().UnixMilli()

	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	resp, err := c.api.Register(rctx, req)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	registered := resp.User
	if registered == nil {
		registered = &models.UserProfile{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	}
	c.log.Info(ctx, "registered", "user_id", registered.ID)

	if err := c.sleep(ctx, c.cfg.RegisterLoginDelay); err != nil {
		return registered, err
	}

	profile, err := c.Login(ctx, req.Email, req.Password)
	if err != nil {
		c.log.Warn(ctx, "automatic login after registration failed", "error", err)
		c.nav.Navigate(common.LoginPath)
		return registered, nil
	}
	return profile, nil
}

// Logout tells the server (best effort) and then clears the local session
// unconditionally.
func (c *SessionCoordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	signedIn := c.cred != nil
	c.mu.Unlock()

	if signedIn {
		rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		if err := c.api.Logout(rctx); err != nil {
			c.log.Warn(ctx, "server logout failed", "error", err)
		}
		cancel()
	}

	err := c.signOutLocal(ctx, "logout")
	c.nav.Navigate(common.LoginPath)
	return err
}

// RefreshProfile fetches the profile from the server and replaces the
// cached copy. A 401 ends the session.
func (c *SessionCoordinator) RefreshProfile(ctx context.Context) (*models.UserProfile, error) {
	c.mu.Lock()
	if !c.decision.Authenticated() {
		c.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	gen := c.generation
	c.mu.Unlock()

	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	profile, err := c.api.Profile(rctx)
	cancel()
	if errors.Is(err, client.ErrUnauthorized) {
		c.handleUnauthorized(ctx, gen)
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return profile, nil
	}
	if err := c.store.SaveProfile(ctx, profile); err != nil {
		c.log.Warn(ctx, "failed to persist profile", "error", err)
	}
	c.profile = profile.Clone()
	ev := c.eventLocked()
	c.mu.Unlock()

	c.publish(ev)
	return profile.Clone(), nil
}

// Generation identifies the current session. It changes on every login,
// logout and forced sign-out, so callers capture it before a request and
// pass it back with the response.
func (c *SessionCoordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// HandleUnauthorized ends the session that was current at gen after an
// authenticated endpoint other than sync answered 401. A 401 belonging to
// an earlier session is ignored.
func (c *SessionCoordinator) HandleUnauthorized(ctx context.Context, gen uint64) {
	c.handleUnauthorized(ctx, gen)
}

func (c *SessionCoordinator) handleUnauthorized(ctx context.Context, gen uint64) {
	c.mu.Lock()
	stale := c.generation != gen || !c.decision.Authenticated()
	c.mu.Unlock()
	if stale {
		return
	}

	c.log.Warn(ctx, "server rejected the token, signing out")
	_ = c.signOutLocal(ctx, "unauthorized")
	c.nav.Navigate(common.LoginPath)
}

// Decision returns the current authentication decision.
func (c *SessionCoordinator) Decision() models.AuthDecision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

// Profile returns a copy of the cached profile, nil when signed out.
func (c *SessionCoordinator) Profile() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.Clone()
}

// Token returns the bearer token, empty when signed out.
func (c *SessionCoordinator) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cred == nil {
		return ""
	}
	return c.cred.Token
}

// Credential returns a copy of the held credential, nil when signed out.
func (c *SessionCoordinator) Credential() *models.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cred == nil {
		return nil
	}
	cp := *c.cred
	return &cp
}

// SyncState returns a copy of the sync bookkeeping.
func (c *SessionCoordinator) SyncState() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.syncState
	s.LastSyncAt = copyTime(s.LastSyncAt)
	s.LastAttemptAt = copyTime(s.LastAttemptAt)
	return s
}

// Close stops background work and waits for it.
func (c *SessionCoordinator) Close() {
	c.bgCancel()
	c.wg.Wait()
}

// signOutLocal clears the store and the cache together. It does not
// navigate.
func (c *SessionCoordinator) signOutLocal(ctx context.Context, reason string) error {
	c.mu.Lock()
	err := c.store.Clear(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to clear stored session", "error", err)
		err = fmt.Errorf("sign out: %w", err)
	}
	c.generation++
	c.resetLocked()
	ev := c.eventLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "signed out", "reason", reason)
	c.publish(ev)
	return err
}

func (c *SessionCoordinator) resetLocked() {
	c.cred = nil
	c.profile = nil
	c.lastSynced = nil
	c.syncState.LastSyncAt = nil
	c.decision = models.Unauthenticated
	c.api.SetToken("")
}

func (c *SessionCoordinator) eventLocked() models.Event {
	return models.Event{Decision: c.decision, Profile: c.profile.Clone(), At: c.now()}
}

// applyGuard redirects away from pages the decision does not allow.
func (c *SessionCoordinator) applyGuard(decision models.AuthDecision) {
	if a := guard.Evaluate(c.nav.CurrentPath(), decision); a.Redirect {
		c.nav.Navigate(a.To)
	}
}

// createSession registers the login with the server's session store. Errors
// are logged only.
func (c *SessionCoordinator) createSession(ctx context.Context, profile *models.UserProfile) {
	clientData := map[string]any{"platform": runtime.GOOS + "/" + runtime.GOARCH}
	if id, err := c.store.ClientID(ctx); err != nil {
		c.log.Warn(ctx, "client id unavailable", "error", err)
	} else {
		clientData["client_id"] = id
	}

	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	err := c.api.CreateSession(rctx, models.SessionRequest{
		UserID:     strconv.FormatUint(uint64(profile.ID), 10),
		LoginTime:  c.now().UTC().Format(time.RFC3339),
		UserAgent:  c.cfg.UserAgent,
		ClientData: clientData,
	})
	if err != nil {
		c.log.Warn(ctx, "failed to create server session", "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
