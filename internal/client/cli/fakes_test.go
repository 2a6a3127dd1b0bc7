package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/fatih/color"
)

type fakeSession struct {
	mu sync.Mutex

	decision models.AuthDecision
	profile  *models.UserProfile
	state    models.SyncState

	loginProfile *models.UserProfile
	loginErr     error
	loginEmail   string
	loginPass    string

	registerReq     models.RegisterRequest
	registerProfile *models.UserProfile
	registerErr     error
	registerSignsIn bool

	logoutErr   error
	logoutCalls int

	syncResult models.SyncResult
	syncCalls  int

	refreshProfile *models.UserProfile
	refreshErr     error

	visible []bool

	initialized bool
	autoSync    bool
	closed      bool
	subscribers []func(models.Event)
}

func (f *fakeSession) Initialize(context.Context) models.AuthDecision {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized = true
	return f.decision
}

func (f *fakeSession) Login(_ context.Context, email, password string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.decision = models.AuthenticatedLocal
	f.profile = f.loginProfile
	return f.loginProfile, nil
}

func (f *fakeSession) Register(_ context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerReq = req
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if f.registerSignsIn {
		f.decision = models.AuthenticatedLocal
		f.profile = f.registerProfile
	}
	return f.registerProfile, nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.decision = models.Unauthenticated
	f.profile = nil
	return f.logoutErr
}

func (f *fakeSession) Sync(context.Context) models.SyncResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	return f.syncResult
}

func (f *fakeSession) RefreshProfile(context.Context) (*models.UserProfile, error) {
	return f.refreshProfile, f.refreshErr
}

func (f *fakeSession) Decision() models.AuthDecision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decision
}

func (f *fakeSession) Profile() *models.UserProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile.Clone()
}

func (f *fakeSession) SyncState() models.SyncState { return f.state }

func (f *fakeSession) Subscribe(fn func(models.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
	return func() {}
}

func (f *fakeSession) StartAutoSync(context.Context) {
	f.mu.Lock()
	f.autoSync = true
	f.mu.Unlock()
}

func (f *fakeSession) SetVisible(_ context.Context, v bool) models.SyncResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = append(f.visible, v)
	if v {
		return models.SyncSynced
	}
	return models.SyncSkipped
}

func (f *fakeSession) Close() { f.closed = true }

type fakeBadge struct {
	n     int
	calls int
}

func (f *fakeBadge) Badge(context.Context) int {
	f.calls++
	return f.n
}

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
	// holdUntilDone makes Ping return only once ctx is done.
	holdUntilDone bool
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.mu.Lock()
	hold := f.holdUntilDone
	f.mu.Unlock()
	if hold {
		<-ctx.Done()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePinger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testApp struct {
	*App
	session *fakeSession
	badge   *fakeBadge
	pinger  *fakePinger
	out     *bytes.Buffer
	logs    *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var cfg config.Config
	cfg.LoadDefaults()

	ta := &testApp{
		session: &fakeSession{},
		badge:   &fakeBadge{},
		pinger:  &fakePinger{},
		out:     &bytes.Buffer{},
		logs:    &bytes.Buffer{},
	}
	nav := newPageNavigator(cfg.StartPath, io.Discard)
	ta.App = newApp(&cfg, logging.New(ta.logs, "debug", "text"), ta.session, ta.badge, ta.pinger, nav,
		bufio.NewReader(strings.NewReader(input)), ta.out)
	return ta
}

// stubInputs answers text prompts in order and returns password for the
// password prompt.
func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) { return []byte(password), nil }
}
