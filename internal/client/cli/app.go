package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/buildinfo"
	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/credstore"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// sessionService is the part of services.SessionCoordinator the CLI drives.
type sessionService interface {
	Initialize(ctx context.Context) models.AuthDecision
	Login(ctx context.Context, email, password string) (*models.UserProfile, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Logout(ctx context.Context) error
	Sync(ctx context.Context) models.SyncResult
	RefreshProfile(ctx context.Context) (*models.UserProfile, error)
	Decision() models.AuthDecision
	Profile() *models.UserProfile
	SyncState() models.SyncState
	Subscribe(fn func(models.Event)) (unsubscribe func())
	StartAutoSync(ctx context.Context)
	SetVisible(ctx context.Context, visible bool) models.SyncResult
	Close()
}

type badgeSource interface {
	Badge(ctx context.Context) int
}

type pinger interface {
	Ping(ctx context.Context) error
}

// App is the interactive client: it owns the REPL, the current page, the
// status line and the background watchers.
type App struct {
	config  *config.Config
	log     logging.Logger
	session sessionService
	cart    badgeSource
	health  pinger
	nav     *pageNavigator
	db      *sql.DB

	reader *bufio.Reader
	out    io.Writer

	wg sync.WaitGroup

	mu         sync.Mutex
	mode       Mode
	badge      int
	badgeStale bool
}

// NewApp opens the local database and wires the API client, the credential
// store and the session services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	userAgent := "storefront-cli/" + buildinfo.Version
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, userAgent)
	store := credstore.NewSQLite(db, credstore.WithPassphrase(c.TokenPassphrase))

	out := os.Stdout
	nav := newPageNavigator(c.StartPath, out)

	session := services.NewSessionCoordinator(api, store, nav, log, services.SessionConfig{
		SyncInterval:       c.SyncInterval,
		MinSyncInterval:    c.MinSyncInterval,
		RequestTimeout:     c.RequestTimeout,
		RegisterLoginDelay: c.RegisterLoginDelay,
		UserAgent:          userAgent,
	})
	cart := services.NewCartService(api, session, log, c.RequestTimeout)

	a := newApp(c, log, session, cart, api, nav, bufio.NewReader(os.Stdin), out)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, session sessionService, cart badgeSource, health pinger, nav *pageNavigator, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		config:     c,
		log:        log.With("component", "cli"),
		session:    session,
		cart:       cart,
		health:     health,
		nav:        nav,
		reader:     reader,
		out:        out,
		mode:       ModeOffline,
		badgeStale: true,
	}
}

// Close waits for the watchers started by Run, stops the session's
// background work and closes the database. Call it after Run returns.
func (a *App) Close() error {
	a.wg.Wait()
	a.session.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Decision().Authenticated()
}

// Resumed is called when the process comes back to the foreground after a
// suspend; it counts as the page becoming visible again.
func (a *App) Resumed(ctx context.Context) {
	a.session.SetVisible(ctx, false)
	res := a.session.SetVisible(ctx, true)
	a.log.Debug(ctx, "resumed", "sync", res.String())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
