package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/fatih/color"
)

// Mode is the connectivity shown in the status line.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

var (
	onlineColor  = color.New(color.FgGreen)
	offlineColor = color.New(color.FgRed)
	userColor    = color.New(color.FgCyan, color.Bold)
	pathColor    = color.New(color.FgYellow)
)

// Mode returns the last observed connectivity.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// checkOnline probes the backend once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	err := a.health.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the backend now and then every interval
// until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// onSessionEvent marks the cart badge for reload after any session change.
func (a *App) onSessionEvent(ev models.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ev.Decision.Authenticated() {
		a.badgeStale = true
	} else {
		a.badge = 0
		a.badgeStale = false
	}
}

func (a *App) cartBadge(ctx context.Context, force bool) int {
	a.mu.Lock()
	stale := a.badgeStale || force
	a.mu.Unlock()
	if !stale {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.badge
	}

	n := a.cart.Badge(ctx)

	a.mu.Lock()
	a.badge = n
	a.badgeStale = false
	a.mu.Unlock()
	return n
}

// getStatus renders the navbar: connectivity, user, cart badge and page.
func (a *App) getStatus(ctx context.Context) string {
	var parts []string

	switch a.Mode() {
	case ModeOnline:
		parts = append(parts, onlineColor.Sprint(string(ModeOnline)))
	case ModeOffline:
		parts = append(parts, offlineColor.Sprint(string(ModeOffline)))
	}

	decision := a.session.Decision()
	if decision.Authenticated() {
		user := a.session.Profile().DisplayName()
		if decision == models.AuthenticatedLocal {
			user += "*"
		}
		parts = append(parts, userColor.Sprint(user))
		if n := a.cartBadge(ctx, false); n > 0 {
			parts = append(parts, fmt.Sprintf("cart:%d", n))
		}
	} else {
		parts = append(parts, "guest")
	}

	parts = append(parts, pathColor.Sprint(a.nav.CurrentPath()))
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}
