package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/guard"
	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Open moves to path, applying the guard as a page load would.
func (a *App) Open(_ context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("usage: open <path>")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	a.nav.Navigate(path)
	if act := guard.Evaluate(path, a.session.Decision()); act.Redirect {
		a.nav.Navigate(act.To)
	}
	return nil
}

// Sync forces a session sync and reports what happened.
func (a *App) Sync(ctx context.Context) error {
	res := a.session.Sync(ctx)
	switch res {
	case models.SyncSkipped:
		a.println("Sync skipped (signed out, already running, or synced less than", a.config.MinSyncInterval, "ago).")
	default:
		a.println("Sync", res.String()+".")
	}
	return nil
}

// Profile reloads the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.session.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

// WhoAmI prints the cached session without touching the network.
func (a *App) WhoAmI(_ context.Context) error {
	decision := a.session.Decision()
	a.println("Session:", decision.String())
	if !decision.Authenticated() {
		return nil
	}

	a.printProfile(a.session.Profile())
	if st := a.session.SyncState(); st.LastSyncAt != nil {
		a.println("Last sync:", st.LastSyncAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Cart reloads and prints the cart badge.
func (a *App) Cart(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Sign in to see your cart.")
		return nil
	}
	a.println("Items in cart:", a.cartBadge(ctx, true))
	return nil
}

func (a *App) printProfile(p *models.UserProfile) {
	if p == nil {
		return
	}
	a.println("Name:   ", strings.TrimSpace(p.FirstName+" "+p.LastName))
	a.println("Email:  ", p.Email)
	if p.Phone != "" {
		a.println("Phone:  ", p.Phone)
	}
	if p.Address != "" {
		a.println("Address:", p.Address)
	}
	if p.Role != "" {
		a.println("Role:   ", p.Role)
	}
}
