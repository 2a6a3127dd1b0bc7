package cli

import (
	"context"
	"fmt"
)

// Run restores the session, starts the background watchers and runs the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Storefront CLI (type 'help' for commands)")

	unsubscribe := a.session.Subscribe(a.onSessionEvent)
	defer unsubscribe()

	decision := a.session.Initialize(ctx)
	a.log.Debug(ctx, "startup decision", "decision", decision.String())

	a.session.StartAutoSync(ctx)
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()
	go func() {
		defer a.wg.Done()
		watchResume(ctx, a.Resumed)
	}()

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
