//go:build unix

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// watchResume calls fn every time the process is continued after being
// suspended (SIGCONT), until ctx is done.
func watchResume(ctx context.Context, fn func(ctx context.Context)) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGCONT)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			fn(ctx)
		}
	}
}
