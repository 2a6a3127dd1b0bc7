//go:build !unix

package cli

import "context"

// watchResume is a no-op where processes cannot be suspended and resumed.
func watchResume(ctx context.Context, _ func(ctx context.Context)) {
	<-ctx.Done()
}
