// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the local SQLite credential store, the REST API
// client and the session services, then runs a REPL. The CLI keeps a
// "current page" path that the session guard can redirect, shows a status
// line with connectivity, user, cart badge and page, and treats resuming
// from a suspend (SIGCONT) as the page becoming visible again, which
// triggers a session sync.
//
// Commands:
//   - open <path>  move to a page (login and register pages bounce to / when signed in)
//   - login, register, logout
//   - whoami       cached session; profile reloads it from the server
//   - cart         item count
//   - sync         force a session sync
//   - exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
