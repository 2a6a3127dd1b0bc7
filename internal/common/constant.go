// Package common contains shared constants and helpers used across the
// storefront client packages.
package common

// Header names understood by the storefront backend.
const (
	// AuthorizationHeaderName carries "Bearer <token>" on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// LastSyncHeaderName carries the epoch milliseconds of the last successful
	// sync, or "0" when the client never synced.
	LastSyncHeaderName = "X-Last-Sync"

	// RequestIDHeaderName tags every outbound request with a fresh UUID.
	RequestIDHeaderName = "X-Request-ID"
)

// Well-known page paths used by the redirect rules.
const (
	HomePath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
)
