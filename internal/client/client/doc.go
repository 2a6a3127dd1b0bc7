// Package client contains the storefront backend client and the local
// database bootstrap.
//
// # Overview
//
//  1. Client is the API contract the session layer depends on: Login,
//     Register, CreateSession, Sync, Logout, Profile, Cart and Ping.
//  2. HTTPClient implements it over REST/JSON. It attaches the bearer token
//     set with SetToken, tags each request with an X-Request-ID, and sends
//     X-Last-Sync on sync calls.
//  3. InitDatabase and RunMigrations open the local SQLite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Every non-2xx response is returned as *APIError carrying the server's
// message. It unwraps to one of the sentinels, so callers can use errors.Is:
//
//   - ErrUnauthorized: 401, 403
//   - ErrValidation:   400, 409, 422
//   - ErrUnavailable:  502, 503, 504 and transport failures or timeouts
//   - ErrServer:       any other 5xx
//
// HTTPClient is safe for concurrent use.
package client
