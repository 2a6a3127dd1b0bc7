// Package metadata persists the client's key/value metadata (auth token,
// cached profile, sync bookkeeping) in the local SQLite database.
//
// The table is created by the embedded goose migrations:
//
//	CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);
//
// SQLiteRepository works over a dbx.DBTX, so binding it to a *sql.Tx makes a
// group of writes atomic.
package metadata
