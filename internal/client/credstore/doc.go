// Package credstore persists the signed-in session across restarts: the
// bearer token, the cached user profile and the sync bookkeeping.
//
// Values live in the metadata key/value table under these keys:
//
//	auth_token       bearer token, sealed with AES-GCM when a passphrase is set
//	token_issued_at  RFC 3339 time the token was issued
//	user_data        JSON-encoded models.UserProfile
//	last_sync_time   epoch milliseconds of the last successful sync
//	session_synced   "true" once a sync succeeded
//	client_id        per-install UUID, kept across logouts
//	token_salt       Argon2id salt for the sealing key, kept across logouts
//
// Every mutating method runs in a single transaction, so the token and the
// profile are always written and cleared together.
package credstore
