package models

import "time"

// AuthDecision is the client's current belief about its authentication.
// It is derived and never persisted.
type AuthDecision int

const (
	Unauthenticated AuthDecision = iota
	// AuthenticatedLocal means a token is held but the server has not
	// confirmed it during this process lifetime.
	AuthenticatedLocal
	// AuthenticatedSynced means at least one sync succeeded since the token
	// was obtained or loaded.
	AuthenticatedSynced
)

func (d AuthDecision) String() string {
	switch d {
	case AuthenticatedLocal:
		return "authenticated-local"
	case AuthenticatedSynced:
		return "authenticated-synced"
	default:
		return "unauthenticated"
	}
}

// Authenticated is true for both authenticated states.
func (d AuthDecision) Authenticated() bool {
	return d != Unauthenticated
}

// SyncState is transient bookkeeping for background synchronisation.
type SyncState struct {
	// LastSyncAt is the time of the last successful sync, nil if none.
	LastSyncAt *time.Time
	// LastAttemptAt is when the last sync request was issued.
	LastAttemptAt *time.Time
	InFlight      bool
}

// SyncResult tells the caller what a Sync call did.
type SyncResult int

const (
	SyncSkipped SyncResult = iota
	SyncSynced
	SyncFailed
	// SyncDiscarded means the response arrived after the session it was
	// requested for had ended.
	SyncDiscarded
)

func (r SyncResult) String() string {
	switch r {
	case SyncSynced:
		return "synced"
	case SyncFailed:
		return "failed"
	case SyncDiscarded:
		return "discarded"
	default:
		return "skipped"
	}
}
