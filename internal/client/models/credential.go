package models

import "time"

// Credential is the bearer token and the moment it was issued.
type Credential struct {
	Token    string
	IssuedAt time.Time
	// ExpiresAt is zero when the token does not carry an expiry.
	ExpiresAt time.Time
}

// Empty reports whether there is no token.
func (c *Credential) Empty() bool {
	return c == nil || c.Token == ""
}

// Expired reports whether the token carries an expiry that is not after now.
func (c *Credential) Expired(now time.Time) bool {
	if c.Empty() || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}
