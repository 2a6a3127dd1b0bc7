// Package models holds the client-side data model of the storefront session.
package models

import "time"

// UserProfile is the client's cached copy of the server-owned user record.
// Field names follow the backend JSON.
type UserProfile struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DisplayName is what the navbar shows for a signed-in user.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// IsAdmin reports whether the backend granted the admin role.
func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// Clone returns a deep copy so callers cannot mutate the coordinator cache.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
