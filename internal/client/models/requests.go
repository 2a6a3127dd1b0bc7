package models

import "time"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ClientTimestamp int64  `json:"client_timestamp,omitempty"`
	HasLocalData    bool   `json:"has_local_data"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Password        string `json:"password"`
	ClientTimestamp int64  `json:"client_timestamp,omitempty"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    *UserProfile `json:"user"`
}

// SessionRequest is the body of POST /auth/session, the server-side session
// bookkeeping call made after a login.
type SessionRequest struct {
	UserID     string         `json:"user_id"`
	LoginTime  string         `json:"login_time"`
	UserAgent  string         `json:"user_agent"`
	ClientData map[string]any `json:"client_data"`
}

// SyncResponse is returned by GET /auth/sync. User is nil when the server
// has nothing newer.
type SyncResponse struct {
	User     *UserProfile `json:"user,omitempty"`
	SyncedAt string       `json:"synced_at,omitempty"`
}

// CartSummary is the part of GET /cart the badge needs.
type CartSummary struct {
	ItemCount int `json:"item_count"`
}

// Event is delivered to session observers after every change of decision or
// profile.
type Event struct {
	Decision AuthDecision
	Profile  *UserProfile
	At       time.Time
}
