package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Client is the storefront backend API as seen by the session layer.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	CreateSession(ctx context.Context, req models.SessionRequest) error
	// Sync asks the server for profile changes since lastSync (nil means
	// never synced).
	Sync(ctx context.Context, lastSync *time.Time) (*models.SyncResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.UserProfile, error)
	Cart(ctx context.Context) (*models.CartSummary, error)
	Ping(ctx context.Context) error

	// SetToken sets the bearer token sent with every following request;
	// an empty token sends none.
	SetToken(token string)
}
