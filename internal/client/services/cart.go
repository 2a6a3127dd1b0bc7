package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Session is the part of the coordinator other authenticated services use.
type Session interface {
	Decision() models.AuthDecision
	Generation() uint64
	HandleUnauthorized(ctx context.Context, gen uint64)
}

// CartService feeds the cart badge in the navbar.
type CartService struct {
	api     client.Client
	session Session
	log     logging.Logger
	timeout time.Duration
}

// NewCartService builds a CartService; timeout bounds each cart request.
func NewCartService(api client.Client, session Session, log logging.Logger, timeout time.Duration) *CartService {
	return &CartService{api: api, session: session, log: log.With("component", "cart"), timeout: timeout}
}

// Badge returns the number of items in the cart, or 0 when signed out or
// when the cart cannot be read. A 401 ends the session.
func (s *CartService) Badge(ctx context.Context) int {
	gen := s.session.Generation()
	if !s.session.Decision().Authenticated() {
		return 0
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cart, err := s.api.Cart(rctx)
	if errors.Is(err, client.ErrUnauthorized) {
		s.session.HandleUnauthorized(ctx, gen)
		return 0
	}
	if err != nil {
		s.log.Warn(ctx, "failed to load cart count", "error", err)
		return 0
	}
	return max(cart.ItemCount, 0)
}
