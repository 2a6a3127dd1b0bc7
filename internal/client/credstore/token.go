package credstore

import (
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// credentialFromToken reads iat and exp from a JWT without verifying it; the
// signature is the server's business. Opaque tokens are issued now.
func credentialFromToken(token string, now time.Time) *models.Credential {
	cred := &models.Credential{Token: token, IssuedAt: now}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return cred
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		cred.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		cred.ExpiresAt = exp.Time
	}
	return cred
}
