package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token categories. A token's category is fixed at issuance: an access token
// must never be accepted where a refresh token is required, and vice versa.
const (
	CategoryAccess  = "access"
	CategoryRefresh = "refresh"
)

// Default token TTLs. Access tokens stay short so a stolen bearer credential
// has a small window; refresh tokens live about a day and are store-backed so
// they can be revoked.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims are the token claims shared by access and refresh tokens. We keep
// changes additive to preserve compatibility for later.
type Claims struct {
	jwt.RegisteredClaims

	// Category is "access" or "refresh". Set once at issuance.
	Category string `json:"cat,omitempty"`

	// Role the subject held when the token was issued.
	Role string `json:"role,omitempty"`

	// Username for the authenticated user, mainly for display and logging.
	Username string `json:"username,omitempty"`
}

// NewClaims builds minimally-correct claims for the given category.
func NewClaims(
	category, subject, username, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Category: category,
		Role:     role,
		Username: username,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// IsAccess reports whether the claims belong to an access token.
func (c *Claims) IsAccess() bool { return c.Category == CategoryAccess }

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool { return c.Category == CategoryRefresh }
