package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	ErrShortSecret = errors.New("jwtx: secret must be at least 32 bytes")
)

// Signer is our interface for anything that can sign token claims.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Codec signs and verifies HS256 tokens with a process-wide symmetric secret.
// The secret is injected once at construction and read-only afterwards;
// rotating it invalidates every outstanding token, which is accepted
// operational reality rather than a bug.
//
// Expiry validation is strict: no clock-skew leeway is applied.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a Codec from the given secret. The issuer, when non-empty,
// is stamped into issued tokens and enforced on verification.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	return &Codec{secret: secret, issuer: issuer}, nil
}

// Issue signs fresh claims for the given category and subject using the
// codec's issuer and the current time.
func (c *Codec) Issue(category, subject, username, role string, ttl time.Duration) (string, error) {
	return c.Sign(NewClaims(category, subject, username, role, ttl, c.issuer, time.Now().UTC()))
}

func (c *Codec) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses the token, checks the HS256 signature and expiry, and returns
// the claims. Failures are reported as ErrMalformed, ErrInvalidSig,
// ErrExpired, or ErrIssuer; callers pattern-match with errors.Is.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidClaim
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return Claims{}, ErrIssuer
	}
	return claims, nil
}

// mapParseError flattens golang-jwt's wrapped errors into our sentinel kinds
// so callers never depend on the library's error tree.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidClaim
	}
}
