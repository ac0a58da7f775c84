package domain

import "time"

// TokenPair is what a successful login or reissue produces: the short-lived
// access token and the longer-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"` // seconds until access expiry
}

// RefreshCredential models the stored refresh token record in the DB. Only
// the fingerprint of the token value is persisted, never the token itself.
type RefreshCredential struct {
	ID        string
	SubjectID string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	CreatedAt time.Time
}
