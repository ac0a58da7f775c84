package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// base64url encoded. Stores keep fingerprints instead of raw token values so
// a database leak never hands out live credentials; lookups stay value-keyed
// because the same value always maps to the same fingerprint.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// LoadOrGenerateSecret loads the token-signing secret from path, generating
// and persisting a fresh one when no file exists. Replacing the file
// invalidates all outstanding tokens on next start.
func LoadOrGenerateSecret(path string) ([]byte, error) {
	key, err := loadOrGenerateKeyFile(path)
	if err != nil {
		return nil, err
	}
	return []byte(key), nil
}
