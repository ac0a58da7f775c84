package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit verifies the strict limit on the login endpoint with
// production defaults: repeated attempts from one IP for one identifier hit
// a 429 before long.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()

	signup(t, baseURL, testUsername, testPassword)

	var limited bool
	for i := 0; i < 20; i++ {
		resp := postJSON(t, baseURL+"/login", map[string]string{
			"identifier": testUsername,
			"secret":     "wrong-password",
		})
		status := resp.StatusCode
		if status == http.StatusTooManyRequests {
			require.NotEmpty(t, resp.Header.Get("Retry-After"))
			limited = true
			resp.Body.Close()
			break
		}
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, status)
	}
	require.True(t, limited, "repeated login attempts should be rate limited")
}
