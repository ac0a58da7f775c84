package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSignupAndLoginFlow covers the happy path: register, login, use the
// access token, refresh, logout.
func TestSignupAndLoginFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	signup(t, baseURL, testUsername, testPassword)

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/signup", map[string]string{
			"identifier": testUsername,
			"secret":     testPassword,
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	session := login(t, baseURL, testUsername, testPassword)

	t.Run("access token grants userinfo", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/userinfo", session.Token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		require.Equal(t, testUsername, info.Username)
		require.Equal(t, "user", info.Role)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", map[string]string{
			"identifier": testUsername,
			"secret":     "definitely-wrong",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user gets the same rejection", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", map[string]string{
			"identifier": "nobody",
			"secret":     "whatever-pw",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// TestReissueRotation exercises refresh token rotation end to end: the new
// pair works, the old refresh token is spent.
func TestReissueRotation(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	signup(t, baseURL, testUsername, testPassword)
	session := login(t, baseURL, testUsername, testPassword)

	resp := doRequest(t, http.MethodPost, baseURL+"/reissue", "", session.refreshCookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	newAccess := resp.Header.Get("access")
	require.NotEmpty(t, newAccess, "reissue should return the access token in the access header")

	var newCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refresh" {
			newCookie = c
		}
	}
	require.NotNil(t, newCookie)
	require.NotEqual(t, session.refreshCookie.Value, newCookie.Value)

	t.Run("new access token works", func(t *testing.T) {
		info := doRequest(t, http.MethodGet, baseURL+"/v1/userinfo", newAccess, nil)
		defer info.Body.Close()
		require.Equal(t, http.StatusOK, info.StatusCode)
	})

	t.Run("old refresh token is spent", func(t *testing.T) {
		replay := doRequest(t, http.MethodPost, baseURL+"/reissue", "", session.refreshCookie)
		defer replay.Body.Close()
		require.Equal(t, http.StatusBadRequest, replay.StatusCode)
		raw, _ := io.ReadAll(replay.Body)
		require.Equal(t, "invalid refresh token", string(raw))
	})

	t.Run("missing cookie", func(t *testing.T) {
		bare := doRequest(t, http.MethodPost, baseURL+"/reissue", "", nil)
		defer bare.Body.Close()
		require.Equal(t, http.StatusBadRequest, bare.StatusCode)
		raw, _ := io.ReadAll(bare.Body)
		require.Equal(t, "refresh token null", string(raw))
	})
}

// TestLogoutFlow covers single-session logout and logout-everywhere.
func TestLogoutFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	signup(t, baseURL, testUsername, testPassword)

	t.Run("logout retires the refresh token", func(t *testing.T) {
		session := login(t, baseURL, testUsername, testPassword)

		resp := doRequest(t, http.MethodPost, baseURL+"/logout", "", session.refreshCookie)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		reissue := doRequest(t, http.MethodPost, baseURL+"/reissue", "", session.refreshCookie)
		defer reissue.Body.Close()
		require.Equal(t, http.StatusBadRequest, reissue.StatusCode)

		// A second logout with the spent token is a defined 400.
		again := doRequest(t, http.MethodPost, baseURL+"/logout", "", session.refreshCookie)
		defer again.Body.Close()
		require.Equal(t, http.StatusBadRequest, again.StatusCode)
	})

	t.Run("logout without cookie is a 400", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/logout", "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("revoke ends every session", func(t *testing.T) {
		first := login(t, baseURL, testUsername, testPassword)
		second := login(t, baseURL, testUsername, testPassword)

		resp := doRequest(t, http.MethodPost, baseURL+"/v1/sessions/revoke", second.Token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		for _, cookie := range []*http.Cookie{first.refreshCookie, second.refreshCookie} {
			reissue := doRequest(t, http.MethodPost, baseURL+"/reissue", "", cookie)
			reissue.Body.Close()
			require.Equal(t, http.StatusBadRequest, reissue.StatusCode)
		}
	})
}

// TestSecurityBoundaries checks that protected endpoints reject missing, bad
// and mismatched credentials.
func TestSecurityBoundaries(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	signup(t, baseURL, testUsername, testPassword)
	session := login(t, baseURL, testUsername, testPassword)

	t.Run("no token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/userinfo", "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/userinfo", "not.a.jwt", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh token as bearer credential", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/userinfo", session.refreshCookie.Value, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("revoke requires authentication", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/v1/sessions/revoke", "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
