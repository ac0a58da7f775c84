package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pantrylabs/pantry/internal/auth/service"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP handles credential login.
//
//	@Summary		Login with identifier and secret
//	@Description	Verifies the credentials and issues a token pair. The access
//	@Description	token is returned in the body and mirrored into the
//	@Description	Authorization response header; the refresh token is set as an
//	@Description	HttpOnly cookie.
//	@Tags			Sessions
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed request body"
//	@Failure		401		{object}	ErrorResponse	"Unknown identifier or wrong secret"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, err := decodeLoginRequest(r)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed_request"})
		return
	}

	pair, principal, err := h.AuthService.Login(ctx, req.Identifier, req.Secret)
	if err != nil {
		// One generic answer for unknown identifier and wrong secret.
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials"})
		return
	}

	log.Info("login succeeded", "subject", principal.ID, "username", principal.Username)

	h.Cookies.write(w, pair.RefreshToken)
	w.Header().Set("Authorization", "Bearer "+pair.AccessToken)
	w.Header().Set("Access-Control-Expose-Headers", "Authorization")
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:      pair.AccessToken,
		Identifier: principal.Username,
	})
}

// decodeLoginRequest accepts either a JSON body or classic form fields.
func decodeLoginRequest(r *http.Request) (LoginRequest, error) {
	var req LoginRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return LoginRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return LoginRequest{}, err
	}
	req.Identifier = r.PostFormValue("identifier")
	req.Secret = r.PostFormValue("secret")
	return req, nil
}
