package http

import (
	"errors"
	"net/http"

	"github.com/pantrylabs/pantry/internal/auth/service"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP retires the presented refresh token and clears its cookie.
//
//	@Summary		Logout
//	@Description	Validates the refresh token carried by the cookie, retires
//	@Description	it and expires the cookie. A missing, invalid or
//	@Description	already-retired token is a 400 with an empty body; the
//	@Description	cookie is only cleared on success.
//	@Tags			Sessions
//	@Success		200	"Cookie cleared"
//	@Failure		400	"Missing, invalid or already-retired refresh token"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.AuthService.Logout(ctx, h.Cookies.read(r)); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredential),
			errors.Is(err, service.ErrInvalidRefresh),
			errors.Is(err, service.ErrExpiredRefresh),
			errors.Is(err, service.ErrWrongCategory),
			errors.Is(err, service.ErrNotRegistered):
			w.WriteHeader(http.StatusBadRequest)
		default:
			log.Error("logout failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.Cookies.clear(w)
	w.WriteHeader(http.StatusOK)
}

type SessionsRevokeHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP revokes every refresh credential held by the caller.
//
//	@Summary		Logout everywhere
//	@Description	Retires all refresh credentials of the authenticated subject,
//	@Description	ending every session, and clears the local cookie.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Success		200	"All sessions revoked"
//	@Failure		401	"Missing or invalid access token"
//	@Router			/v1/sessions/revoke [post].
func (h *SessionsRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		// RequireAuth guards this route; this is belt and braces.
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.LogoutAll(ctx, identity.Subject); err != nil {
		log.Error("session revocation failed", "subject", identity.Subject, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("all sessions revoked", "subject", identity.Subject)
	h.Cookies.clear(w)
	w.WriteHeader(http.StatusOK)
}
