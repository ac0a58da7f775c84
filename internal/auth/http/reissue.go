package http

import (
	"errors"
	"net/http"

	"github.com/pantrylabs/pantry/internal/auth/service"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

type ReissueHandler struct {
	AuthService *service.AuthService
	Cookies     CookieConfig
}

// ServeHTTP rotates the refresh token and mints a fresh access token.
//
//	@Summary		Reissue the token pair
//	@Description	Reads the refresh token from its HttpOnly cookie, retires it
//	@Description	and issues a new pair. The new access token is returned in the
//	@Description	"access" response header, the new refresh token replaces the
//	@Description	cookie. Failures are plain text with status 400.
//	@Tags			Sessions
//	@Produce		plain
//	@Success		200	"New access token in the `access` header"
//	@Failure		400	{string}	string	"refresh token null | refresh token expired | invalid refresh token"
//	@Router			/reissue [post].
func (h *ReissueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refreshToken := h.Cookies.read(r)

	pair, err := h.AuthService.Reissue(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredential):
			httpx.WriteText(w, http.StatusBadRequest, "refresh token null")
		case errors.Is(err, service.ErrExpiredRefresh):
			httpx.WriteText(w, http.StatusBadRequest, "refresh token expired")
		case errors.Is(err, service.ErrInvalidRefresh),
			errors.Is(err, service.ErrWrongCategory),
			errors.Is(err, service.ErrNotRegistered):
			httpx.WriteText(w, http.StatusBadRequest, "invalid refresh token")
		default:
			log.Error("reissue failed", "error", err)
			httpx.WriteText(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.Cookies.write(w, pair.RefreshToken)
	w.Header().Set("access", pair.AccessToken)
	w.Header().Set("Access-Control-Expose-Headers", "access")
	w.WriteHeader(http.StatusOK)
}
