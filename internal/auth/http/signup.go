package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pantrylabs/pantry/internal/auth/service"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

type SignupHandler struct {
	UserService *service.UserService
}

// ServeHTTP registers a new account.
//
//	@Summary		Create an account
//	@Description	Registers a new principal with the default user role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignupRequest	true	"New account"
//	@Success		201		{object}	SignupResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed body, bad identifier or weak secret"
//	@Failure		409		{object}	ErrorResponse	"Identifier already taken"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed_request"})
		return
	}

	p, err := h.UserService.Signup(ctx, req.Identifier, req.DisplayName, req.Secret)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{Error: "identifier_taken"})
		case errors.Is(err, service.ErrInvalidUsername):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_identifier"})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "weak_secret"})
		default:
			log.Error("signup failed", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "server_error"})
		}
		return
	}

	log.Info("account created", "subject", p.ID, "username", p.Username)
	httpx.WriteJSON(w, http.StatusCreated, SignupResponse{
		UserID:     p.ID,
		Identifier: p.Username,
	})
}
