package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
	"github.com/aussiebroadwan/userapi/pkg/usersdk"
)

type LoginHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles login
//
//	@Summary		Log in
//	@Description	Verifies the credentials and returns a signed identity token valid for one hour.
//	@Description	Unknown usernames and wrong passwords produce the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	usersdk.LoginResponse	"Token issued"
//	@Failure		400		{object}	httpx.Message			"Username and password are required"
//	@Failure		401		{object}	httpx.Message			"Invalid username or password"
//	@Failure		429		{object}	httpx.Message			"Rate limited"
//	@Failure		500		{object}	httpx.Message			"Internal server error"
//	@Router			/api/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	// An empty body is an empty object; the service reports what is missing.
	if err := httpx.DecodeJSON(r, &in); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeError(w, r, err)
		return
	}

	tok, err := h.UserService.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, usersdk.LoginResponse{
		Message:   MsgLoginSuccessful,
		Token:     tok.Token,
		ExpiresIn: int64(tok.ExpiresIn.Seconds()),
	})
}
