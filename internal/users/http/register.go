package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles user registration
//
//	@Summary		Register a user
//	@Description	Creates a user with the "user" role. Usernames need at least 3 characters; passwords at least 8 with a lowercase letter, an uppercase letter and a digit.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.RegisterRequest	true	"Credentials"
//	@Success		201		{object}	domain.UserView			"Created user"
//	@Failure		400		{object}	httpx.Message			"Validation failed or username already in use"
//	@Failure		429		{object}	httpx.Message			"Rate limited"
//	@Failure		500		{object}	httpx.Message			"Internal server error"
//	@Router			/api/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	// An empty body is an empty object; the service reports what is missing.
	if err := httpx.DecodeJSON(r, &in); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeError(w, r, err)
		return
	}

	user, err := h.UserService.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user)
}
