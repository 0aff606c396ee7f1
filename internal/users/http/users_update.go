package http

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type UpdateUserHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles a username change
//
//	@Summary		Update a user
//	@Description	Renames the user. Only the username can be changed here; the body must contain it.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		usersdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	domain.UserView				"Updated user"
//	@Failure		400		{object}	httpx.Message				"Validation failed or username already in use"
//	@Failure		401		{object}	httpx.Message				"Token required"
//	@Failure		403		{object}	httpx.Message				"Invalid token"
//	@Failure		404		{object}	httpx.Message				"User not found"
//	@Failure		500		{object}	httpx.Message				"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/users/{id} [put].
func (h *UpdateUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserService.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}
