package http

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type DeleteUserHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles user deletion
//
//	@Summary		Delete a user
//	@Description	Permanently removes the user and returns the removed record. Requires the admin role.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string			true	"User ID"
//	@Success		200	{object}	domain.UserView	"Removed user"
//	@Failure		401	{object}	httpx.Message	"Token required"
//	@Failure		403	{object}	httpx.Message	"Invalid token or insufficient permissions"
//	@Failure		404	{object}	httpx.Message	"User not found"
//	@Failure		500	{object}	httpx.Message	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/users/{id} [delete].
func (h *DeleteUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}
