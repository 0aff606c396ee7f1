package http

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type ChangePasswordHandler struct {
	UserService *service.UserService
}

// ServeIdentity changes the caller's own password
//
//	@Summary		Change password
//	@Description	Replaces the caller's password after checking the current one. The new password must meet the strength rules.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.ChangePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	httpx.Message					"Password changed successfully"
//	@Failure		400		{object}	httpx.Message					"Validation failed"
//	@Failure		401		{object}	httpx.Message					"Token required or invalid password"
//	@Failure		403		{object}	httpx.Message					"Invalid token"
//	@Failure		404		{object}	httpx.Message					"User not found"
//	@Failure		500		{object}	httpx.Message					"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/users/change-password [put].
func (h *ChangePasswordHandler) ServeIdentity(w http.ResponseWriter, r *http.Request, id httpx.Identity) {
	var in service.ChangePasswordInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.UserService.ChangePassword(r.Context(), domainIdentity(id), in); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, MsgPasswordChanged)
}
