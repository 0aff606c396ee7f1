package http

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type LogoutHandler struct {
	TokenService *service.TokenService
}

// ServeIdentity revokes the presented token
//
//	@Summary		Log out
//	@Description	Revokes the presented token until it would have expired. Other tokens of the same user stay valid.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Message	"Logged out"
//	@Failure		401	{object}	httpx.Message	"Token required"
//	@Failure		403	{object}	httpx.Message	"Invalid token"
//	@Failure		500	{object}	httpx.Message	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/logout [post].
func (h *LogoutHandler) ServeIdentity(w http.ResponseWriter, r *http.Request, id httpx.Identity) {
	if err := h.TokenService.Revoke(r.Context(), domainIdentity(id)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, MsgLoggedOut)
}
