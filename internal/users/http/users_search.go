package http

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type SearchUsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles user search
//
//	@Summary		Search users
//	@Description	Filters users by a case-insensitive username substring and/or an exact role. Both filters are optional. Requires the admin role.
//	@Tags			Users
//	@Produce		json
//	@Param			username	query		string				false	"Username substring"
//	@Param			role		query		string				false	"Role"	Enums(user, admin)
//	@Success		200			{array}		domain.UserView		"Matching users"
//	@Failure		400			{object}	httpx.Message		"Invalid role"
//	@Failure		401			{object}	httpx.Message		"Token required"
//	@Failure		403			{object}	httpx.Message		"Invalid token or insufficient permissions"
//	@Failure		500			{object}	httpx.Message		"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/users/search [get].
func (h *SearchUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.UserService.Search(r.Context(), service.SearchInput{
		Username: q.Get("username"),
		Role:     q.Get("role"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, users)
}
