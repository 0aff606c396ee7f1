package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

type ListUsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles the paginated user listing
//
//	@Summary		List users
//	@Description	Returns one page of users in creation order. Requires the admin role.
//	@Tags			Users
//	@Produce		json
//	@Param			page	query		int					false	"Page number (min 1)"			default(1)
//	@Param			limit	query		int					false	"Page size (1 to 100)"			default(10)
//	@Success		200		{object}	service.UserPage	"Page of users"
//	@Failure		400		{object}	httpx.Message		"Invalid pagination parameters"
//	@Failure		401		{object}	httpx.Message		"Token required"
//	@Failure		403		{object}	httpx.Message		"Invalid token or insufficient permissions"
//	@Failure		500		{object}	httpx.Message		"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/users [get].
func (h *ListUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.UserService.List(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, page)
}

// parsePagination reads page and limit, applying defaults for absent
// values. Other query keys are rejected.
func parsePagination(q url.Values) (service.ListInput, error) {
	for key := range q {
		if key != "page" && key != "limit" {
			return service.ListInput{}, &service.ValidationError{Field: key, Message: fmt.Sprintf("%q is not allowed", key)}
		}
	}

	page, err := intParam(q, "page", service.DefaultPage)
	if err != nil {
		return service.ListInput{}, err
	}
	limit, err := intParam(q, "limit", service.DefaultLimit)
	if err != nil {
		return service.ListInput{}, err
	}
	return service.ListInput{Page: page, Limit: limit}, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: key, Message: fmt.Sprintf("%q must be an integer", key)}
	}
	return n, nil
}
