package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

const (
	MsgUsernameTaken      = "Username already in use"
	MsgInvalidCredentials = "Invalid username or password"
	MsgIncorrectPassword  = "Invalid password"
	MsgUserNotFound       = "User not found"
	MsgLoginSuccessful    = "Login successful"
	MsgPasswordChanged    = "Password changed successfully"
	MsgLoggedOut          = "Logged out successfully"
)

// writeError maps service and decode errors to a status and {message}.
// Anything unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *service.ValidationError
		bodyErr *httpx.BodyError
	)

	switch {
	case errors.As(err, &verr):
		httpx.WriteMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &bodyErr):
		httpx.WriteMessage(w, http.StatusBadRequest, bodyErr.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteMessage(w, http.StatusBadRequest, MsgUsernameTaken)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteMessage(w, http.StatusUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, service.ErrIncorrectPassword):
		httpx.WriteMessage(w, http.StatusUnauthorized, MsgIncorrectPassword)
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, MsgUserNotFound)
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteMessage(w, http.StatusForbidden, httpx.MsgInvalidToken)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteMessage(w, http.StatusInternalServerError, httpx.MsgInternalError)
	}
}
