package service

import "errors"

var (
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrIncorrectPassword  = errors.New("incorrect_password")
	ErrInvalidToken       = errors.New("invalid_token")
)

// ValidationError is an input rule violation. Message is safe to return to
// the client as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
