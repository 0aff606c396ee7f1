package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const MsgInternalError = "Internal Server Error"

// ErrEmptyBody is wrapped by the BodyError DecodeJSON returns for a missing
// or empty body, so handlers can treat it as an empty object.
var ErrEmptyBody = errors.New("httpx: empty body")

// Message is the single error (and simple acknowledgement) body shape.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Message{Message: msg})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// BodyError is returned by DecodeJSON. Its Error text is safe to show to
// clients.
type BodyError struct {
	msg string
	err error
}

func (e *BodyError) Error() string { return e.msg }
func (e *BodyError) Unwrap() error { return e.err }

// DecodeJSON decodes a single JSON object into dst. Unknown fields are
// rejected.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return &BodyError{msg: "Request body is required", err: ErrEmptyBody}
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &BodyError{msg: "Request body must contain a single JSON object", err: err}
	}
	return nil
}

func describeDecodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return &BodyError{msg: "Request body is required", err: ErrEmptyBody}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &BodyError{msg: "Malformed JSON body", err: err}
	case errors.As(err, &typeErr):
		return &BodyError{msg: fmt.Sprintf("%q must be a %s", typeErr.Field, typeErr.Type), err: err}
	case errors.As(err, &maxErr):
		return &BodyError{msg: "Request body too large", err: err}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return &BodyError{msg: field + " is not allowed", err: err}
	default:
		return &BodyError{msg: "Malformed JSON body", err: err}
	}
}
