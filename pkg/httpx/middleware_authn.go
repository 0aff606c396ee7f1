package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

const (
	MsgTokenRequired = "Token required"
	MsgInvalidToken  = "Invalid token"
)

// TokenVerifier turns a raw token into a verified Identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (Identity, error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, raw string) (Identity, error)

func (f TokenVerifierFunc) VerifyToken(ctx context.Context, raw string) (Identity, error) {
	return f(ctx, raw)
}

// IdentityHandler serves requests that have already passed Authn.
type IdentityHandler interface {
	ServeIdentity(w http.ResponseWriter, r *http.Request, id Identity)
}

// IdentityHandlerFunc adapts a function to IdentityHandler.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

func (f IdentityHandlerFunc) ServeIdentity(w http.ResponseWriter, r *http.Request, id Identity) {
	f(w, r, id)
}

// Authn extracts the token from the Authorization header and verifies it.
// The header may hold the bare token or "Bearer <token>". A missing token
// is 401, a token that fails verification is 403.
func Authn(v TokenVerifier, next IdentityHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		raw := bearerToken(r.Header.Get("Authorization"))
		if raw == "" {
			WriteMessage(w, http.StatusUnauthorized, MsgTokenRequired)
			return
		}

		id, err := v.VerifyToken(ctx, raw)
		if err != nil {
			log.Warn("token verification failed", "err", err)
			WriteMessage(w, http.StatusForbidden, MsgInvalidToken)
			return
		}

		// Keep a copy in context for logging and per-user rate limits.
		ctx = WithIdentity(ctx, id)
		ctx = slogx.WithContext(ctx, log.With("user_id", id.UserID))
		next.ServeIdentity(w, r.WithContext(ctx), id)
	})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}
