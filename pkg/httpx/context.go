package httpx

import (
	"context"
	"strings"
	"time"
)

type ctxKey string

const (
	CtxKeyIdentity ctxKey = "identity"
)

// Identity is a verified caller, produced by the Authn gate from a valid
// token. Handlers behind Authn receive it as an explicit argument.
type Identity struct {
	UserID    string
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// HasRole reports whether the identity carries any of the given roles,
// ignoring case and surrounding space.
func (id Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if strings.EqualFold(id.Role, strings.TrimSpace(r)) {
			return true
		}
	}
	return false
}

// WithIdentity stores the identity for middlewares that only see the request
// (logging, rate limiting).
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the identity placed by Authn, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
