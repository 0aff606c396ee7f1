package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

const MsgInsufficientPermissions = "Insufficient permissions"

// RequireRole lets the request through only when the verified identity has
// one of the given roles. It wraps an IdentityHandler, so it can only sit
// behind Authn.
func RequireRole(roles ...string) func(IdentityHandler) IdentityHandler {
	return func(next IdentityHandler) IdentityHandler {
		return IdentityHandlerFunc(func(w http.ResponseWriter, r *http.Request, id Identity) {
			if !id.HasRole(roles...) {
				slogx.FromContext(r.Context()).Warn("role check failed",
					"role", id.Role,
					"path", r.URL.Path,
				)
				WriteMessage(w, http.StatusForbidden, MsgInsufficientPermissions)
				return
			}
			next.ServeIdentity(w, r, id)
		})
	}
}
