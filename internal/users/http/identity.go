package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
)

// tokenVerifier adapts TokenService to the Authn gate.
func tokenVerifier(tokens *service.TokenService) httpx.TokenVerifier {
	return httpx.TokenVerifierFunc(func(ctx context.Context, raw string) (httpx.Identity, error) {
		id, err := tokens.Verify(ctx, raw)
		if err != nil {
			return httpx.Identity{}, err
		}
		return httpx.Identity{
			UserID:    id.UserID,
			Username:  id.Username,
			Role:      id.Role.String(),
			TokenID:   id.TokenID,
			ExpiresAt: id.ExpiresAt,
		}, nil
	})
}

// domainIdentity converts the gate's identity back. The role was already
// parsed by TokenService.Verify.
func domainIdentity(id httpx.Identity) domain.Identity {
	return domain.Identity{
		UserID:    id.UserID,
		Username:  id.Username,
		Role:      domain.Role(id.Role),
		TokenID:   id.TokenID,
		ExpiresAt: id.ExpiresAt,
	}
}

// anyIdentity serves h once Authn has passed, ignoring who the caller is.
func anyIdentity(h http.Handler) httpx.IdentityHandler {
	return httpx.IdentityHandlerFunc(func(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
		h.ServeHTTP(w, r)
	})
}
