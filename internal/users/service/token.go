package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/revocation"
	"github.com/aussiebroadwan/userapi/pkg/jwtx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

// IssuedToken is a freshly signed identity token.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Denylist revocation.Denylist
	Issuer   string
	TTL      time.Duration

	// Now overrides the clock for issuing. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenService wires an HS256 signer and verifier around secret. A zero
// ttl uses jwtx.DefaultTokenTTL and a nil denylist disables revocation.
func NewTokenService(secret []byte, issuer string, ttl time.Duration, denylist revocation.Denylist) (*TokenService, error) {
	signer, err := jwtx.NewHS256Signer(secret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	return &TokenService{
		Signer:   signer,
		Verifier: jwtx.NewHS256Verifier(secret, issuer),
		Denylist: denylist,
		Issuer:   issuer,
		TTL:      ttl,
	}, nil
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs a token carrying the user's id, username and role.
func (s *TokenService) Issue(u domain.User) (IssuedToken, error) {
	now := s.now().UTC()
	claims := jwtx.NewIdentityClaims(u.ID, u.Username, u.Role.String(), s.TTL, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return IssuedToken{
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		ExpiresIn: s.TTL,
	}, nil
}

// Verify checks signature, issuer, expiry and role, then consults the
// denylist. Every rejection wraps ErrInvalidToken.
func (s *TokenService) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if s.Denylist != nil && claims.ID != "" {
		revoked, err := s.Denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: a token we cannot check is not accepted.
			slogx.FromContext(ctx).Error("denylist lookup failed", slog.Any("error", err))
			return domain.Identity{}, fmt.Errorf("%w: denylist: %w", ErrInvalidToken, err)
		}
		if revoked {
			return domain.Identity{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}

	id := domain.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Revoke denylists the identity's token until it would have expired.
func (s *TokenService) Revoke(ctx context.Context, id domain.Identity) error {
	if s.Denylist == nil || id.TokenID == "" {
		return nil
	}
	if err := s.Denylist.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	slogx.FromContext(ctx).Info("token revoked",
		slog.String("user_id", id.UserID),
		slog.String("jti", id.TokenID),
	)
	return nil
}
