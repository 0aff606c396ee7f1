package jwtx

import (
	"time"

	"github.com/aussiebroadwan/userapi/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an identity token when the service
// does not override it.
const DefaultTokenTTL = time.Hour

// Claims are the identity-token claims. The subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims

	// Username at the time the token was issued
	Username string `json:"username"`

	// Role at the time the token was issued ("user" or "admin")
	Role string `json:"role"`
}

// NewIdentityClaims builds claims for a user valid from now until now+ttl.
func NewIdentityClaims(
	subject, username, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username: username,
		Role:     role,
	}
}

// NewJTI returns a unique identifier for the "jti" claim. ULIDs sort by
// issue time, which keeps denylist keys readable.
func NewJTI() string {
	return idx.New().String()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}

	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
