// Package revocation keeps a denylist of token IDs that were logged out
// before they expired.
package revocation

import (
	"context"
	"time"
)

// Denylist records revoked token IDs until their expiry.
type Denylist interface {
	// Revoke marks jti as revoked until the given time. Entries past their
	// expiry may be dropped since the token would fail verification anyway.
	Revoke(ctx context.Context, jti string, until time.Time) error

	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Ping checks the backing service (readiness).
	Ping(ctx context.Context) error
}
