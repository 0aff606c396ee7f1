package domain

import "time"

// Identity is the verified caller derived from a valid token.
type Identity struct {
	UserID    string
	Username  string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
