package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo, sqlite)
// implement this and expose sub-repositories.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema (tables or indexes) up to date.
	ApplyMigrations(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is an exact, case-sensitive lookup used by login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the service via ULID).
	// A taken username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns one page ordered by id (creation order) plus the
	// total number of users.
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error)

	// SearchUsers returns every user matching the filter, ordered by id.
	SearchUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error)

	// UpdateUsername renames a user, bumps updated_at and returns the new
	// record. A taken username yields ErrAlreadyExists.
	UpdateUsername(ctx context.Context, id, username string) (domain.User, error)

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// DeleteUser removes the user and returns the removed record.
	DeleteUser(ctx context.Context, id string) (domain.User, error)

	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int64, error)
}
