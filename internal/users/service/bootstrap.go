package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/pkg/cryptox"
	"github.com/aussiebroadwan/userapi/pkg/idx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

var ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")

// BootstrapService seeds the first administrator. Registration only ever
// creates plain users, so this is the only way an admin comes to exist.
type BootstrapService struct {
	Store store.Store
}

// EnsureAdmin creates username with the admin role unless a user by that
// name already exists. It reports whether a user was created. Empty
// credentials disable the bootstrap.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return false, nil
	}
	if err := validateStruct(RegisterInput{Username: username, Password: password}); err != nil {
		return false, err
	}

	existing, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			l.Warn("bootstrap admin username belongs to a non-admin user",
				slog.String("user_id", existing.ID),
			)
		}
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return false, ErrBootstrapFailedToCreateAdmin
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Another replica won the race.
			return false, nil
		}
		l.Error("failed to create admin user", slog.Any("error", err))
		return false, ErrBootstrapFailedToCreateAdmin
	}

	l.Info("admin user bootstrapped", slog.String("user_id", admin.ID))
	return true, nil
}
