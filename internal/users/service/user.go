package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/pkg/cryptox"
	"github.com/aussiebroadwan/userapi/pkg/idx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for every allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ListInput struct {
	Page  int `json:"page" validate:"min=1"`
	Limit int `json:"limit" validate:"min=1,max=100"`
}

type SearchInput struct {
	Username string `json:"username"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateInput carries the fields to change. A nil field is left as is.
type UpdateInput struct {
	Username *string `json:"username"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users      []domain.UserView `json:"users"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int64             `json:"totalPages"`
}

type UserService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates a user with the default role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.UserView, error) {
	l := slogx.FromContext(ctx)

	if in.Username == "" || in.Password == "" {
		return domain.UserView{}, invalid("", MsgCredentialsRequired)
	}
	if err := validateStruct(in); err != nil {
		return domain.UserView{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.UserView{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.UserView{}, ErrUsernameTaken
		}
		l.Error("failed to create user", slog.Any("error", err))
		return domain.UserView{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u.View(), nil
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, in LoginInput) (IssuedToken, error) {
	l := slogx.FromContext(ctx)

	if in.Username == "" || in.Password == "" {
		return IssuedToken{}, invalid("", MsgCredentialsRequired)
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = cryptox.VerifyPassword(in.Password, dummyHash(l))
			l.Info("login failed", slog.String("reason", "unknown_user"))
			return IssuedToken{}, ErrInvalidCredentials
		}
		return IssuedToken{}, err
	}

	if err := cryptox.VerifyPassword(in.Password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", u.ID), slog.Any("error", err))
		}
		l.Info("login failed", slog.String("user_id", u.ID), slog.String("reason", "bad_password"))
		return IssuedToken{}, ErrInvalidCredentials
	}

	tok, err := s.Tokens.Issue(u)
	if err != nil {
		l.Error("failed to issue token", slog.String("user_id", u.ID), slog.Any("error", err))
		return IssuedToken{}, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID))
	return tok, nil
}

// List returns one page of users in creation order.
func (s *UserService) List(ctx context.Context, in ListInput) (UserPage, error) {
	if err := validateStruct(in); err != nil {
		return UserPage{}, err
	}
	if in.Page > MaxPage {
		return UserPage{}, invalid("page", fmt.Sprintf(`"page" must be less than or equal to %d`, MaxPage))
	}

	offset := (in.Page - 1) * in.Limit
	users, total, err := s.Store.Users().ListUsers(ctx, offset, in.Limit)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}

	return UserPage{
		Users:      domain.Views(users),
		Total:      total,
		Page:       in.Page,
		TotalPages: (total + int64(in.Limit) - 1) / int64(in.Limit),
	}, nil
}

// Search filters users by a case-insensitive username substring and/or an
// exact role. An empty input returns every user.
func (s *UserService) Search(ctx context.Context, in SearchInput) ([]domain.UserView, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	filter := domain.UserFilter{UsernameContains: in.Username}
	if in.Role != "" {
		filter.Role = domain.Role(in.Role)
	}

	users, err := s.Store.Users().SearchUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return domain.Views(users), nil
}

// Update applies the given fields to user id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (domain.UserView, error) {
	if in.Username == nil {
		return domain.UserView{}, invalid("", MsgEmptyUpdate)
	}
	username := *in.Username
	if username == "" {
		return domain.UserView{}, invalid("username", `"username" is not allowed to be empty`)
	}
	if err := validateStruct(struct {
		Username string `json:"username" validate:"min=3"`
	}{username}); err != nil {
		return domain.UserView{}, err
	}

	u, err := s.Store.Users().UpdateUsername(ctx, id, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.UserView{}, ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.UserView{}, ErrUsernameTaken
	case err != nil:
		return domain.UserView{}, fmt.Errorf("update user: %w", err)
	}

	slogx.FromContext(ctx).Info("user updated", slog.String("target_user_id", id))
	return u.View(), nil
}

// Delete removes user id and returns what was removed.
func (s *UserService) Delete(ctx context.Context, id string) (domain.UserView, error) {
	u, err := s.Store.Users().DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserView{}, ErrUserNotFound
		}
		return domain.UserView{}, fmt.Errorf("delete user: %w", err)
	}

	slogx.FromContext(ctx).Info("user deleted", slog.String("target_user_id", id))
	return u.View(), nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, caller domain.Identity, in ChangePasswordInput) error {
	l := slogx.FromContext(ctx)

	if err := validateStruct(in); err != nil {
		return err
	}

	u, err := s.Store.Users().GetUserByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(in.OldPassword, u.PasswordHash); err != nil {
		l.Info("password change rejected", slog.String("reason", "bad_password"))
		return ErrIncorrectPassword
	}

	hash, err := cryptox.HashPassword(in.NewPassword)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	l.Info("password changed")
	return nil
}

// fallbackDummyHash is a well-formed cost 10 bcrypt hash. Comparing against
// it costs as much as a real comparison.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash is compared against when the username does not exist.
func dummyHash(l *slog.Logger) string {
	dummyOnce.Do(func() { dummy = newDummyHash(l) })
	return dummy
}

func newDummyHash(l *slog.Logger) string {
	h, err := cryptox.HashPassword(idx.New().String())
	if err != nil {
		l.Error("failed to hash dummy password, using fallback", slog.Any("error", err))
		return fallbackDummyHash
	}
	return h
}
