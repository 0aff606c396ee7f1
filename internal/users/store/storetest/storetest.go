// Package storetest holds behaviour tests every store driver must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated store. It should register cleanup.
type Factory func(t *testing.T) store.Store

func newUser(username string, role domain.Role, at time.Time) domain.User {
	return domain.User{
		ID:           idx.NewAt(at).String(),
		Username:     username,
		PasswordHash: "$2a$10$placeholder",
		Role:         role,
		CreatedAt:    at.UTC().Truncate(time.Millisecond),
		UpdatedAt:    at.UTC().Truncate(time.Millisecond),
	}
}

// seed inserts users one millisecond apart so id order equals slice order.
func seed(t *testing.T, s store.Store, names ...string) []domain.User {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	out := make([]domain.User, 0, len(names))
	for i, n := range names {
		u := newUser(n, domain.RoleUser, base.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, s.Users().CreateUser(context.Background(), u))
		out = append(out, u)
	}
	return out
}

// RunUsers exercises the Users repository.
func RunUsers(t *testing.T, newStore Factory) {
	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := newUser("alice", domain.RoleAdmin, time.Now())
		require.NoError(t, s.Users().CreateUser(ctx, u))

		byID, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		requireSameUser(t, u, byID)

		byName, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)

		_, err = s.Users().GetUserByUsername(ctx, "ALICE")
		require.ErrorIs(t, err, store.ErrNotFound, "lookup is case-sensitive")

		_, err = s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Users().CreateUser(ctx, newUser("bob", domain.RoleUser, time.Now())))
		err := s.Users().CreateUser(ctx, newUser("bob", domain.RoleUser, time.Now()))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		n, err := s.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		s := newStore(t)
		err := s.Users().CreateUser(context.Background(), newUser("carl", domain.Role("root"), time.Now()))
		require.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("list pages", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		names := make([]string, 15)
		for i := range names {
			names[i] = "user" + string(rune('a'+i))
		}
		seeded := seed(t, s, names...)

		page1, total, err := s.Users().ListUsers(ctx, 0, 10)
		require.NoError(t, err)
		require.EqualValues(t, 15, total)
		require.Len(t, page1, 10)
		require.Equal(t, seeded[0].ID, page1[0].ID)

		page2, total, err := s.Users().ListUsers(ctx, 10, 10)
		require.NoError(t, err)
		require.EqualValues(t, 15, total)
		require.Len(t, page2, 5)
		require.Equal(t, seeded[10].ID, page2[0].ID)

		beyond, total, err := s.Users().ListUsers(ctx, 100, 10)
		require.NoError(t, err)
		require.EqualValues(t, 15, total)
		require.Empty(t, beyond)
	})

	t.Run("search", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seed(t, s, "Anna", "annette", "DIANNA", "bob", "a.n.n")
		admin := newUser("joanne", domain.RoleAdmin, time.Now())
		require.NoError(t, s.Users().CreateUser(ctx, admin))

		got, err := s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "ann"})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Anna", "annette", "DIANNA", "joanne"}, usernames(got))

		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "ann", Role: domain.RoleAdmin})
		require.NoError(t, err)
		require.Equal(t, []string{"joanne"}, usernames(got))

		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{Role: domain.RoleUser})
		require.NoError(t, err)
		require.Len(t, got, 5)

		// Pattern metacharacters are matched literally.
		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "a.n"})
		require.NoError(t, err)
		require.Equal(t, []string{"a.n.n"}, usernames(got))

		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "%"})
		require.NoError(t, err)
		require.Empty(t, got)

		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{})
		require.NoError(t, err)
		require.Len(t, got, 6)
	})

	t.Run("search folds non-ASCII case", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seed(t, s, "ÄNNA", "jürgen", "Ödön", "anna")

		for _, needle := range []string{"änn", "ÄNN", "Änn"} {
			got, err := s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: needle})
			require.NoError(t, err)
			require.Equal(t, []string{"ÄNNA"}, usernames(got), "needle %q", needle)
		}

		got, err := s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "ÜR"})
		require.NoError(t, err)
		require.Equal(t, []string{"jürgen"}, usernames(got))

		got, err = s.Users().SearchUsers(ctx, domain.UserFilter{UsernameContains: "ödö"})
		require.NoError(t, err)
		require.Equal(t, []string{"Ödön"}, usernames(got))
	})

	t.Run("update username", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		users := seed(t, s, "dave", "erin")

		updated, err := s.Users().UpdateUsername(ctx, users[0].ID, "david")
		require.NoError(t, err)
		require.Equal(t, "david", updated.Username)
		require.Equal(t, users[0].PasswordHash, updated.PasswordHash)
		require.False(t, updated.UpdatedAt.Before(users[0].UpdatedAt))

		_, err = s.Users().UpdateUsername(ctx, users[0].ID, "erin")
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Users().UpdateUsername(ctx, idx.New().String(), "zed")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update password hash", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := seed(t, s, "frank")[0]
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "$2a$10$new"))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "$2a$10$new", got.PasswordHash)

		err = s.Users().UpdatePasswordHash(ctx, idx.New().String(), "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := seed(t, s, "gina")[0]
		removed, err := s.Users().DeleteUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, removed.ID)
		require.Equal(t, "gina", removed.Username)

		_, err = s.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().DeleteUser(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}

func requireSameUser(t *testing.T, want, got domain.User) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Username, got.Username)
	require.Equal(t, want.PasswordHash, got.PasswordHash)
	require.Equal(t, want.Role, got.Role)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", want.CreatedAt, got.CreatedAt)
	require.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %s != %s", want.UpdatedAt, got.UpdatedAt)
}

func usernames(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
