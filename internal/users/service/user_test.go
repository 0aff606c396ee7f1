package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.register(t, "alice", "Secret123")
	require.NotEmpty(t, v.ID)
	require.Equal(t, "alice", v.Username)
	require.Equal(t, domain.RoleUser, v.Role)
	require.False(t, v.CreatedAt.IsZero())

	stored, err := f.store.Users().GetUserByID(ctx, v.ID)
	require.NoError(t, err)
	require.NotEqual(t, "Secret123", stored.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("Secret123", stored.PasswordHash))
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "Secret123")

	_, err := f.users.Register(context.Background(), service.RegisterInput{Username: "alice", Password: "Other1234"})
	require.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   service.RegisterInput
		msg  string
	}{
		{"missing username", service.RegisterInput{Password: "Secret123"}, service.MsgCredentialsRequired},
		{"missing password", service.RegisterInput{Username: "alice"}, service.MsgCredentialsRequired},
		{"short username", service.RegisterInput{Username: "al", Password: "Secret123"}, service.MsgUsernameTooShort},
		{"short password", service.RegisterInput{Username: "alice", Password: "Se1"}, service.MsgWeakPassword},
		{"no digit", service.RegisterInput{Username: "alice", Password: "SecretPass"}, service.MsgWeakPassword},
		{"no upper", service.RegisterInput{Username: "alice", Password: "secret123"}, service.MsgWeakPassword},
		{"no lower", service.RegisterInput{Username: "alice", Password: "SECRET123"}, service.MsgWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.in)
			requireValidation(t, err, tt.msg)
		})
	}

	n, err := f.store.Users().CountUsers(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")

	tok, err := f.users.Login(ctx, service.LoginInput{Username: "alice", Password: "Secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.Equal(t, time.Hour, tok.ExpiresIn)

	id, err := f.tokens.Verify(ctx, tok.Token)
	require.NoError(t, err)
	require.Equal(t, v.ID, id.UserID)
	require.Equal(t, "alice", id.Username)
	require.Equal(t, domain.RoleUser, id.Role)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "Secret123")

	_, unknownErr := f.users.Login(ctx, service.LoginInput{Username: "bob", Password: "Secret123"})
	_, wrongErr := f.users.Login(ctx, service.LoginInput{Username: "alice", Password: "Wrong1234"})

	require.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, service.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginUsernameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "Secret123")

	_, err := f.users.Login(context.Background(), service.LoginInput{Username: "ALICE", Password: "Secret123"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Login(context.Background(), service.LoginInput{Username: "alice"})
	requireValidation(t, err, service.MsgCredentialsRequired)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := range 15 {
		f.register(t, fmt.Sprintf("user%02d", i), "Secret123")
	}

	page, err := f.users.List(ctx, service.ListInput{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Users, 5)
	require.EqualValues(t, 15, page.Total)
	require.Equal(t, 2, page.Page)
	require.EqualValues(t, 2, page.TotalPages)
	require.Equal(t, "user10", page.Users[0].Username)

	page, err = f.users.List(ctx, service.ListInput{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, page.Users)
	require.NotNil(t, page.Users)
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)

	page, err := f.users.List(context.Background(), service.ListInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Zero(t, page.Total)
	require.Zero(t, page.TotalPages)
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		in  service.ListInput
		msg string
	}{
		{service.ListInput{Page: 0, Limit: 10}, `"page" must be greater than or equal to 1`},
		{service.ListInput{Page: 1, Limit: 0}, `"limit" must be greater than or equal to 1`},
		{service.ListInput{Page: 1, Limit: 101}, `"limit" must be less than or equal to 100`},
		{service.ListInput{Page: service.MaxPage + 1, Limit: 100}, tooFarMsg},
		{service.ListInput{Page: math.MaxInt, Limit: 1}, tooFarMsg},
	}
	for _, tt := range tests {
		_, err := f.users.List(context.Background(), tt.in)
		requireValidation(t, err, tt.msg)
	}
}

var tooFarMsg = fmt.Sprintf(`"page" must be less than or equal to %d`, service.MaxPage)

func TestListLastAllowedPage(t *testing.T) {
	f := newFixture(t)
	for i := range 3 {
		f.register(t, fmt.Sprintf("user%02d", i), "Secret123")
	}

	page, err := f.users.List(context.Background(), service.ListInput{Page: service.MaxPage, Limit: service.MaxLimit})
	require.NoError(t, err)
	require.Empty(t, page.Users)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, service.MaxPage, page.Page)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Anna", "annette", "DIANNA", "bob"} {
		f.register(t, name, "Secret123")
	}

	got, err := f.users.Search(ctx, service.SearchInput{Username: "ann"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Anna", "annette", "DIANNA"}, names(got))

	got, err = f.users.Search(ctx, service.SearchInput{Role: "admin"})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = f.users.Search(ctx, service.SearchInput{Username: "ann", Role: "user"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = f.users.Search(ctx, service.SearchInput{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	_, err = f.users.Search(ctx, service.SearchInput{Role: "root"})
	requireValidation(t, err, `"role" must be one of [user, admin]`)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")
	f.register(t, "bob", "Secret123")

	updated, err := f.users.Update(ctx, v.ID, service.UpdateInput{Username: ptr("alicia")})
	require.NoError(t, err)
	require.Equal(t, "alicia", updated.Username)
	require.Equal(t, v.ID, updated.ID)

	_, err = f.users.Update(ctx, v.ID, service.UpdateInput{Username: ptr("bob")})
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	_, err = f.users.Update(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", service.UpdateInput{Username: ptr("carol")})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdateValidation(t *testing.T) {
	f := newFixture(t)
	v := f.register(t, "alice", "Secret123")

	_, err := f.users.Update(context.Background(), v.ID, service.UpdateInput{})
	requireValidation(t, err, service.MsgEmptyUpdate)

	_, err = f.users.Update(context.Background(), v.ID, service.UpdateInput{Username: ptr("al")})
	requireValidation(t, err, service.MsgUsernameTooShort)

	_, err = f.users.Update(context.Background(), v.ID, service.UpdateInput{Username: ptr("")})
	requireValidation(t, err, `"username" is not allowed to be empty`)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")

	removed, err := f.users.Delete(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, v.ID, removed.ID)

	_, err = f.users.Delete(ctx, v.ID)
	require.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = f.users.Login(ctx, service.LoginInput{Username: "alice", Password: "Secret123"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")
	caller := domain.Identity{UserID: v.ID, Username: v.Username, Role: v.Role}

	err := f.users.ChangePassword(ctx, caller, service.ChangePasswordInput{OldPassword: "Secret123", NewPassword: "Newpass456"})
	require.NoError(t, err)

	_, err = f.users.Login(ctx, service.LoginInput{Username: "alice", Password: "Secret123"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = f.users.Login(ctx, service.LoginInput{Username: "alice", Password: "Newpass456"})
	require.NoError(t, err)
}

func TestChangePasswordWrongOldKeepsHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")
	caller := domain.Identity{UserID: v.ID}

	before, err := f.store.Users().GetUserByID(ctx, v.ID)
	require.NoError(t, err)

	err = f.users.ChangePassword(ctx, caller, service.ChangePasswordInput{OldPassword: "Wrong1234", NewPassword: "Newpass456"})
	require.ErrorIs(t, err, service.ErrIncorrectPassword)

	after, err := f.store.Users().GetUserByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestChangePasswordEdgeCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "alice", "Secret123")

	err := f.users.ChangePassword(ctx, domain.Identity{UserID: v.ID}, service.ChangePasswordInput{OldPassword: "Secret123", NewPassword: "weak"})
	requireValidation(t, err, service.MsgWeakPassword)

	err = f.users.ChangePassword(ctx, domain.Identity{UserID: v.ID}, service.ChangePasswordInput{NewPassword: "Newpass456"})
	requireValidation(t, err, `"oldPassword" is required`)

	_, err = f.users.Delete(ctx, v.ID)
	require.NoError(t, err)
	err = f.users.ChangePassword(ctx, domain.Identity{UserID: v.ID}, service.ChangePasswordInput{OldPassword: "Secret123", NewPassword: "Newpass456"})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func names(vs []domain.UserView) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Username)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
