package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/revocation"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/internal/users/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

const testIssuer = "userapi-test"

type fixture struct {
	store    store.Store
	denylist *revocation.Memory
	tokens   *service.TokenService
	users    *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	deny := revocation.NewMemory()
	tokens, err := service.NewTokenService(testSecret, testIssuer, time.Hour, deny)
	require.NoError(t, err)

	return &fixture{
		store:    st,
		denylist: deny,
		tokens:   tokens,
		users:    &service.UserService{Store: st, Tokens: tokens},
	}
}

func (f *fixture) register(t *testing.T, username, password string) domain.UserView {
	t.Helper()
	v, err := f.users.Register(context.Background(), service.RegisterInput{Username: username, Password: password})
	require.NoError(t, err)
	return v
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, msg, verr.Message)
}
