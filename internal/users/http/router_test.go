package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	userhttp "github.com/aussiebroadwan/userapi/internal/users/http"
	"github.com/aussiebroadwan/userapi/internal/users/revocation"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
	"github.com/aussiebroadwan/userapi/pkg/usersdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type harness struct {
	router *userhttp.Router
	store  store.Store
	users  *service.UserService
	tokens *service.TokenService
	reg    *prometheus.Registry
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, opts ...func(*userhttp.Router)) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	deny := revocation.NewMemory()
	tokens, err := service.NewTokenService(testSecret, "userapi-test", time.Hour, deny)
	require.NoError(t, err)
	users := &service.UserService{Store: st, Tokens: tokens}

	reg := prometheus.NewRegistry()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	r := userhttp.NewRouter("test", st, deny, httpx.NewMetrics("userapi", reg), logger)
	r.TokenService = tokens
	r.UserService = users
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &harness{router: r, store: st, users: users, tokens: tokens, reg: reg, logs: logs}
}

func (h *harness) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// seed creates a user through the service and returns it with a token.
func (h *harness) seed(t *testing.T, username string, role domain.Role) (domain.UserView, string) {
	t.Helper()
	ctx := context.Background()

	var (
		v   domain.UserView
		err error
	)
	if role == domain.RoleAdmin {
		_, err = (&service.BootstrapService{Store: h.store}).EnsureAdmin(ctx, username, "Secret123")
		require.NoError(t, err)
		u, err := h.store.Users().GetUserByUsername(ctx, username)
		require.NoError(t, err)
		v = u.View()
	} else {
		v, err = h.users.Register(ctx, service.RegisterInput{Username: username, Password: "Secret123"})
		require.NoError(t, err)
	}

	tok, err := h.users.Login(ctx, service.LoginInput{Username: username, Password: "Secret123"})
	require.NoError(t, err)
	return v, tok.Token
}

func requireMessage(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())

	var body httpx.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, msg, body.Message)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/register", "", `{"username":"alice","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")

	created := decode[usersdk.User](t, rec)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "alice", created.Username)
	require.Equal(t, "user", created.Role)

	rec = h.do(t, http.MethodPost, "/api/register", "", `{"username":"alice","password":"Other1234"}`)
	requireMessage(t, rec, http.StatusBadRequest, userhttp.MsgUsernameTaken)

	rec = h.do(t, http.MethodPost, "/api/login", "", `{"username":"alice","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	login := decode[usersdk.LoginResponse](t, rec)
	require.Equal(t, userhttp.MsgLoginSuccessful, login.Message)
	require.NotEmpty(t, login.Token)
	require.EqualValues(t, 3600, login.ExpiresIn)

	id, err := h.tokens.Verify(context.Background(), login.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID, id.UserID)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "alice", domain.RoleUser)

	wrong := h.do(t, http.MethodPost, "/api/login", "", `{"username":"alice","password":"Wrong1234"}`)
	unknown := h.do(t, http.MethodPost, "/api/login", "", `{"username":"nobody","password":"Secret123"}`)

	requireMessage(t, wrong, http.StatusUnauthorized, userhttp.MsgInvalidCredentials)
	requireMessage(t, unknown, http.StatusUnauthorized, userhttp.MsgInvalidCredentials)
	require.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec := h.do(t, http.MethodPost, "/api/login", "", `{"username":"alice"}`)
	requireMessage(t, rec, http.StatusBadRequest, service.MsgCredentialsRequired)

	rec = h.do(t, http.MethodPost, "/api/login", "", "")
	requireMessage(t, rec, http.StatusBadRequest, service.MsgCredentialsRequired)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty body", ``, service.MsgCredentialsRequired},
		{"missing password", `{"username":"alice"}`, service.MsgCredentialsRequired},
		{"short username", `{"username":"al","password":"Secret123"}`, service.MsgUsernameTooShort},
		{"weak password", `{"username":"alice","password":"password"}`, service.MsgWeakPassword},
		{"malformed", `{"username":`, "Malformed JSON body"},
		{"role injection", `{"username":"alice","password":"Secret123","role":"admin"}`, `"role" is not allowed`},
		{"wrong type", `{"username":42,"password":"Secret123"}`, `"username" must be a string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			rec := h.do(t, http.MethodPost, "/api/register", "", tt.body)
			requireMessage(t, rec, http.StatusBadRequest, tt.msg)

			n, err := h.store.Users().CountUsers(context.Background())
			require.NoError(t, err)
			require.Zero(t, n)
		})
	}
}

func TestAuthGates(t *testing.T) {
	h := newHarness(t)
	_, userTok := h.seed(t, "alice", domain.RoleUser)
	_, adminTok := h.seed(t, "root", domain.RoleAdmin)

	rec := h.do(t, http.MethodGet, "/api/users", "", "")
	requireMessage(t, rec, http.StatusUnauthorized, httpx.MsgTokenRequired)

	rec = h.do(t, http.MethodGet, "/api/users", "not-a-token", "")
	requireMessage(t, rec, http.StatusForbidden, httpx.MsgInvalidToken)

	rec = h.do(t, http.MethodGet, "/api/users", userTok, "")
	requireMessage(t, rec, http.StatusForbidden, httpx.MsgInsufficientPermissions)

	rec = h.do(t, http.MethodGet, "/api/users", adminTok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The bare token without the Bearer scheme is accepted too.
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", adminTok)
	bare := httptest.NewRecorder()
	h.router.ServeHTTP(bare, req)
	require.Equal(t, http.StatusOK, bare.Code)
}

func TestListUsersPagination(t *testing.T) {
	h := newHarness(t)
	_, adminTok := h.seed(t, "root", domain.RoleAdmin)
	for i := range 14 {
		_, err := h.users.Register(context.Background(), service.RegisterInput{
			Username: fmt.Sprintf("user%02d", i),
			Password: "Secret123",
		})
		require.NoError(t, err)
	}

	rec := h.do(t, http.MethodGet, "/api/users?page=2&limit=10", adminTok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[usersdk.ListUsersResponse](t, rec)
	require.Len(t, page.Users, 5)
	require.EqualValues(t, 15, page.Total)
	require.Equal(t, 2, page.Page)
	require.EqualValues(t, 2, page.TotalPages)

	rec = h.do(t, http.MethodGet, "/api/users", adminTok, "")
	page = decode[usersdk.ListUsersResponse](t, rec)
	require.Len(t, page.Users, 10)
	require.Equal(t, 1, page.Page)

	bad := map[string]string{
		"page=abc":  `"page" must be an integer`,
		"page=0":    `"page" must be greater than or equal to 1`,
		"limit=101": `"limit" must be less than or equal to 100`,
		"limit=0":   `"limit" must be greater than or equal to 1`,
		"sort=name": `"sort" is not allowed`,
		fmt.Sprintf("page=%d&limit=100", service.MaxPage+1): fmt.Sprintf(`"page" must be less than or equal to %d`, service.MaxPage),
	}
	for query, msg := range bad {
		rec := h.do(t, http.MethodGet, "/api/users?"+query, adminTok, "")
		requireMessage(t, rec, http.StatusBadRequest, msg)
	}
}

func TestSearchUsers(t *testing.T) {
	h := newHarness(t)
	_, adminTok := h.seed(t, "root", domain.RoleAdmin)
	for _, name := range []string{"Anna", "annette", "DIANNA", "bob"} {
		h.seed(t, name, domain.RoleUser)
	}

	rec := h.do(t, http.MethodGet, "/api/users/search?username=ann", adminTok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	found := decode[[]usersdk.User](t, rec)
	require.Len(t, found, 3)

	rec = h.do(t, http.MethodGet, "/api/users/search?role=admin", adminTok, "")
	found = decode[[]usersdk.User](t, rec)
	require.Len(t, found, 1)
	require.Equal(t, "root", found[0].Username)

	rec = h.do(t, http.MethodGet, "/api/users/search?username=zzz", adminTok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/users/search?role=root", adminTok, "")
	requireMessage(t, rec, http.StatusBadRequest, `"role" must be one of [user, admin]`)
}

func TestUpdateUser(t *testing.T) {
	h := newHarness(t)
	alice, tok := h.seed(t, "alice", domain.RoleUser)
	h.seed(t, "bob", domain.RoleUser)

	rec := h.do(t, http.MethodPut, "/api/users/"+alice.ID, tok, `{"username":"alicia"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "alicia", decode[usersdk.User](t, rec).Username)

	rec = h.do(t, http.MethodPut, "/api/users/"+alice.ID, tok, `{"username":"bob"}`)
	requireMessage(t, rec, http.StatusBadRequest, userhttp.MsgUsernameTaken)

	rec = h.do(t, http.MethodPut, "/api/users/"+alice.ID, tok, `{}`)
	requireMessage(t, rec, http.StatusBadRequest, service.MsgEmptyUpdate)

	rec = h.do(t, http.MethodPut, "/api/users/"+alice.ID, tok, `{"password":"Secret999"}`)
	requireMessage(t, rec, http.StatusBadRequest, `"password" is not allowed`)

	rec = h.do(t, http.MethodPut, "/api/users/01HZZZZZZZZZZZZZZZZZZZZZZZ", tok, `{"username":"carol"}`)
	requireMessage(t, rec, http.StatusNotFound, userhttp.MsgUserNotFound)

	rec = h.do(t, http.MethodPut, "/api/users/"+alice.ID, "", `{"username":"carol"}`)
	requireMessage(t, rec, http.StatusUnauthorized, httpx.MsgTokenRequired)
}

func TestDeleteUser(t *testing.T) {
	h := newHarness(t)
	alice, userTok := h.seed(t, "alice", domain.RoleUser)
	_, adminTok := h.seed(t, "root", domain.RoleAdmin)

	rec := h.do(t, http.MethodDelete, "/api/users/"+alice.ID, userTok, "")
	requireMessage(t, rec, http.StatusForbidden, httpx.MsgInsufficientPermissions)

	rec = h.do(t, http.MethodDelete, "/api/users/"+alice.ID, adminTok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, alice.ID, decode[usersdk.User](t, rec).ID)

	rec = h.do(t, http.MethodDelete, "/api/users/"+alice.ID, adminTok, "")
	requireMessage(t, rec, http.StatusNotFound, userhttp.MsgUserNotFound)
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	alice, tok := h.seed(t, "alice", domain.RoleUser)

	before, err := h.store.Users().GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPut, "/api/users/change-password", tok, `{"oldPassword":"Wrong1234","newPassword":"Newpass456"}`)
	requireMessage(t, rec, http.StatusUnauthorized, userhttp.MsgIncorrectPassword)

	after, err := h.store.Users().GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash)

	rec = h.do(t, http.MethodPut, "/api/users/change-password", tok, `{"oldPassword":"Secret123","newPassword":"weak"}`)
	requireMessage(t, rec, http.StatusBadRequest, service.MsgWeakPassword)

	rec = h.do(t, http.MethodPut, "/api/users/change-password", tok, `{"oldPassword":"Secret123","newPassword":"Newpass456"}`)
	requireMessage(t, rec, http.StatusOK, userhttp.MsgPasswordChanged)

	rec = h.do(t, http.MethodPost, "/api/login", "", `{"username":"alice","password":"Newpass456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	_, adminTok := h.seed(t, "root", domain.RoleAdmin)

	rec := h.do(t, http.MethodPost, "/api/logout", adminTok, "")
	requireMessage(t, rec, http.StatusOK, userhttp.MsgLoggedOut)

	rec = h.do(t, http.MethodGet, "/api/users", adminTok, "")
	requireMessage(t, rec, http.StatusForbidden, httpx.MsgInvalidToken)
}

func TestUsersTestRoute(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/usersTest", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	h = newHarness(t, func(r *userhttp.Router) { r.EnableTestRoutes = true })
	h.seed(t, "alice", domain.RoleUser)
	rec = h.do(t, http.MethodGet, "/api/usersTest?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[usersdk.ListUsersResponse](t, rec)
	require.Len(t, page.Users, 1)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/livez", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[usersdk.HealthResponse](t, rec).Status)

	rec = h.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	health := decode[usersdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Denylist)
	require.Equal(t, "test", health.Version)
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t)
	body := `{"username":"alice","password":"Wrong1234"}`

	for range httpx.StrictLimit.Burst {
		rec := h.do(t, http.MethodPost, "/api/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := h.do(t, http.MethodPost, "/api/login", "", body)
	requireMessage(t, rec, http.StatusTooManyRequests, httpx.MsgTooManyRequests)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different username from the same address has its own bucket.
	rec = h.do(t, http.MethodPost, "/api/login", "", `{"username":"bob","password":"Wrong1234"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Positive(t, h.router.PurgeRateLimiters(0))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/livez", "", "")

	rec := h.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `userapi_http_requests_total{method="GET",route="GET /livez",status="200"} 1`)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestPanicLoggedWithRequestID(t *testing.T) {
	h := newHarness(t)
	h.router.Mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-panic-1")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	requireMessage(t, rec, http.StatusInternalServerError, httpx.MsgInternalError)
	require.Equal(t, "req-panic-1", rec.Header().Get("X-Request-ID"))

	type record struct {
		Msg    string `json:"msg"`
		ReqID  string `json:"req_id"`
		Status int    `json:"status"`
	}
	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		var entry record
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry.ReqID != "req-panic-1" {
			continue
		}
		msgs = append(msgs, entry.Msg)
		if entry.Msg == "http_request" {
			require.Equal(t, http.StatusInternalServerError, entry.Status)
		}
	}
	require.Equal(t, []string{"panic serving request", "http_request"}, msgs)
}
