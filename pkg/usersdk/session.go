package usersdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrSessionClosed is returned by Session calls after Logout.
var ErrSessionClosed = errors.New("usersdk: session logged out")

// Session is an authenticated view of the API. Tokens are not refreshed;
// log in again once ExpiresAt has passed.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewSession wraps an existing token. expiresIn is in seconds; zero means
// unknown.
func (c *SDKClient) NewSession(token string, expiresIn int64) *Session {
	s := &Session{client: c, token: token}
	if expiresIn > 0 {
		s.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return s
}

// Token returns the current identity token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt is the local estimate of the token expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) do(ctx context.Context, method, path string, body, target any, expected int) error {
	token := s.Token()
	if token == "" {
		return ErrSessionClosed
	}

	resp, err := s.client.doRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expected)
}

// ListUsers returns one page of users. Requires the admin role.
func (s *Session) ListUsers(ctx context.Context, page, limit int) (*ListUsersResponse, error) {
	var out ListUsersResponse
	if err := s.do(ctx, http.MethodGet, "/api/users"+pageQuery(page, limit), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers filters by username substring and/or role. Requires the admin
// role.
func (s *Session) SearchUsers(ctx context.Context, username, role string) ([]User, error) {
	q := url.Values{}
	if username != "" {
		q.Set("username", username)
	}
	if role != "" {
		q.Set("role", role)
	}
	path := "/api/users/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []User
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUsername renames user id.
func (s *Session) UpdateUsername(ctx context.Context, id, username string) (*User, error) {
	var out User
	err := s.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id),
		UpdateUserRequest{Username: &username}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes user id and returns the removed record. Requires the
// admin role.
func (s *Session) DeleteUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the session user's password. The current token
// stays valid.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.do(ctx, http.MethodPut, "/api/users/change-password",
		ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil, http.StatusOK)
}

// Logout revokes the token server side and clears it locally.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.do(ctx, http.MethodPost, "/api/logout", nil, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
