package usersdk

import "time"

// User is the public user record returned by the API. It never carries the
// password hash.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"Secret123"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"Secret123"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int64 `json:"expiresIn" example:"3600"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" example:"alicia"`
}

// ChangePasswordRequest is the body of PUT /api/users/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" example:"Secret123"`
	NewPassword string `json:"newPassword" example:"Newpass456"`
}

// ListUsersResponse is one page of GET /api/users.
type ListUsersResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	TotalPages int64  `json:"totalPages"`
}

// MessageResponse is the shape of every error and of plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency checked by /readyz.
type HealthChecks struct {
	// Database indicates the user store connection status
	Database string `json:"database"`

	// Denylist indicates the token revocation backend status
	Denylist string `json:"denylist"`
}
