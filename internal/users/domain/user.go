package domain

import "time"

// User is a stored account. PasswordHash never leaves the service layer;
// handlers respond with UserView.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View strips the credential fields.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Views maps a slice of users to their public projections. The result is
// never nil so it encodes as [].
func Views(users []User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	return out
}

// UserFilter narrows a search. Empty fields match everything.
type UserFilter struct {
	// UsernameContains is a case-insensitive literal substring.
	UsernameContains string
	Role             Role
}
