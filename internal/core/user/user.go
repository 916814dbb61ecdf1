package user

import "github.com/frahmantamala/sakti/internal/role"

// User is the session user record. It is what login returns, what the session
// store persists under the "user" key and what the profile endpoint serves.
type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     role.Role `json:"role"`
	Instansi string    `json:"instansi"`
}

// DisplayName falls back to the username when no full name is known.
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "User"
}
