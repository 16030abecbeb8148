// Package user manages account records and the timezone days are cut in.
package user

import "time"

// Role is a user's permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account owning activities, stamps and regimes.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Role      Role      `json:"role"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user may manage other accounts.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
