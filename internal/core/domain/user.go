package domain

import "time"

// Role is the capability level of an account: god ⊇ admin ⊇ user.
type Role string

const (
	RoleGod   Role = "god"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGod, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Principal is the authenticated actor derived from a verified token.
// It lives for a single request and is never persisted.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// User models an account. PasswordHash never leaves the server.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UserChanges is a partial update; nil fields are left untouched.
type UserChanges struct {
	Email             *string
	Name              *string
	PasswordHash      *string
	Role              *Role
	ProfilePictureURL *string
}

// IsEmpty reports whether the update carries no field at all.
func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && c.Name == nil && c.PasswordHash == nil &&
		c.Role == nil && c.ProfilePictureURL == nil
}
