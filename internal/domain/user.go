package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultLanguage is the language assigned to new users.
const DefaultLanguage = "en"

// User represents an account that owns boards and custom choices.
//
// A user's boards are not stored on the user record; they are derived by
// querying boards by owner. This keeps board deletion trivially consistent.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Language     string    `json:"language"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
