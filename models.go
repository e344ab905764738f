package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAdmin manages the platform, including user registration
	RoleAdmin UserRole = "ADMIN"
	// RoleInstructor teaches courses
	RoleInstructor UserRole = "INSTRUCTOR"
	// RoleStudent attends courses
	RoleStudent UserRole = "STUDENT"
)

// UserStatus is the account lifecycle status
type UserStatus = string

const (
	// UserStatusActive accounts can authenticate
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusSuspended accounts are temporarily blocked
	UserStatusSuspended UserStatus = "SUSPENDED"
	// UserStatusDisabled accounts are permanently blocked
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is the identity record. Deletion is logical: a non-nil DeletedAt
// excludes the row from every lookup and uniqueness check.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email          string     `bun:"email,notnull" json:"email,omitempty"`
	Phone          string     `bun:"phone" json:"phone,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	Role           UserRole   `bun:"role,notnull" json:"role,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Status         UserStatus `bun:"status,notnull" json:"status,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LastLoginAt    *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus defaults the lifecycle status for legacy rows
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// statusAuthError maps a non-active lifecycle status to an authorization error
func statusAuthError(status UserStatus) error {
	switch status {
	case "", UserStatusActive:
		return nil
	default:
		return ErrAccountNotActive
	}
}

// Profile is the public projection of a User. It never carries the
// credential digest, phone, status, or timestamps.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewProfile projects a user record into its public shape
func NewProfile(u *User) Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// RegisterUser is the input for creating a new identity record
type RegisterUser struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     UserRole
}
