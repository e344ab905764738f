package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, Profile, error)
	Register(ctx context.Context, input RegisterUser) (Profile, error)
	Me(ctx context.Context) (Profile, error)
}

// IdentityStore is the gateway to persisted identity records. Every lookup
// sees non-deleted records only; soft-deleted rows are invisible to all
// methods, including the uniqueness check.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) (*User, error)
	// UpdateLastLogin records a successful authentication. Single-field
	// write, no transaction spanning token issuance.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	TrackAttemptedLogin(ctx context.Context, user *User) error
}

// TokenService mints and verifies signed session tokens
type TokenService interface {
	Generate(subjectID int64, role UserRole) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims is the verified claim set extracted from a session token
type AuthClaims interface {
	Subject() string
	UserID() int64
	Role() string
	Expires() time.Time
	IssuedAt() time.Time
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetPublicPrefixes() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
