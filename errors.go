package auth

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials covers both an unknown email and a password mismatch.
// The message is deliberately identical for the two cases so a caller cannot
// probe which accounts exist.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotActive is returned when credentials are correct but the
// account status forbids authentication. Distinct from ErrInvalidCredentials
// since identity is already confirmed at that point.
var ErrAccountNotActive = errors.New("Account is not active", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrAccessDenied is returned when the principal's role is not in the
// operation's allowed role set.
var ErrAccessDenied = errors.New("Access denied", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrEmailInUse is the conflict error for a duplicate email among non-deleted records
var ErrEmailInUse = errors.New("Email already in use", errors.CategoryConflict).
	WithTextCode("CONFLICT").
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when a referenced identity record is absent.
// Tokens are never revoked, so a valid token can outlive its record.
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode("NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrNoPrincipal means the request context carries no resolved principal
var ErrNoPrincipal = errors.New("No authenticated principal", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts enforces the login attempt cool down window
var ErrTooManyLoginAttempts = errors.New("Too many login attempts", errors.CategoryAuth).
	WithTextCode("TOO_MANY_ATTEMPTS").
	WithCode(http.StatusTooManyRequests)

// ErrTokenExpired is returned by token validation once the expiration passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers structural and signature failures
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the credential verifier's mismatch result
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
