// Package authgate provides the per-request authentication gate. It runs
// once per inbound request, either attaching a verified principal to the
// request context or short-circuiting with a structured 401 before any
// business logic executes.
package authgate

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// reasonNoToken is written when the Authorization header is missing
	// or its scheme is not the configured one.
	reasonNoToken = "No token provided"
	// reasonInvalidToken is written when a present token fails
	// signature, structure, or expiry checks.
	reasonInvalidToken = "Invalid or expired token"
)

// AuthClaims mirrors the claim accessors from the auth package so the gate
// does not import it (the auth package imports this one).
type AuthClaims interface {
	Subject() string
	UserID() int64
	Role() string
}

// TokenValidator validates tokens and extracts claims without tying the
// gate to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	return f(tokenString)
}

// Logger mirrors the auth package logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type Config struct {
	// Validator is required; it decides token validity.
	Validator TokenValidator
	// PublicPrefixes lists path prefixes that bypass the gate entirely,
	// e.g. the login endpoint and the health prefix.
	PublicPrefixes []string
	// HeaderName defaults to the Authorization header.
	HeaderName string
	// AuthScheme defaults to "Bearer".
	AuthScheme string
	// ContextKey is the fiber Locals key the verified claims are stored
	// under. Defaults to "principal".
	ContextKey string
	// ContextEnricher propagates the verified claims into the standard
	// request context so downstream code can resolve the principal
	// without fiber.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
	// Filter optionally skips the gate for a request; it runs before the
	// prefix bypass.
	Filter func(c *fiber.Ctx) bool

	Logger Logger
}

type errorBody struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New builds the gate middleware. On rejection the gate writes the terminal
// response itself and never forwards control downstream.
func New(config Config) fiber.Handler {
	cfg := withDefaults(config)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		if isPublicPath(c.Path(), cfg.PublicPrefixes) {
			return c.Next()
		}

		raw, ok := extractToken(c.Get(cfg.HeaderName), cfg.AuthScheme)
		if !ok {
			return writeUnauthorized(c, reasonNoToken)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("token rejected", "path", c.Path(), "error", err)
			}
			return writeUnauthorized(c, reasonInvalidToken)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// ClaimsFromLocals returns the verified claims the gate stored for this request
func ClaimsFromLocals(c *fiber.Ctx, contextKey string) (AuthClaims, bool) {
	if contextKey == "" {
		contextKey = "principal"
	}
	claims, ok := c.Locals(contextKey).(AuthClaims)
	return claims, ok
}

func withDefaults(cfg Config) Config {
	if cfg.Validator == nil {
		panic("authgate: Config.Validator is required")
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = fiber.HeaderAuthorization
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}
	return cfg
}

func isPublicPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// extractToken pulls the bearer token out of the header value. An empty
// header, a wrong scheme, or an empty token all count as "no token".
func extractToken(header, scheme string) (string, bool) {
	if header == "" {
		return "", false
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

func writeUnauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorBody{
		Success: false,
		Error: errorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
