package auth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/campuskit/lms-auth/middleware/authgate"
)

// APIResponse is the success envelope shared by every endpoint
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse wraps data in the success envelope
func SuccessResponse(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// SuccessMessageResponse wraps data plus a human message
func SuccessMessageResponse(data any, message string) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message}
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

// NewAuthGate builds the request gate from the configured token service.
// Verified claims become an explicit Principal on the request context;
// downstream code never reads ambient globals.
func NewAuthGate(cfg Config, tokenService TokenService, logger Logger) fiber.Handler {
	return authgate.New(authgate.Config{
		Validator: authgate.TokenValidatorFunc(func(raw string) (authgate.AuthClaims, error) {
			claims, err := tokenService.Validate(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		PublicPrefixes: cfg.GetPublicPrefixes(),
		HeaderName:     headerFromLookup(cfg.GetTokenLookup()),
		AuthScheme:     cfg.GetAuthScheme(),
		ContextKey:     cfg.GetContextKey(),
		ContextEnricher: func(ctx context.Context, claims authgate.AuthClaims) context.Context {
			return WithPrincipal(ctx, &Principal{
				UserID: claims.UserID(),
				Role:   UserRole(claims.Role()),
			})
		},
		Logger: logger,
	})
}

// headerFromLookup resolves the token lookup spec ("header:<name>") to the
// header the gate reads. Only header extraction is supported.
func headerFromLookup(lookup string) string {
	if name, ok := strings.CutPrefix(lookup, "header:"); ok && name != "" {
		return name
	}
	return fiber.HeaderAuthorization
}

// RequireOperation is the single authorization choke point: it evaluates the
// access policy for the resolved principal before the handler body runs, so
// a denied operation never executes any side effect.
func RequireOperation(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c.UserContext())
		if !ok {
			return ErrNoPrincipal
		}

		if err := Authorize(op, principal.Role); err != nil {
			return err
		}

		return c.Next()
	}
}

// RegisterAuthRoutes mounts the authentication endpoints
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	grp := app.Group("/api/v1/auth")
	grp.Post("/login", controller.LoginPost)
	grp.Post("/register", RequireOperation(OpUserRegister), controller.RegisterPost)
	grp.Get("/me", RequireOperation(OpUserSelf), controller.MeGet)
}

// ErrorHandler maps domain failures to the structured error envelope. Each
// taxonomy kind carries its own status and machine-readable code; anything
// unanticipated is logged in full and surfaced as a generic internal error.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return writeValidationError(c, fieldErrs)
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(errorResponse{
					Success: false,
					Error: errorDetail{
						Code:    "ERROR",
						Message: fiberErr.Message,
					},
				})
			}
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		status := richErr.Code
		if status == 0 {
			status = fiber.StatusInternalServerError
		}

		if richErr.Category == errors.CategoryInternal {
			logger.Error(
				"Unhandled error",
				"error", richErr,
				"path", c.Path(),
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Success: false,
				Error: errorDetail{
					Code:    "INTERNAL_ERROR",
					Message: "Something went wrong. Please try again.",
				},
			})
		}

		logger.Info("Request failed", "status", status, "code", richErr.TextCode, "message", richErr.Message)

		code := richErr.TextCode
		if code == "" {
			code = "ERROR"
		}

		return c.Status(status).JSON(errorResponse{
			Success: false,
			Error: errorDetail{
				Code:    code,
				Message: richErr.Message,
			},
		})
	}
}

func writeValidationError(c *fiber.Ctx, fieldErrs validation.Errors) error {
	fields := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Success: false,
		Error: errorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Fields:  fields,
		},
	})
}
