package auth

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// AuthController exposes the authentication endpoints
type AuthController struct {
	Auth   Authenticator
	Logger Logger
}

// NewAuthController builds the controller
func NewAuthController(auther Authenticator) *AuthController {
	if auther == nil {
		panic("Missing Authenticator in auth controller...")
	}
	return &AuthController{
		Auth:   auther,
		Logger: defLogger{},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse is the login success payload
type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// RegisterRequest payload
type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Phone    string `form:"phone" json:"phone"`
	Role     string `form:"role" json:"role"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(2, 255),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 0),
		),
		validation.Field(
			&r.Phone,
			validation.Match(phonePattern),
			validation.By(validPhoneNumber),
		),
		validation.Field(
			&r.Role,
			validation.Required,
			validation.By(validRole),
		),
	)
}

// validPhoneNumber runs the full parser over international numbers; the
// pattern match alone accepts digit strings that no region can dial.
func validPhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" || !strings.HasPrefix(s, "+") {
		return nil
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return fmt.Errorf("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("must be a valid phone number")
	}
	return nil
}

func validRole(value any) error {
	s, _ := value.(string)
	if _, ok := ParseRole(s); !ok {
		return fmt.Errorf("must be one of %s", strings.Join(GetAllRoles(), ", "))
	}
	return nil
}

// LoginPost authenticates the credential pair and returns a session token
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Malformed request body").
			WithTextCode("BAD_REQUEST").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, profile, err := a.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(SuccessResponse(LoginResponse{
		Token: token,
		User:  profile,
	}))
}

// RegisterPost creates a new identity record. The access policy has already
// been evaluated by the time this handler runs.
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Malformed request body").
			WithTextCode("BAD_REQUEST").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	profile, err := a.Auth.Register(c.UserContext(), RegisterUser{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Phone:    payload.Phone,
		Role:     UserRole(payload.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(SuccessMessageResponse(profile, "User registered successfully"))
}

// MeGet returns the caller's own profile
func (a *AuthController) MeGet(c *fiber.Ctx) error {
	profile, err := a.Auth.Me(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(SuccessResponse(profile))
}
