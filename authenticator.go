package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// before the cool down kicks in
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate
var CoolDownPeriod = "24h"

// Auther orchestrates login, registration, and self-lookup against the
// identity store. It holds no cross-request state; the only shared values
// are the immutable signing configuration and the store itself.
type Auther struct {
	store        IdentityStore
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
	now          func() time.Time
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store IdentityStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	).WithSigningMethod(opts.GetSigningMethod())

	return &Auther{
		store:        store,
		hasher:       BcryptHasher{},
		tokenService: tokenService,
		logger:       defLogger{},
		now:          time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithPasswordAuthenticator overrides the credential hashing primitive
func (s *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithTokenService overrides the token codec
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithClock injects a custom clock (useful for tests)
func (s *Auther) WithClock(clock func() time.Time) *Auther {
	if clock != nil {
		s.now = clock
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credential pair and issues a session token. An unknown
// email and a password mismatch produce the same error so callers cannot
// enumerate accounts. The last-login write is best effort: its failure is
// logged but never blocks a successful login.
func (s *Auther) Login(ctx context.Context, email, password string) (string, Profile, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", Profile{}, ErrInvalidCredentials
		}
		s.logger.Error("Login user lookup failed", "error", err)
		return "", Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return "", Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}
		if expired {
			user.LoginAttempts = 0
		}
	}

	if user.LoginAttempts > MaxLoginAttempts {
		return "", Profile{}, ErrTooManyLoginAttempts
	}

	// CPU bound and the dominant latency cost of login; runs with no locks held
	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := s.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			s.logger.Warn("failed to track login attempt", "error", err2)
		}
		return "", Profile{}, ErrInvalidCredentials
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		s.logger.Warn("Login blocked due to user status", "status", user.Status, "user_id", user.ID)
		return "", Profile{}, err
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record last login", "error", err, "user_id", user.ID)
	}

	token, err := s.tokenService.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", Profile{}, err
	}

	return token, NewProfile(user), nil
}

// Register creates a new identity record. Role-based access to this
// operation is enforced by the access policy at the transport choke point,
// not here. The email precheck is advisory; a racing insert surfaces as a
// gateway conflict and is mapped to the same conflict error.
func (s *Auther) Register(ctx context.Context, input RegisterUser) (Profile, error) {
	exists, err := s.store.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}
	if exists {
		return Profile{}, ErrEmailInUse
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	now := s.now()
	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         input.Role,
		PasswordHash: hash,
		Status:       UserStatusActive,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	created, err := s.store.Save(ctx, user)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) || isConflict(err) {
			return Profile{}, ErrEmailInUse
		}
		s.logger.Error("Register persist failed", "error", err)
		return Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to persist user")
	}

	return NewProfile(created), nil
}

// Me resolves the current principal and fetches its profile. A valid token
// can outlive its record since tokens are never revoked; the lookup then
// fails with not found.
func (s *Auther) Me(ctx context.Context) (Profile, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return Profile{}, ErrNoPrincipal
	}

	user, err := s.store.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	return NewProfile(user), nil
}

func isConflict(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryConflict
	}
	return false
}

var _ Authenticator = (*Auther)(nil)
