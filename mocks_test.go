package auth_test

import (
	"context"
	"time"

	auth "github.com/campuskit/lms-auth"
	"github.com/stretchr/testify/mock"
)

// MockIdentityStore implements auth.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockIdentityStore) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockIdentityStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentityStore) Save(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	saved, _ := args.Get(0).(*auth.User)
	return saved, args.Error(1)
}

func (m *MockIdentityStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockIdentityStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (string, auth.Profile, error) {
	args := m.Called(ctx, email, password)
	profile, _ := args.Get(1).(auth.Profile)
	return args.String(0), profile, args.Error(2)
}

func (m *MockAuthenticator) Register(ctx context.Context, input auth.RegisterUser) (auth.Profile, error) {
	args := m.Called(ctx, input)
	profile, _ := args.Get(0).(auth.Profile)
	return profile, args.Error(1)
}

func (m *MockAuthenticator) Me(ctx context.Context) (auth.Profile, error) {
	args := m.Called(ctx)
	profile, _ := args.Get(0).(auth.Profile)
	return profile, args.Error(1)
}

// MockPasswordAuthenticator implements auth.PasswordAuthenticator without
// paying the bcrypt cost on every login test.
type MockPasswordAuthenticator struct {
	mock.Mock
}

func (m *MockPasswordAuthenticator) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordAuthenticator) ComparePasswordAndHash(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}

// plainHasher is a deterministic PasswordAuthenticator for flows that need
// a real roundtrip but not bcrypt latency.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", auth.ErrNoEmptyString
	}
	return "plain:" + password, nil
}

func (plainHasher) ComparePasswordAndHash(password, hash string) error {
	if hash != "plain:"+password {
		return auth.ErrMismatchedHashAndPassword
	}
	return nil
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey      string
	signingMethod   string
	tokenExpiration int
	issuer          string
	audience        []string
	tokenLookup     string
	publicPrefixes  []string
}

func (c testConfig) GetSigningKey() string { return c.signingKey }

func (c testConfig) GetSigningMethod() string {
	if c.signingMethod == "" {
		return "HS256"
	}
	return c.signingMethod
}

func (c testConfig) GetContextKey() string { return "principal" }

func (c testConfig) GetTokenExpiration() int {
	if c.tokenExpiration == 0 {
		return 1
	}
	return c.tokenExpiration
}

func (c testConfig) GetTokenLookup() string {
	if c.tokenLookup == "" {
		return "header:Authorization"
	}
	return c.tokenLookup
}

func (c testConfig) GetAuthScheme() string { return "Bearer" }

func (c testConfig) GetIssuer() string { return c.issuer }

func (c testConfig) GetAudience() []string { return c.audience }

func (c testConfig) GetPublicPrefixes() []string { return c.publicPrefixes }

func defaultTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 1,
		issuer:          "lms-auth",
		publicPrefixes:  []string{"/api/v1/auth/login", "/health"},
	}
}

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
