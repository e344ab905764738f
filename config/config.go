// Package config loads service configuration from a TOML file with
// environment variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the complete lms-authd configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Admin    AdminConfig    `toml:"admin"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Address string `toml:"address"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

// AuthConfig holds token and gate configuration
type AuthConfig struct {
	SigningKey string `toml:"signing_key"`
	// SigningMethod selects the HMAC variant (HS256, HS384, HS512).
	SigningMethod string `toml:"signing_method"`
	// TokenExpiration is the token lifetime in hours.
	TokenExpiration int      `toml:"token_expiration"`
	Issuer          string   `toml:"issuer"`
	Audience        []string `toml:"audience"`
	ContextKey      string   `toml:"context_key"`
	TokenLookup     string   `toml:"token_lookup"`
	AuthScheme      string   `toml:"auth_scheme"`
	// PublicPrefixes are the path prefixes that bypass the auth gate.
	PublicPrefixes []string `toml:"public_prefixes"`
}

// AdminConfig holds the seed credentials for the platform administrator
type AdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

// Load reads the TOML file at path, applies environment overrides and
// defaults, and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LMS_AUTH_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("LMS_AUTH_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("LMS_AUTH_SIGNING_KEY"); v != "" {
		c.Auth.SigningKey = v
	}
	if v := os.Getenv("LMS_AUTH_TOKEN_EXPIRATION"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.Auth.TokenExpiration = hours
		}
	}
	if v := os.Getenv("LMS_AUTH_ADMIN_EMAIL"); v != "" {
		c.Admin.Email = v
	}
	if v := os.Getenv("LMS_AUTH_ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "file:lms.db?cache=shared&mode=rwc"
	}
	if c.Auth.SigningMethod == "" {
		c.Auth.SigningMethod = "HS256"
	}
	if c.Auth.TokenExpiration <= 0 {
		c.Auth.TokenExpiration = 24
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "lms-auth"
	}
	if c.Auth.ContextKey == "" {
		c.Auth.ContextKey = "principal"
	}
	if c.Auth.TokenLookup == "" {
		c.Auth.TokenLookup = "header:Authorization"
	}
	if c.Auth.AuthScheme == "" {
		c.Auth.AuthScheme = "Bearer"
	}
	if len(c.Auth.PublicPrefixes) == 0 {
		c.Auth.PublicPrefixes = []string{"/api/v1/auth/login", "/health"}
	}
}

// Validate rejects configurations the service cannot safely run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return fmt.Errorf("config: auth.signing_key is required")
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		return fmt.Errorf("config: admin.password is required when admin.email is set")
	}
	return nil
}

// The getters below satisfy the auth.Config interface.

func (c *Config) GetSigningKey() string       { return c.Auth.SigningKey }
func (c *Config) GetSigningMethod() string    { return c.Auth.SigningMethod }
func (c *Config) GetContextKey() string       { return c.Auth.ContextKey }
func (c *Config) GetTokenExpiration() int     { return c.Auth.TokenExpiration }
func (c *Config) GetTokenLookup() string      { return c.Auth.TokenLookup }
func (c *Config) GetAuthScheme() string       { return c.Auth.AuthScheme }
func (c *Config) GetIssuer() string           { return c.Auth.Issuer }
func (c *Config) GetAudience() []string       { return c.Auth.Audience }
func (c *Config) GetPublicPrefixes() []string { return c.Auth.PublicPrefixes }
