// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	auth "github.com/goliatone/go-staff-auth"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ErrMissingSigningKey is returned when JWT_SECRET is not set
var ErrMissingSigningKey = errors.New("missing required environment variable: JWT_SECRET")

// Config is the immutable process configuration. It is built once at start
// up and passed explicitly to the components that need it.
type Config struct {
	Port     int    `env:"PORT,default=3000"`
	BasePath string `env:"BASE_PATH"`

	SigningKey string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=1h"`
	Issuer     string        `env:"TOKEN_ISSUER"`
	Audience   []string      `env:"TOKEN_AUDIENCE"`
	AuthScheme string        `env:"AUTH_SCHEME,default=Bearer"`
	BcryptCost int           `env:"BCRYPT_COST,default=10"`

	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@tel-ran.com"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=Admin12345"`
	UserEmail     string `env:"USER_EMAIL,default=user@tel-ran.com"`
	UserPassword  string `env:"USER_PASSWORD,default=User12345"`

	StoreDriver string `env:"STORE_DRIVER,default=memory"`
	DataFile    string `env:"DATA_FILE,default=data/employees.json"`
	SQLiteDSN   string `env:"SQLITE_DSN,default=file:employees.db?cache=shared"`

	LogSkipBelow    int           `env:"LOG_SKIP_BELOW,default=400"`
	CORSOrigins     string        `env:"CORS_ORIGINS,default=*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

var _ auth.Config = (*Config)(nil)

// Load decodes the environment and validates the result. A missing
// signing key is fatal.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the process cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SigningKey) == "" {
		return ErrMissingSigningKey
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}

	return nil
}

// Seeds returns the start up accounts
func (c *Config) Seeds() []auth.AccountSeed {
	return []auth.AccountSeed{
		{Username: c.AdminEmail, Password: c.AdminPassword, Role: auth.RoleAdmin},
		{Username: c.UserEmail, Password: c.UserPassword, Role: auth.RoleUser},
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetAudience() []string {
	return c.Audience
}

func (c *Config) GetAuthScheme() string {
	return c.AuthScheme
}
