// Package config handles configuration for the server, including defaults,
// a JSON file overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevSecretKey signs tokens when no secret is configured in development.
// It is public knowledge; tokens signed with it prove nothing.
const DevSecretKey = "dev-only-change-me"

// ErrMissingSecret is returned when no signing secret is configured outside
// development.
var ErrMissingSecret = errors.New("jwt secret is required outside development")

// Config holds runtime settings for the KrishiRakshak server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "sqlite" with a file path, or "pgx" with a
//     PostgreSQL DSN.
//   - SecretKey / Issuer / AccessTokenValidityDuration: access token signing.
//   - PasswordIterations: PBKDF2 iteration count for new credentials;
//     each stored credential keeps its own count.
//   - Environment: "development" or "production"; only development may fall
//     back to DevSecretKey.
//   - ReportBucket, S3*: optional archive of generated reports. Archiving is
//     off while ReportBucket is empty.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	Issuer                      string
	AccessTokenValidityDuration time.Duration
	PasswordIterations          int
	Environment                 string
	ReportBucket                string
	S3Region                    string
	S3BaseEndpoint              string
	S3RootUser                  string
	S3RootPassword              string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDriver = dbx.DriverSQLite
	c.DatabaseDSN = "krishirakshak.db"
	c.SecretKey = ""
	c.Issuer = "krishirakshak-ai"
	c.AccessTokenValidityDuration = auth.DefaultAccessTTL
	c.PasswordIterations = auth.DefaultIterations
	c.Environment = EnvDevelopment
	c.ReportBucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

// Load applies defaults, then the JSON file named by -c/-config in args,
// then environment variables, then the remaining flags in args.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookupEnv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case dbx.DriverSQLite, dbx.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.PasswordIterations < 1 {
		return fmt.Errorf("password iterations must be >= 1, got %d", c.PasswordIterations)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	if c.Issuer == "" {
		return errors.New("issuer must not be empty")
	}
	return nil
}

// UsesDevSecret reports whether SigningConfig will fall back to DevSecretKey.
func (c *Config) UsesDevSecret() bool {
	return c.SecretKey == "" && c.Environment == EnvDevelopment
}

// SigningConfig returns the immutable token signing configuration.
func (c *Config) SigningConfig() (auth.SigningConfig, error) {
	secret := c.SecretKey
	if secret == "" {
		if c.Environment != EnvDevelopment {
			return auth.SigningConfig{}, ErrMissingSecret
		}
		secret = DevSecretKey
	}

	return auth.SigningConfig{
		Secret:    []byte(secret),
		Issuer:    c.Issuer,
		AccessTTL: c.AccessTokenValidityDuration,
	}, nil
}
