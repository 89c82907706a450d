// Package config loads and validates server configuration from the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"8000"`
	BaseURL     string `envconfig:"BASE_URL" required:"true"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// AuthSecret signs application JWTs. EncryptionKey seals stored
	// provider credentials; when empty it is derived from AuthSecret.
	AuthSecret     string `envconfig:"AUTH_SECRET" required:"true"`
	EncryptionKey  string `envconfig:"ENCRYPTION_KEY"`
	AccessTokenTTL int    `envconfig:"ACCESS_TOKEN_TTL" default:"604800"`

	// IngestAPIKey authenticates desktop clients pushing work metrics.
	IngestAPIKey string `envconfig:"INGEST_API_KEY"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"lifehub"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"lifehub"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Valkey is optional; without it sync locks and the authorization-code
	// replay guard fall back to the in-process store.
	ValkeyAddr     string `envconfig:"VALKEY_ADDR"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	ValkeyDB       int    `envconfig:"VALKEY_DB" default:"0"`

	// S3-compatible storage for avatars; optional.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"lifehub-media"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"false"`
}

func IsDev() bool {
	env := os.Getenv("ENVIRONMENT")
	return env == "" || env == "development"
}

func ValidateEnv() (*EnvConfig, error) {
	if IsDev() {
		_ = godotenv.Load()
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var errors []string

	if len(cfg.AuthSecret) < 32 {
		errors = append(errors, "  AUTH_SECRET must be at least 32 characters")
	}

	if cfg.EncryptionKey != "" && len(cfg.EncryptionKey) < 32 {
		errors = append(errors, "  ENCRYPTION_KEY must be at least 32 characters when set")
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		errors = append(errors, "  BASE_URL must be a valid URL")
	}

	if (cfg.S3Endpoint != "") != (cfg.S3AccessKey != "" && cfg.S3SecretKey != "") {
		errors = append(errors, "  S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

// CredentialKey returns the passphrase used to seal provider credentials.
func (c *EnvConfig) CredentialKey() string {
	if c.EncryptionKey != "" {
		return c.EncryptionKey
	}
	return c.AuthSecret
}

// StravaRedirectURL is the OAuth callback the browser lands on after Strava
// authorization.
func (c *EnvConfig) StravaRedirectURL() string {
	return fmt.Sprintf("%s/api/v1/strava/callback", c.BaseURL)
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Base URL: %s\n", c.BaseURL)
	fmtr("  Auth Secret: %s\n", MaskSecret(c.AuthSecret))
	fmtr("  Encryption Key: %s\n", MaskSecret(c.EncryptionKey))
	if c.ValkeyAddr != "" {
		fmtr("  Valkey: %s\n", c.ValkeyAddr)
	} else {
		fmtr("  Valkey: disabled (in-memory store)\n")
	}
	if c.S3Endpoint != "" {
		fmtr("  Media storage: %s/%s\n", c.S3Endpoint, c.S3Bucket)
	} else {
		fmtr("  Media storage: disabled\n")
	}
}
