package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("BASE_URL", "http://localhost:8000")
	t.Setenv("AUTH_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestValidateEnvHappyPath(t *testing.T) {
	setBaseEnv(t)

	cfg, err := ValidateEnv()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:8000/api/v1/strava/callback", cfg.StravaRedirectURL())
}

func TestValidateEnvRejectsShortSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AUTH_SECRET", "short")

	_, err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_SECRET")
}

func TestValidateEnvRejectsBadBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BASE_URL", "not a url")

	_, err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASE_URL")
}

func TestCredentialKeyFallsBackToAuthSecret(t *testing.T) {
	setBaseEnv(t)

	cfg, err := ValidateEnv()
	require.NoError(t, err)
	assert.Equal(t, cfg.AuthSecret, cfg.CredentialKey())

	t.Setenv("ENCRYPTION_KEY", "fedcba9876543210fedcba9876543210")
	cfg, err = ValidateEnv()
	require.NoError(t, err)
	assert.Equal(t, "fedcba9876543210fedcba9876543210", cfg.CredentialKey())
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<not set>", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("12345678"))
	assert.Equal(t, "0123...cdef", MaskSecret("0123456789abcdef0123456789abcdef"))
}
