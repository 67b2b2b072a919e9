package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "zero")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestNewPasswordConfig_CostOutOfRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")

	_, err := NewPasswordConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestNewReminderConfig_Defaults(t *testing.T) {
	t.Setenv("REMINDER_HOUR", "")
	t.Setenv("REMINDER_MINUTE", "")
	t.Setenv("REMINDER_TIMEZONE", "")

	cfg, err := NewReminderConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Hour)
	assert.Equal(t, 0, cfg.Minute)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestNewReminderConfig_Timezone(t *testing.T) {
	t.Setenv("REMINDER_HOUR", "8")
	t.Setenv("REMINDER_TIMEZONE", "Asia/Jakarta")

	cfg, err := NewReminderConfig()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
}

func TestNewReminderConfig_BadValues(t *testing.T) {
	t.Setenv("REMINDER_HOUR", "24")
	_, err := NewReminderConfig()
	assert.Error(t, err)

	t.Setenv("REMINDER_HOUR", "8")
	t.Setenv("REMINDER_TIMEZONE", "Mars/OlympusMons")
	_, err = NewReminderConfig()
	assert.Error(t, err)
}

func TestNewSMTPConfig(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "reminders@example.com")
	t.Setenv("SMTP_FROM_NAME", "")

	cfg, err := NewSMTPConfig()
	require.NoError(t, err)
	assert.Equal(t, "587", cfg.Port)
	assert.Equal(t, "Jobtrack", cfg.FromName)
}

func TestNewSMTPConfig_MissingHost(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	_, err := NewSMTPConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")
}

func TestNewStorageConfig(t *testing.T) {
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_ACCESS_KEY", "minioadmin")
	t.Setenv("STORAGE_SECRET_KEY", "minioadmin")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("STORAGE_USE_SSL", "")

	cfg, err := NewStorageConfig()
	require.NoError(t, err)
	assert.Equal(t, "jobtrack-attachments", cfg.Bucket)
	assert.False(t, cfg.UseSSL)
}

func TestNewStorageConfig_MissingCredentials(t *testing.T) {
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_ACCESS_KEY", "")
	t.Setenv("STORAGE_SECRET_KEY", "")

	_, err := NewStorageConfig()
	assert.Error(t, err)
}
