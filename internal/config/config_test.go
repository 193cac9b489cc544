package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(100), cfg.Server.MaxUploadMB)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "videotube", cfg.Media.Bucket)
	assert.False(t, cfg.Media.UseSSL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_DSN", "user:pw@tcp(db:3306)/videotube?parseTime=true")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("MEDIA_BUCKET", "channel-assets")
	t.Setenv("MEDIA_USE_SSL", "true")
	t.Setenv("MEDIA_PUBLIC_URL", "https://cdn.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "channel-assets", cfg.Media.Bucket)
	assert.True(t, cfg.Media.UseSSL)
	assert.Equal(t, "https://cdn.example.com", cfg.Media.PublicURL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestNewLogger(t *testing.T) {
	log := NewLogger(LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger(LogConfig{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
