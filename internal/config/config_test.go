package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "http://localhost:3000", cfg.CORS.Origin)
	assert.Equal(t, cfg.CORS.Origin, cfg.FrontendURL)
	assert.Equal(t, devSessionSecret, cfg.Session.Secret)
	assert.Equal(t, "qid", cfg.Session.CookieName)
	assert.Equal(t, 2*365*24*time.Hour, cfg.Session.MaxAge)
	assert.False(t, cfg.IsMailConfigured())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("CORS_ORIGIN", "https://example.com")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_URL", "postgres://u:p@db:5432/lireddit")
	t.Setenv("KV_DIR", "")
	t.Setenv("LOADER_WAIT", "5ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "https://example.com", cfg.CORS.Origin)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/lireddit", cfg.Database.URL)
	assert.Empty(t, cfg.KV.Dir)
	assert.Equal(t, 5*time.Millisecond, cfg.GraphQL.LoaderWait)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "sqlite"},
		Session:  SessionConfig{Secret: "x", MaxAge: time.Hour},
	}
	require.Error(t, cfg.Validate())
}
