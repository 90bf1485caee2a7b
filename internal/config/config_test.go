package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOWED_ORIGINS", "https://plastira.id, http://localhost:3000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, []string{"https://plastira.id", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "plastira", cfg.MongoDB.Database)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TokenTTL())
	assert.Equal(t, float64(10), cfg.Points.PerKg)
	assert.Equal(t, "memory", cfg.Notify.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("mongodb:\n  uri: mongodb://db:27017\n  database: plastira_test\njwt:\n  secret: from-file\npoints:\n  perkg: 12\nnotify:\n  backend: redis\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "plastira_test", cfg.MongoDB.Database)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, float64(12), cfg.Points.PerKg)
	assert.Equal(t, "redis", cfg.Notify.Backend)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("PLASTIRA_LIST", " a, ,b ")
	assert.Equal(t, []string{"a", "b"}, GetEnvAsSlice("PLASTIRA_LIST", ",", nil))
	assert.Equal(t, []string{"x"}, GetEnvAsSlice("PLASTIRA_MISSING", ",", []string{"x"}))
}
