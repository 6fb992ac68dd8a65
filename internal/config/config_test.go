package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2020, cfg.Prediction.MinYear)
	assert.Equal(t, 2030, cfg.Prediction.MaxYear)
	assert.Equal(t, 2025, cfg.Prediction.DefaultYear)
	assert.Equal(t, ',', cfg.DelimiterRune())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: ":9000"
  top_n: 5
data:
  path: /srv/data.csv
  delimiter: ";"
rate_limit:
  window: 30s
`), 0o644))

	t.Setenv("PORT", ":9100")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MODEL_DIR", "/srv/models")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.TopN)
	assert.Equal(t, "/srv/data.csv", cfg.Data.Path)
	assert.Equal(t, ';', cfg.DelimiterRune())
	assert.Equal(t, "/srv/models", cfg.Model.Dir)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("TOP_N", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "TOP_N")
}

func TestLoad_ReleaseRequiresSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	assert.ErrorContains(t, err, "auth.jwt_secret")

	t.Setenv("GIN_MODE", "debug")
	_, err = Load("")
	assert.NoError(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"inverted years", func(c *Config) { c.Prediction.MinYear = 2040 }},
		{"default outside range", func(c *Config) { c.Prediction.DefaultYear = 2019 }},
		{"long delimiter", func(c *Config) { c.Data.Delimiter = "||" }},
		{"zero top n", func(c *Config) { c.Server.TopN = 0 }},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }},
		{"bad gin mode", func(c *Config) { c.Server.GinMode = "verbose" }},
		{"default secret in release", func(c *Config) { c.Auth.JWTSecret = DefaultJWTSecret }},
		{"empty secret in release", func(c *Config) { c.Auth.JWTSecret = "" }},
	}

	valid := func() *Config {
		cfg := Default()
		cfg.Auth.JWTSecret = "test-secret"
		return cfg
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, valid().Validate())

	debug := Default()
	debug.Server.GinMode = "debug"
	assert.NoError(t, debug.Validate(), "placeholder secret is allowed outside release")
}
