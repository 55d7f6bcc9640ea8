package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 7, cfg.Survey.TimerDefaultDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_EXPIRY", "24h")
	t.Setenv("TIMER_DEFAULT_DAYS", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SEED_QUESTIONS", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 30, cfg.Survey.TimerDefaultDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.Survey.SeedQuestions)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }},
		{"zero timer days", func(c *Config) { c.Survey.TimerDefaultDays = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"no cors origins", func(c *Config) { c.CORS.AllowOrigins = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
