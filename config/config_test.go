package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "auth-service", cfg.AppName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, "auth-service", cfg.JWTIssuer)
	assert.Equal(t, "leadpilot", cfg.JWTAudience)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.CookieSecure)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "5432",
		DBName: "authdb", DBSSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:pw@db:5432/authdb?sslmode=disable", cfg.PostgresDSN())
}

func TestCSVHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: "https://a.example.com, https://b.example.com,",
		ElasticsearchAddrs: "http://es1:9200",
	}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es1:9200"}, cfg.ESAddrs())
}
