package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleEvict)
	assert.Equal(t, 10, cfg.Session.SignInRatePerMin)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "key")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("SESSION_IDLE_EVICT", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("IDENTITY_ENDPOINT", "http://localhost:9099/identitytoolkit/v3/relyingparty/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleEvict)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://localhost:9099/identitytoolkit/v3/relyingparty/", cfg.Firebase.IdentityEndpoint)
}

func TestValidate(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "")
	_, err := Load()
	assert.EqualError(t, err, "FIREBASE_API_KEY is required")

	t.Setenv("FIREBASE_API_KEY", "key")
	t.Setenv("SIGNIN_RATE_PER_MIN", "0")
	_, err = Load()
	assert.EqualError(t, err, "SIGNIN_RATE_PER_MIN must be positive")
}
