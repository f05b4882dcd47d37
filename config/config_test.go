package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Email.Timeout)
	assert.Equal(t, 2, cfg.Email.Retries)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.App.SerializeTurns)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("NOTIFY_TIMEOUT", "not-a-duration")
	t.Setenv("CHAT_SERIALIZE_TURNS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.Email.Timeout)
	assert.True(t, cfg.App.SerializeTurns)
}

func TestLoadConfig_RejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memcached")

	_, err := LoadConfig()
	assert.Error(t, err)
}
