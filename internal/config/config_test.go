package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "me", cfg.SelfID)
	assert.Equal(t, time.Second, cfg.TypingTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("DEMO_DATA", "yes")
	t.Setenv("API_DELAY", "0s")
	t.Setenv("TYPING_TIMEOUT", "bogus")

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.True(t, cfg.DemoData)
	assert.Equal(t, time.Duration(0), cfg.APIDelay)
	assert.Equal(t, time.Second, cfg.TypingTimeout)
}

func TestDebugEnabled(t *testing.T) {
	assert.False(t, (*Config)(nil).DebugEnabled())
	assert.True(t, (&Config{DebugRoutes: true, AppEnv: "development"}).DebugEnabled())
	assert.False(t, (&Config{DebugRoutes: true, AppEnv: "production"}).DebugEnabled())
}
