package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("VOLTDESK_API_URL replaces base url", func(t *testing.T) {
		t.Setenv("VOLTDESK_API_URL", "http://localhost:9000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	})

	t.Run("VOLTDESK_TIMEOUT sets timeout", func(t *testing.T) {
		t.Setenv("VOLTDESK_TIMEOUT", "45s")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "45s", cfg.API.Timeout)
	})

	t.Run("VOLTDESK_DARK_MODE forces theme", func(t *testing.T) {
		t.Setenv("VOLTDESK_DARK_MODE", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		require.NotNil(t, cfg.UI.DarkMode)
		assert.True(t, *cfg.UI.DarkMode)
	})

	t.Run("unparseable booleans are ignored", func(t *testing.T) {
		t.Setenv("VOLTDESK_DARK_MODE", "sometimes")
		t.Setenv("VOLTDESK_DEBUG", "maybe")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Nil(t, cfg.UI.DarkMode)
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("VOLTDESK_DEBUG enables logging", func(t *testing.T) {
		t.Setenv("VOLTDESK_DEBUG", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
	})
}
