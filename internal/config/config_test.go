package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvSearchTag, "")
	t.Setenv(EnvRefreshInterval, "")
	t.Setenv(EnvButtonPins, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchTag, cfg.Feed.SearchTag)
	assert.Equal(t, DefaultRefreshInterval, cfg.Feed.RefreshInterval)
	assert.Equal(t, DefaultFetchTimeout, cfg.Feed.Timeout)
	assert.Empty(t, cfg.Device.ButtonPins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvSearchTag, "#gophercon")
	t.Setenv(EnvOfficialHandle, "@gophercon.com")
	t.Setenv(EnvRefreshInterval, "90s")
	t.Setenv(EnvFetchTimeout, "2500")
	t.Setenv(EnvButtonPins, "GPIO0, GPIO14")
	t.Setenv(EnvDevMode, "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gophercon", cfg.Feed.SearchTag)
	assert.Equal(t, "gophercon.com", cfg.Feed.OfficialHandle)
	assert.Equal(t, 90*time.Second, cfg.Feed.RefreshInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.Feed.Timeout)
	assert.Equal(t, []string{"GPIO0", "GPIO14"}, cfg.Device.ButtonPins)
	assert.True(t, cfg.Server.DevMode)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv(EnvRefreshInterval, "soon")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("non-positive interval", func(t *testing.T) {
		t.Setenv(EnvRefreshInterval, "0")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("dev mode", func(t *testing.T) {
		t.Setenv(EnvDevMode, "maybe")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("too many buttons", func(t *testing.T) {
		t.Setenv(EnvButtonPins, "A,B,C")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badge.env")
	require.NoError(t, os.WriteFile(path, []byte("BADGE_FIRST_NAME=Grace\n"), 0o644))
	t.Setenv(EnvFirstName, "")

	loaded, err := LoadEnvFiles(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, loaded)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Grace", cfg.Badge.FirstName)
}
