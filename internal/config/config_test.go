package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveBoard/internal/canvas"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.Name)
	assert.Equal(t, 8080, cfg.Host.Port)
	assert.True(t, cfg.Host.MDNS)
	assert.Equal(t, canvas.Color{}, cfg.PenColor())
	assert.NoError(t, cfg.Validate())
}

func TestConfigPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(ConfigPath(), "config.toml"))
}

func TestLoadNonexistent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Host.Port)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Studio"

[host]
port = 9001
mdns = false

[canvas]
pen_color = "#ff0000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Studio", cfg.Name)
	assert.Equal(t, 9001, cfg.Host.Port)
	assert.False(t, cfg.Host.MDNS)
	assert.Equal(t, canvas.Color{R: 255}, cfg.PenColor())
	// Unset keys keep their defaults.
	assert.Equal(t, 3000, cfg.Host.DiscoverTimeoutMs)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Lab\nhost:\n  port: 7000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Lab", cfg.Name)
	assert.Equal(t, 7000, cfg.Host.Port)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIVEBOARD_NAME", "FromEnv")
	t.Setenv("LIVEBOARD_PORT", "9999")
	t.Setenv("LIVEBOARD_MDNS", "false")
	t.Setenv("LIVEBOARD_PEN_COLOR", "#00ff00")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Name)
	assert.Equal(t, 9999, cfg.Host.Port)
	assert.False(t, cfg.Host.MDNS)
	assert.Equal(t, canvas.Color{G: 255}, cfg.PenColor())
}

func TestEnvOverridesIgnoreMalformed(t *testing.T) {
	t.Setenv("LIVEBOARD_PORT", "not-a-port")
	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 8080, cfg.Host.Port)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Name = " "
	cfg.Host.Port = 70000
	cfg.Canvas.PenColor = "blue"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "host.port")
	assert.Contains(t, err.Error(), "pen_color")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Name = "Saved"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.Name)
}

func TestLoaderWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Before"`), 0o644))

	l := NewLoader(path)
	t.Cleanup(func() { l.Close() })
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "Before", cfg.Name)

	changed := make(chan *Config, 4)
	l.OnChange(func(c *Config) { changed <- c })
	require.NoError(t, l.Watch())

	require.NoError(t, os.WriteFile(path, []byte(`name = "After"`), 0o644))

	select {
	case c := <-changed:
		assert.Equal(t, "After", c.Name)
		assert.Equal(t, "After", l.Config().Name)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestLoaderKeepsConfigOnInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Good"`), 0o644))

	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[canvas]
pen_color = "nope"`), 0o644))
	l.reload()
	assert.Equal(t, "Good", l.Config().Name)
}
