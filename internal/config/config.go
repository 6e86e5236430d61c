// Package config handles configuration loading and validation for LiveBoard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"LiveBoard/internal/canvas"
)

// Config is the on-disk configuration of one LiveBoard install.
type Config struct {
	// Name is shown to guests browsing for boards.
	Name string `toml:"name" yaml:"name"`

	Host   HostConfig   `toml:"host" yaml:"host"`
	Canvas CanvasConfig `toml:"canvas" yaml:"canvas"`
	Export ExportConfig `toml:"export" yaml:"export"`
}

// HostConfig controls how a hosted board is served.
type HostConfig struct {
	// Port the websocket server listens on. 0 picks a free port.
	Port int `toml:"port" yaml:"port"`

	// MDNS advertises hosted boards on the local network.
	MDNS bool `toml:"mdns" yaml:"mdns"`

	// DiscoverTimeoutMs bounds how long a guest browses for boards.
	DiscoverTimeoutMs int `toml:"discover_timeout_ms" yaml:"discover_timeout_ms"`
}

// CanvasConfig holds drawing defaults.
type CanvasConfig struct {
	// PenColor is the hex color new shapes and strokes start with.
	PenColor string `toml:"pen_color" yaml:"pen_color"`
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "LiveBoard"
	}
	return &Config{
		Name: name,
		Host: HostConfig{
			Port:              8080,
			MDNS:              true,
			DiscoverTimeoutMs: 3000,
		},
		Canvas: CanvasConfig{
			PenColor: "#000000",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// Dir returns the LiveBoard configuration directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "liveboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".liveboard")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the configuration at path. A missing file yields defaults.
// Environment overrides are applied on top.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

func loadConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies LIVEBOARD_* environment variables.
// Malformed values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LIVEBOARD_NAME"); v != "" {
		c.Name = v
	}
	if v := os.Getenv("LIVEBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Host.Port = port
		}
	}
	if v := os.Getenv("LIVEBOARD_MDNS"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Host.MDNS = on
		}
	}
	if v := os.Getenv("LIVEBOARD_PEN_COLOR"); v != "" {
		c.Canvas.PenColor = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Host.Port < 0 || c.Host.Port > 65535 {
		errs = append(errs, fmt.Errorf("host.port %d out of range", c.Host.Port))
	}
	if c.Host.DiscoverTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("host.discover_timeout_ms must be positive, got %d", c.Host.DiscoverTimeoutMs))
	}
	if _, err := canvas.ParseHex(c.Canvas.PenColor); err != nil {
		errs = append(errs, fmt.Errorf("canvas.pen_color: %w", err))
	}
	return errors.Join(errs...)
}

// PenColor returns the parsed default pen color, black if it does not parse.
func (c *Config) PenColor() canvas.Color {
	col, err := canvas.ParseHex(c.Canvas.PenColor)
	if err != nil {
		return canvas.Color{}
	}
	return col
}
