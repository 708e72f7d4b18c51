// Package config loads workmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (WORKMUX_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .workmux.yaml in current directory
//  2. ~/.config/workmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timvw/workmux/internal/state"
)

// StatusIcons maps each agent status to a display glyph.
type StatusIcons struct {
	Working string `yaml:"working"`
	Waiting string `yaml:"waiting"`
	Done    string `yaml:"done"`
}

// Config holds all workmux configuration.
type Config struct {
	// Backend override; empty means auto-detect.
	Mux string `yaml:"mux"`

	// State registry directory; empty means the default location.
	StateDir string `yaml:"state_dir"`

	// Dashboard status icons.
	StatusIcons StatusIcons `yaml:"status_icons"`

	// Timeout for a single multiplexer control command,
	// Go duration string, e.g. "5s".
	CommandTimeout string `yaml:"command_timeout"`

	// Dashboard auto-refresh interval, Go duration string, e.g. "2s".
	Refresh string `yaml:"refresh"`

	// Dashboard color theme: dark, light.
	Theme string `yaml:"theme"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	CommandTimeoutDuration time.Duration `yaml:"-"`
	RefreshDuration        time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		StatusIcons: StatusIcons{
			Working: "⚙",
			Waiting: "⏳",
			Done:    "✅",
		},
		CommandTimeout: "5s",
		Refresh:        "2s",
		Theme:          "dark",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.CommandTimeoutDuration, err = parseDuration(cfg.CommandTimeout, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid command timeout %q: %w", cfg.CommandTimeout, err)
	}
	cfg.RefreshDuration, err = parseDuration(cfg.Refresh, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// IconFor returns the display glyph for the given agent status.
func (c *Config) IconFor(st state.Status) string {
	switch st {
	case state.StatusWorking:
		return c.StatusIcons.Working
	case state.StatusWaiting:
		return c.StatusIcons.Waiting
	case state.StatusDone:
		return c.StatusIcons.Done
	default:
		return ""
	}
}

// StatusIcon resolves the glyph for a status against the current
// configuration. The icon table is loaded fresh on every call rather than
// cached, so edits take effect immediately. Callers treat a load failure
// as "skip the visual update", never as fatal.
func StatusIcon(st state.Status) (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.IconFor(st), nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".workmux.yaml"); err == nil {
		return ".workmux.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "workmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Mux != "" {
		cfg.Mux = file.Mux
	}
	if file.StateDir != "" {
		cfg.StateDir = file.StateDir
	}
	if file.StatusIcons.Working != "" {
		cfg.StatusIcons.Working = file.StatusIcons.Working
	}
	if file.StatusIcons.Waiting != "" {
		cfg.StatusIcons.Waiting = file.StatusIcons.Waiting
	}
	if file.StatusIcons.Done != "" {
		cfg.StatusIcons.Done = file.StatusIcons.Done
	}
	if file.CommandTimeout != "" {
		cfg.CommandTimeout = file.CommandTimeout
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("WORKMUX_MUX"); v != "" {
		cfg.Mux = v
	}
	if v := os.Getenv("WORKMUX_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("WORKMUX_ICON_WORKING"); v != "" {
		cfg.StatusIcons.Working = v
	}
	if v := os.Getenv("WORKMUX_ICON_WAITING"); v != "" {
		cfg.StatusIcons.Waiting = v
	}
	if v := os.Getenv("WORKMUX_ICON_DONE"); v != "" {
		cfg.StatusIcons.Done = v
	}
	if v := os.Getenv("WORKMUX_COMMAND_TIMEOUT"); v != "" {
		cfg.CommandTimeout = v
	}
	if v := os.Getenv("WORKMUX_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("WORKMUX_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDuration parses a duration string. Empty string returns the fallback.
func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
