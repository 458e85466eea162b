// Package config manages commitview configuration.
// It handles loading the TOML config file and applying environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imdario/mergo"
	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/pelletier/go-toml/v2"
)

const (
	AppDir     = "commitview"
	ConfigFile = "config.toml"

	DefaultAPIURL = "http://localhost:5000"
	DefaultListen = "127.0.0.1:8730"
)

// Numbering modes for diff line numbers.
const (
	NumberingSequential = "sequential"
	NumberingHunk       = "hunk"
)

// Config represents the commitview configuration
type Config struct {
	APIURL        string                `toml:"api_url"`
	Listen        string                `toml:"listen"`
	LogLevel      string                `toml:"log_level"`
	LogFormat     string                `toml:"log_format"`
	Timeout       Duration              `toml:"timeout"` // per request, 0 means none
	Retries       int                   `toml:"retries"`
	Numbering     string                `toml:"numbering"`
	Highlight     string                `toml:"highlight_style"` // chroma style name
	DefaultCommit models.CommitIdentity `toml:"default_commit"`
	path          string
}

// Duration is a time.Duration that reads and writes as a string like "5s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:    DefaultAPIURL,
		Listen:    DefaultListen,
		LogLevel:  "info",
		LogFormat: "text",
		Numbering: NumberingSequential,
		Highlight: "dracula",
		DefaultCommit: models.CommitIdentity{
			Owner:      "golemfactory",
			Repository: "clay",
			CommitSHA:  "a1bf367b3af680b1182cc52bb77ba095764a11f9",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/commitview/config.toml, falling back
// to the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, AppDir, ConfigFile)
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path means DefaultPath; a missing file at
// the default path is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.path = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIURL = envOrDefault("COMMITVIEW_API_URL", c.APIURL)
	c.Listen = envOrDefault("COMMITVIEW_LISTEN", c.Listen)
	c.LogLevel = envOrDefault("COMMITVIEW_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("COMMITVIEW_LOG_FORMAT", c.LogFormat)
}

// Merge copies every non-zero field of overrides onto c and re-validates.
func (c *Config) Merge(overrides *Config) error {
	if overrides == nil {
		return nil
	}
	if err := mergo.Merge(c, overrides, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return c.Validate()
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch c.Numbering {
	case "", NumberingSequential, NumberingHunk:
	default:
		return fmt.Errorf("unknown numbering %q (want %s or %s)", c.Numbering, NumberingSequential, NumberingHunk)
	}
	if err := c.DefaultCommit.Validate(); err != nil {
		return fmt.Errorf("default_commit: %w", err)
	}
	return nil
}

// Save writes the configuration to the path it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no path")
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(c.path, data, 0644)
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Logger builds a slog logger from LogLevel and LogFormat.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
