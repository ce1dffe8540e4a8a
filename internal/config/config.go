package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRefreshInterval = 500 * time.Millisecond
	DefaultStopTimeout     = 2 * time.Second
	DefaultBufferLines     = 50
	DefaultLogLevel        = "info"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3
)

// Config holds runtime settings loaded from ~/.ztop/config.yaml.
// Which commands run is fixed and deliberately not part of it.
type Config struct {
	RefreshInterval Duration `yaml:"refresh_interval" json:"refresh_interval"`
	StopTimeout     Duration `yaml:"stop_timeout" json:"stop_timeout"`
	BufferLines     int      `yaml:"buffer_lines" json:"buffer_lines"`
	PTY             bool     `yaml:"pty" json:"pty"`
	Log             Log      `yaml:"log" json:"log"`
}

// Log configures the rotating log file.
type Log struct {
	File       string `yaml:"file" json:"file"`
	Level      string `yaml:"level" json:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

// Duration wraps time.Duration for YAML unmarshaling from strings like "500ms", "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		RefreshInterval: Duration{DefaultRefreshInterval},
		StopTimeout:     Duration{DefaultStopTimeout},
		BufferLines:     DefaultBufferLines,
		Log: Log{
			File:       defaultLogFile(),
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Home returns the ztop home directory (~/.ztop).
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ztop"), nil
}

// DefaultPath returns the default config file path: ~/.ztop/config.yaml.
func DefaultPath() string {
	dir, err := Home()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func defaultLogFile() string {
	dir, err := Home()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ztop.log")
}

// Load reads a YAML config file from path on top of the defaults. If the file
// does not exist, it returns the defaults and no error. An empty or
// all-comment file also yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the dashboard cannot run with.
func (c *Config) Validate() error {
	if c.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.StopTimeout.Duration <= 0 {
		return fmt.Errorf("stop_timeout must be positive, got %s", c.StopTimeout)
	}
	if c.BufferLines <= 0 {
		return fmt.Errorf("buffer_lines must be positive, got %d", c.BufferLines)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	return nil
}
