// Package config loads tool-level settings from .planline/config.toml.
// Project settings that drive scheduling live in the database instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file inside the data directory
const FileName = "config.toml"

// Environment overrides
const (
	EnvLogLevel    = "PLN_LOG_LEVEL"
	EnvSyncRetries = "PLN_SYNC_RETRIES"
)

// Defaults
const (
	DefaultLogLevel    = "warn"
	DefaultGanttTitle  = "Project plan"
	DefaultAxisFormat  = "%d-%m"
	DefaultMaxRetries  = 3
	DefaultSyncTimeout = 30 * time.Second
)

// Config is the content of config.toml
type Config struct {
	LogLevel string `toml:"log_level"`
	Gantt    Gantt  `toml:"gantt"`
	Sync     Sync   `toml:"sync"`
}

// Gantt holds timeline rendering settings
type Gantt struct {
	Title      string `toml:"title"`
	AxisFormat string `toml:"axis_format"`
}

// Sync holds GitHub publishing settings
type Sync struct {
	MaxRetries int      `toml:"max_retries"`
	Timeout    Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Gantt: Gantt{
			Title:      DefaultGanttTitle,
			AxisFormat: DefaultAxisFormat,
		},
		Sync: Sync{
			MaxRetries: DefaultMaxRetries,
			Timeout:    Duration{DefaultSyncTimeout},
		},
	}
}

// Path returns the config file path inside dir
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads dir/config.toml. A missing file yields the defaults. Empty
// fields are filled from the defaults and environment overrides applied.
func Load(dir string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(Path(dir), &cfg); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read %s: %w", FileName, err)
		}
	}
	cfg.fill()
	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to dir/config.toml
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(Path(dir))
	if err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) fill() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Gantt.Title == "" {
		c.Gantt.Title = d.Gantt.Title
	}
	if c.Gantt.AxisFormat == "" {
		c.Gantt.AxisFormat = d.Gantt.AxisFormat
	}
	if c.Sync.MaxRetries < 0 {
		c.Sync.MaxRetries = 0
	}
	if c.Sync.Timeout.Duration <= 0 {
		c.Sync.Timeout = d.Sync.Timeout
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvSyncRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Sync.MaxRetries = n
		}
	}
}
