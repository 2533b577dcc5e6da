// Package config loads formkit settings from a YAML file.
//
// A missing file is not an error: Load returns Defaults. Every value is
// checked after decoding so a bad file fails at startup rather than at
// first use.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/formkit/internal/model"
)

// Default values.
const (
	DefaultDatabase = "formkit.db"
	DefaultAddr     = "127.0.0.1:8080"
	DefaultLogLevel = "info"
)

// Config is the decoded settings file.
type Config struct {
	// Database is the SQLite path. ":memory:" keeps state in process.
	Database string        `yaml:"database"`
	Theme    model.Theme   `yaml:"theme"`
	History  HistoryConfig `yaml:"history"`
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
}

// HistoryConfig tunes the undo log.
type HistoryConfig struct {
	CoalesceWindow Duration `yaml:"coalesce_window"`
	Limit          int      `yaml:"limit"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration decodes Go duration strings such as "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Database: DefaultDatabase,
		Theme:    model.ThemeLight,
		Server:   ServerConfig{Addr: DefaultAddr},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads the file at path over Defaults. An empty path or a missing
// file yields Defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("config: database must not be empty")
	}
	if !c.Theme.Valid() {
		return fmt.Errorf("config: %w: %q", model.ErrUnknownTheme, c.Theme)
	}
	if c.History.CoalesceWindow < 0 {
		return fmt.Errorf("config: history.coalesce_window must not be negative")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("config: history.limit must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New("config: server.addr must not be empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}
