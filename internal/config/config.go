// Package config handles loading and parsing the application's configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ASHISH26940/txkv/internal/lineio"
	"github.com/ASHISH26940/txkv/internal/logging"
	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the shell.
// We use struct tags to explicitly map TOML keys to struct fields.
type Config struct {
	Prompt       string `toml:"prompt"`
	HistoryFile  string `toml:"history_file"`   // Empty disables readline history
	LogLevel     string `toml:"log_level"`      // Any name logging.ParseLevel accepts
	Banner       bool   `toml:"banner"`         // Print the command overview at startup
	MaxDepth     int    `toml:"max_depth"`      // Nested BEGIN limit, 0 for none
	MaxLineBytes int    `toml:"max_line_bytes"` // Longest accepted input line for piped input and scripts
}

// New returns a new Config with default values.
func New() *Config {
	return &Config{
		Prompt:       "=> ",
		HistoryFile:  "",
		LogLevel:     "warn",
		Banner:       true,
		MaxDepth:     0,
		MaxLineBytes: lineio.DefaultMaxLineBytes,
	}
}

// Load reads a configuration file from the given path and populates the Config struct.
func (c *Config) Load(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return c.Validate()
}

// LoadOptional behaves like Load but treats a missing file as "use the
// defaults".
func (c *Config) LoadOptional(path string) error {
	err := c.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max_depth %d: must not be negative", c.MaxDepth)
	}
	if c.MaxLineBytes <= 0 {
		return fmt.Errorf("invalid max_line_bytes %d: must be positive", c.MaxLineBytes)
	}
	return nil
}
