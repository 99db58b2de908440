// Package config handles plytool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/plyview/pkg/encoding"
)

// Config holds all plytool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Decode  DecodeConfig  `yaml:"decode" toml:"decode"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// DecodeConfig controls how PLY files are decoded.
type DecodeConfig struct {
	CommentCharset string `yaml:"comment_charset" toml:"comment_charset"` // Charset of comment/obj_info lines
	Geometry       bool   `yaml:"geometry" toml:"geometry"`               // Reduce binary files to geometry too
}

// OutputConfig controls how commands print results.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // text, json or yaml
	Limit  int    `yaml:"limit" toml:"limit"`   // Max records per element in dump (0 = all)
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Decode: DecodeConfig{
			CommentCharset: "",
			Geometry:       true,
		},
		Output: OutputConfig{
			Format: "text",
			Limit:  20,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit: must not be negative, got %d", c.Output.Limit)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms: must not be negative, got %d", c.Watch.DebounceMS)
	}
	if _, err := encoding.Lookup(c.Decode.CommentCharset); err != nil {
		return fmt.Errorf("decode.comment_charset: %w", err)
	}
	return nil
}
