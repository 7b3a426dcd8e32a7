package nbfs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds mount configuration. All fields have working defaults; a
// YAML config file is optional and the CLI overrides Source.
type Config struct {
	// Source is the host directory scanned for notebooks.
	Source string `yaml:"source"`
	// LogLevel names the slog output level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// CodeExtension is the virtual extension for code cell files.
	CodeExtension string `yaml:"code_extension"`
	// MimeExtensions entries shadow the built-in MIME extension table.
	MimeExtensions map[string]string `yaml:"mime_extensions"`
	// ContentCacheMax caps the rendered content cache entry count.
	ContentCacheMax int `yaml:"content_cache_max"`
	// Writable is accepted for forward compatibility but has no effect;
	// the filesystem core is read-only.
	Writable bool `yaml:"writable"`
}

// NewDefaultConfig returns a Config with working default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		CodeExtension:   DefaultCodeExtension,
		ContentCacheMax: DefaultContentCacheMax,
	}
}

// LoadConfig reads a YAML config file over the defaults and validates the
// result.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CodeExtension, validation.Required),
		validation.Field(&c.ContentCacheMax, validation.Min(1)),
	); err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if !strings.HasPrefix(c.CodeExtension, ".") {
		return fmt.Errorf("code_extension: must start with a dot, got %q", c.CodeExtension)
	}
	for mime, ext := range c.MimeExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("mime_extensions[%s]: must start with a dot, got %q", mime, ext)
		}
	}
	return nil
}
