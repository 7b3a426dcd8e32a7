package nbfs

import (
	"log/slog"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.CodeExtension != DefaultCodeExtension {
		t.Errorf("code extension = %q, want %q", cfg.CodeExtension, DefaultCodeExtension)
	}
	if cfg.ContentCacheMax != DefaultContentCacheMax {
		t.Errorf("content cache max = %d, want %d", cfg.ContentCacheMax, DefaultContentCacheMax)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty code extension", mutate: func(c *Config) { c.CodeExtension = "" }},
		{name: "code extension without dot", mutate: func(c *Config) { c.CodeExtension = "py" }},
		{name: "mime extension without dot", mutate: func(c *Config) {
			c.MimeExtensions = map[string]string{"text/html": "html"}
		}},
		{name: "zero cache size", mutate: func(c *Config) { c.ContentCacheMax = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "config.yaml", `
log_level: DEBUG
code_extension: .jl
mime_extensions:
  application/x-custom: .cst
content_cache_max: 16
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.Level())
	}
	if cfg.CodeExtension != ".jl" {
		t.Errorf("code extension = %q, want .jl", cfg.CodeExtension)
	}
	if cfg.MimeExtensions["application/x-custom"] != ".cst" {
		t.Errorf("mime extensions = %v", cfg.MimeExtensions)
	}
	if cfg.ContentCacheMax != 16 {
		t.Errorf("content cache max = %d, want 16", cfg.ContentCacheMax)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(dir + "/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeNotebook(t, dir, "bad.yaml", "code_extension: py\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected validation error for extension without dot")
	}

	garbled := writeNotebook(t, dir, "garbled.yaml", "{not yaml: [")
	if _, err := LoadConfig(garbled); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}
