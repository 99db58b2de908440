package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Decode.CommentCharset != "" {
		t.Errorf("expected empty charset, got %s", cfg.Decode.CommentCharset)
	}
	if !cfg.Decode.Geometry {
		t.Error("expected geometry reduction enabled by default")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected output format 'text', got %s", cfg.Output.Format)
	}
	if cfg.Output.Limit != 20 {
		t.Errorf("expected limit 20, got %d", cfg.Output.Limit)
	}
	if cfg.Watch.DebounceMS != 200 {
		t.Errorf("expected debounce 200ms, got %d", cfg.Watch.DebounceMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "plytool.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "plytool.log"

decode:
  comment_charset: "shift_jis"
  geometry: false

output:
  format: "json"
  limit: 5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "plytool.log" {
		t.Errorf("expected log file 'plytool.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Decode.CommentCharset != "shift_jis" {
		t.Errorf("expected charset shift_jis, got %s", cfg.Decode.CommentCharset)
	}
	if cfg.Decode.Geometry {
		t.Error("expected geometry to be false")
	}
	if cfg.Output.Format != "json" || cfg.Output.Limit != 5 {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	// Untouched sections keep their defaults.
	if cfg.Watch.DebounceMS != 200 {
		t.Errorf("expected default debounce, got %d", cfg.Watch.DebounceMS)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "plytool.toml")

	tomlContent := `
[logging]
level = "warn"

[output]
format = "yaml"
limit = 0

[watch]
debounce_ms = 50
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Output.Format != "yaml" || cfg.Output.Limit != 0 {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if cfg.Watch.DebounceMS != 50 {
		t.Errorf("expected debounce 50, got %d", cfg.Watch.DebounceMS)
	}
	if !cfg.Decode.Geometry {
		t.Error("expected geometry default to survive")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"invalid.yaml": "output:\n  limit: not a number\n  invalid syntax here\n",
		"invalid.toml": "[output\nlimit = \n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, name)
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/plytool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"negative limit", func(c *Config) { c.Output.Limit = -1 }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -5 }},
		{"unknown charset", func(c *Config) { c.Decode.CommentCharset = "klingon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("plytool.toml", []byte("[output]\nlimit = 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != "./plytool.toml" {
		t.Errorf("expected ./plytool.toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "charset flag",
			setup: func() { *flagCharset = "euc-kr" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Decode.CommentCharset != "euc-kr" {
					t.Errorf("expected charset euc-kr, got %s", cfg.Decode.CommentCharset)
				}
			},
			teardown: func() { *flagCharset = "" },
		},
		{
			name:  "format and limit flags",
			setup: func() { *flagFormat = "json"; *flagLimit = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Format != "json" {
					t.Errorf("expected format json, got %s", cfg.Output.Format)
				}
				if cfg.Output.Limit != 0 {
					t.Errorf("expected limit 0, got %d", cfg.Output.Limit)
				}
			},
			teardown: func() { *flagFormat = ""; *flagLimit = -1 },
		},
		{
			name:  "unset limit keeps default",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Limit != 20 {
					t.Errorf("expected default limit 20, got %d", cfg.Output.Limit)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "plytool.yaml")

	yamlContent := `
output:
  format: "yaml"
  limit: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagFormat = "json"
	defer func() {
		*flagConfig = ""
		*flagFormat = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("expected format json from flag, got %s", cfg.Output.Format)
	}
	if cfg.Output.Limit != 3 {
		t.Errorf("expected limit 3 from file, got %d", cfg.Output.Limit)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "plytool.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: xml\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Decode.CommentCharset = "latin1"
			cfg.Output.Limit = 7
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded := &Config{}
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
			}
		})
	}
}
