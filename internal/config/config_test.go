package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.BaseURL != DefaultAPIURL {
		t.Errorf("expected BaseURL=%s, got %s", DefaultAPIURL, cfg.API.BaseURL)
	}
	if cfg.UI.DefaultTab != TabDocQA {
		t.Errorf("expected DefaultTab=doc-qa, got %s", cfg.UI.DefaultTab)
	}
	if cfg.Calculator.RLC.Mode != ModeSeries {
		t.Errorf("expected RLC mode %s, got %s", ModeSeries, cfg.Calculator.RLC.Mode)
	}
	if cfg.Calculator.RLC.F != "60" {
		t.Errorf("expected RLC f=60, got %s", cfg.Calculator.RLC.F)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("VOLTDESK_API_URL", "")
	t.Setenv("VOLTDESK_TIMEOUT", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://127.0.0.1:8000"
	cfg.UI.Greeting = "안녕하세요"
	cfg.Logging.Categories = map[string]bool{"ui": false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("expected BaseURL to round-trip, got %s", loaded.API.BaseURL)
	}
	if loaded.UI.Greeting != "안녕하세요" {
		t.Errorf("expected greeting to round-trip, got %q", loaded.UI.Greeting)
	}
	if loaded.Logging.DebugMode {
		t.Error("expected debug mode to stay off")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("VOLTDESK_API_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.DefaultTab != TabDocQA {
		t.Errorf("expected defaults, got tab %s", cfg.UI.DefaultTab)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetAPITimeout(t *testing.T) {
	cases := map[string]time.Duration{
		"":     0,
		"0":    0,
		"30s":  30 * time.Second,
		"junk": 0,
		"-5s":  0,
	}
	for in, want := range cases {
		cfg := &Config{API: APIConfig{Timeout: in}}
		if got := cfg.GetAPITimeout(); got != want {
			t.Errorf("timeout %q: expected %v, got %v", in, want, got)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"bad tab", func(c *Config) { c.UI.DefaultTab = "settings" }},
		{"bad mode", func(c *Config) { c.Calculator.RLC.Mode = "series" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoggingConfig_LogDir(t *testing.T) {
	c := LoggingConfig{Dir: "/tmp/x"}
	if c.LogDir() != "/tmp/x" {
		t.Errorf("expected explicit dir, got %s", c.LogDir())
	}
	c.Dir = ""
	if c.LogDir() == "" {
		t.Error("expected a fallback dir")
	}
}
