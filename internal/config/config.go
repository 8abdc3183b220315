package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the backend base address. Override at build time with
// -ldflags "-X voltdesk/internal/config.DefaultAPIURL=http://127.0.0.1:8000".
var DefaultAPIURL = "https://chatbot-elec.onrender.com"

// Tab names understood by the interactive UI.
const (
	TabChat       = "chat"
	TabDocQA      = "doc-qa"
	TabCalculator = "calculator"
)

// ValidTabs lists the tabs in display order.
var ValidTabs = []string{TabChat, TabDocQA, TabCalculator}

// RLC modes, in the backend's labels.
const (
	ModeSeries   = "직렬"
	ModeParallel = "병렬"
)

// Config holds all voltdesk configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	UI         UIConfig         `yaml:"ui"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is a Go duration string; empty or "0" waits indefinitely.
	Timeout string `yaml:"timeout"`
}

// CalculatorConfig holds the initial RLC form values. Empty strings start blank.
type CalculatorConfig struct {
	RLC RLCDefaults `yaml:"rlc"`
}

// RLCDefaults are the pre-filled RLC inputs.
type RLCDefaults struct {
	R    string `yaml:"r"`
	L    string `yaml:"l"`
	C    string `yaml:"c"`
	F    string `yaml:"f"`
	Mode string `yaml:"mode"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIURL,
			Timeout: "0",
		},
		UI: *DefaultUIConfig(),
		Calculator: CalculatorConfig{
			RLC: RLCDefaults{R: "100", L: "0.01", C: "0.0001", F: "60", Mode: ModeSeries},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "voltdesk.log",
		},
	}
}

// DefaultConfigPath returns ~/.config/voltdesk/config.yaml, or a relative
// fallback when the user config dir is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".voltdesk", "config.yaml")
	}
	return filepath.Join(dir, "voltdesk", "config.yaml")
}

// Load loads configuration from a YAML file, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("VOLTDESK_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if t := os.Getenv("VOLTDESK_TIMEOUT"); t != "" {
		c.API.Timeout = t
	}
	if v := os.Getenv("VOLTDESK_DARK_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UI.DarkMode = &b
		}
	}
	if v := os.Getenv("VOLTDESK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// GetAPITimeout returns the request timeout; zero means no timeout.
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" || c.API.Timeout == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: missing host", c.API.BaseURL)
	}

	if c.API.Timeout != "" && c.API.Timeout != "0" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d < 0 {
			return fmt.Errorf("invalid api.timeout %q", c.API.Timeout)
		}
	}

	if c.UI.DefaultTab != "" && !IsValidTab(c.UI.DefaultTab) {
		return fmt.Errorf("invalid ui.default_tab: %s (valid: %v)", c.UI.DefaultTab, ValidTabs)
	}

	switch c.Calculator.RLC.Mode {
	case "", ModeSeries, ModeParallel:
	default:
		return fmt.Errorf("invalid calculator.rlc.mode: %s (valid: %s, %s)", c.Calculator.RLC.Mode, ModeSeries, ModeParallel)
	}

	return c.Logging.Validate()
}

// IsValidTab reports whether name is one of ValidTabs.
func IsValidTab(name string) bool {
	for _, t := range ValidTabs {
		if t == name {
			return true
		}
	}
	return false
}
