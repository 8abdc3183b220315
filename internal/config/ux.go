package config

// UIConfig holds user interface configuration.
type UIConfig struct {
	// DefaultTab is shown at startup; unknown names fall back to doc-qa.
	DefaultTab string `yaml:"default_tab"`

	// Greeting seeds the chat transcript and is restored on reset. Empty means no greeting.
	Greeting string `yaml:"greeting"`

	// DarkMode forces the theme; nil means detect from the terminal.
	DarkMode *bool `yaml:"dark_mode,omitempty"`

	// Markdown renders assistant turns through glamour.
	Markdown bool `yaml:"markdown"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		DefaultTab: TabDocQA,
		Markdown:   true,
	}
}
