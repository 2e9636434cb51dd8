package config

import "fmt"

// Config is the fully merged, format-agnostic server configuration.
type Config struct {
	Port      int
	BaseURL   string
	LogLevel  string
	LogFormat string

	// Plugins holds the free-form option block for each plugin, keyed by
	// plugin name. The registry core never reads these; they are handed to
	// the matching plugin at construction time.
	Plugins map[string]map[string]string
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Port:      8000,
		LogLevel:  "info",
		LogFormat: "text",
		Plugins:   make(map[string]map[string]string),
	}
}

// EffectiveBaseURL returns the base URI handed to plugin init functions, so
// they can render absolute links back to themselves.
func (c *Config) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d/", c.Port)
}

// Options returns the merged option map for one plugin, never nil.
func (c *Config) Options(name string) map[string]string {
	if opts, ok := c.Plugins[name]; ok {
		return opts
	}
	return map[string]string{}
}
