package app

import "errors"

// Options carries everything the CLI hands to the application: the plugin
// names to enable plus the knobs that override the config file.
type Options struct {
	ConfigPath  string
	PluginPaths []string // manifest search paths
	Port        int      // 0 means "use the config file value"
	LogFormat   string   // "" means "use the config file value"
	LogLevel    string
	Plugins     []string // positional plugin names, in load order
}

// NewOptions validates the raw option set.
func NewOptions(opts Options) (*Options, error) {
	if len(opts.Plugins) == 0 {
		return nil, errors.New("at least one plugin name is required")
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, errors.New("port must be between 0 and 65535")
	}
	return &opts, nil
}
