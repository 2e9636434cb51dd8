// Package cli turns command-line arguments into application options.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/plugserv/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns populated options, a
// boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("plugserv", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
plugserv - a pluggable text-serving HTTP daemon.

Usage:
  plugserv [options] PLUGIN [PLUGIN...]

Arguments:
  PLUGIN
    Name of a compiled-in plugin to load, in load order.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the main HCL config file.")
	portFlag := flagSet.Int("port", 0, "Listen port, overriding the config file.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	var pluginPaths stringList
	flagSet.Var(&pluginPaths, "plugin-path", "Directory to scan for plugin manifests. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	plugins := flagSet.Args()
	if len(plugins) == 0 {
		slog.Debug("No plugins requested, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	opts, err := app.NewOptions(app.Options{
		ConfigPath:  *configFlag,
		PluginPaths: pluginPaths,
		Port:        *portFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Plugins:     plugins,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "plugins", plugins)
	return opts, false, nil
}
