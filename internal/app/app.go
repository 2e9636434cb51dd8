package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/plugserv/internal/config"
	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/plugin"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *config.Config
	table  *plugin.Table
	opts   *Options
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and plugin table.
// Passing modules explicitly replaces the compiled-in list; tests use this.
func NewApp(outW io.Writer, opts *Options, modules ...plugin.Module) *App {
	bootCtx := ctxlog.WithLogger(context.Background(), slog.Default())

	cfg, err := config.Load(bootCtx, opts.ConfigPath, opts.PluginPaths)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	// CLI flags override file values.
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	table := plugin.NewTable()
	if len(modules) == 0 {
		modules = coreModules(cfg)
	}
	for _, mod := range modules {
		mod.Register(table)
	}
	logger.Debug("All plugin modules registered.", "count", len(modules), "names", table.Names())

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		table:  table,
		opts:   opts,
	}
}

// Table returns the application's plugin table. This is primarily for testing.
func (a *App) Table() *plugin.Table {
	return a.table
}
