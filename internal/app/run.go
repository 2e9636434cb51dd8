package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/lifecycle"
	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
	"github.com/vk/plugserv/internal/server"
)

// Run executes the whole process lifecycle: resolve and initialize the
// requested plugins, then serve until interrupted. All of it happens inside a
// single registry scope, so every cleanup the plugins registered runs exactly
// once on the way out — under OnFailure when a load or listen error aborts
// the run, under OnSuccess after a clean stop.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Debug("App.Run method started.", "requested_plugins", a.opts.Plugins)

	return lifecycle.WithRegistry(ctx, func(h *registry.Handle) error {
		descs, err := a.table.Resolve(a.opts.Plugins)
		if err != nil {
			return err
		}

		if _, err := plugin.LoadAll(ctx, h, descs, a.cfg.EffectiveBaseURL()); err != nil {
			return err
		}

		srv := server.New(fmt.Sprintf(":%d", a.cfg.Port), a.logger, h)
		// Registered after the plugins' cleanups, so the listener drains
		// before any plugin releases the resources requests may still use.
		h.AddCleanup(registry.Always, srv.Close)

		a.logger.Info("Routes registered:", "routes", h.PreprocessorNames())
		return srv.ListenAndServe(ctx)
	})
}
