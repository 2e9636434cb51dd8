// Package lifecycle bounds the registry's lifetime to a single scoped block.
//
// WithRegistry is the only way the rest of the application obtains a registry
// handle, which is what lets it guarantee exactly one condition-correct
// shutdown drain on every exit path.
package lifecycle

import (
	"context"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/registry"
)

// WithRegistry creates a fresh registry handle, runs body with it, and drains
// the shutdown stack exactly once when body finishes:
//
//   - body returns nil: the OnSuccess pass runs and WithRegistry returns nil.
//   - body returns an error: the OnFailure pass runs and the original error is
//     returned unchanged. Cleanup failures are logged, never returned, so they
//     cannot mask the error that triggered the teardown.
//   - body panics: the OnFailure pass still runs, then the panic resumes.
//
// Cleanup actions registered during body's execution — including by plugins
// loaded inside it — are all covered by the single drain.
func WithRegistry(ctx context.Context, body func(*registry.Handle) error) error {
	logger := ctxlog.FromContext(ctx)
	h := registry.New()
	logger.Debug("Registry handle created.")

	completed := false
	defer func() {
		if completed {
			return
		}
		// Only reachable while unwinding a panic out of body.
		if cerr := h.RunShutdown(ctx, registry.OnFailure); cerr != nil {
			logger.Error("Cleanup errors while unwinding panic.", "error", cerr)
		}
	}()

	err := body(h)
	completed = true

	if err != nil {
		if cerr := h.RunShutdown(ctx, registry.OnFailure); cerr != nil {
			logger.Error("Cleanup errors during failure teardown.", "error", cerr)
		}
		return err
	}

	if cerr := h.RunShutdown(ctx, registry.OnSuccess); cerr != nil {
		logger.Error("Cleanup errors during shutdown.", "error", cerr)
	}
	return nil
}
