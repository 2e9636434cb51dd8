package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/plugserv/internal/ctxlog"
)

// RunShutdown drains the shutdown stack and runs every action whose condition
// matches exit, most recently registered first.
//
// The stack is snapshotted and cleared in a single atomic step, so the drain
// happens at most once per Handle lifetime; the actions themselves run outside
// the lock, strictly sequentially. A failing action is logged and its error
// collected, but the remaining actions still run — shutdown is best-effort
// complete, never all-or-nothing. The joined error is returned for the caller
// to surface; callers must not let it mask the error that triggered the
// shutdown in the first place.
//
// There is no per-action timeout: a hung action blocks shutdown indefinitely.
func (h *Handle) RunShutdown(ctx context.Context, exit ExitCondition) error {
	logger := ctxlog.FromContext(ctx)

	h.mu.Lock()
	if h.drained {
		h.mu.Unlock()
		logger.Debug("Shutdown already drained, nothing to do.")
		return nil
	}
	stack := h.cleanups
	h.cleanups = nil
	h.drained = true
	h.mu.Unlock()

	logger.Info("🧹 Running shutdown actions", "condition", exit.String(), "registered", len(stack))

	var errs []error
	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		if !entry.cond.matches(exit) {
			continue
		}
		if err := entry.fn(); err != nil {
			logger.Error("Shutdown action failed, continuing with the rest.", "condition", entry.cond.String(), "error", err)
			errs = append(errs, fmt.Errorf("shutdown action (%s): %w", entry.cond, err))
		}
	}

	logger.Debug("Shutdown drain finished.", "errors", len(errs))
	return errors.Join(errs...)
}
