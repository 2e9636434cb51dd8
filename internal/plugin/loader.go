package plugin

import (
	"context"
	"fmt"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/registry"
)

// LoadAll initializes the given plugins sequentially against the shared
// handle, before any request serving starts. The first init failure aborts
// the remaining loads and is propagated to the caller; cleanup actions
// already registered by earlier plugins stay on the handle, so the lifecycle
// wrapper's OnFailure pass still releases their resources.
//
// The returned map holds each plugin's opaque private state, keyed by name.
func LoadAll(ctx context.Context, h *registry.Handle, descs []Descriptor, baseURI string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	states := make(map[string]any, len(descs))

	for _, d := range descs {
		logger.Info("▶️ Initializing plugin", "plugin", d.Name)
		state, err := d.Init(ctx, h, baseURI)
		if err != nil {
			logger.Error("Plugin initialization failed, aborting startup.", "plugin", d.Name, "error", err)
			return nil, fmt.Errorf("plugin %q: %w", d.Name, err)
		}
		states[d.Name] = state
		logger.Debug("Plugin initialized.", "plugin", d.Name)
	}

	logger.Info("✅ All plugins initialized", "count", len(descs))
	return states, nil
}
