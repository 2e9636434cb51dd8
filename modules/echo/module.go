// Package echo is the smallest possible plugin: a stateless preprocessor
// that reflects its input back. Useful for smoke-testing the dispatch loop.
package echo

import (
	"context"

	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

// Module implements the plugin.Module interface for this package.
type Module struct{}

// New returns the echo module.
func New() *Module {
	return &Module{}
}

// Register adds the plugin to the binary's registration table.
func (m *Module) Register(t *plugin.Table) {
	t.Register(plugin.Descriptor{Name: "echo", Init: m.init})
}

func (m *Module) init(ctx context.Context, h *registry.Handle, baseURI string) (any, error) {
	h.AddPreprocessor("echo", func(input string) (string, error) {
		return input, nil
	})
	return nil, nil
}
