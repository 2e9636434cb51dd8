// Package plugin defines the plugin contract and the registration table the
// binary uses in place of on-disk code loading.
//
// A plugin is not a class or a process: it is a named init function that
// receives the shared registry handle and the server's base URI, registers
// its preprocessors and cleanup actions, and returns an opaque private state
// value that the rest of the system never inspects.
package plugin

import (
	"context"

	"github.com/vk/plugserv/internal/registry"
)

// InitFunc is the single entry point every plugin exposes. By convention it
// should acquire its private resources, register cleanup for them before any
// call that can fail, then publish its preprocessors. A returned error is
// fatal to startup.
type InitFunc func(ctx context.Context, h *registry.Handle, baseURI string) (any, error)

// Descriptor pairs a plugin's route name with its init function.
type Descriptor struct {
	Name string
	Init InitFunc
}

// Module is implemented by every package compiled into the binary's plugin
// table. Mirrors how built-in modules self-register elsewhere in the tree.
type Module interface {
	Register(t *Table)
}
