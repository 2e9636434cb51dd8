// Package announce publishes the server's lifecycle over a socket.io
// connection, so an operations dashboard can watch plugserv instances come
// and go. The connection is plugin-private state; the registry only holds
// the callbacks that emit the final event and tear the connection down.
package announce

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

// Module implements the plugin.Module interface for this package.
type Module struct {
	opts map[string]string
}

// New returns the announce module configured with its merged option block.
// Recognized options: url (socket.io endpoint), namespace.
func New(opts map[string]string) *Module {
	return &Module{opts: opts}
}

// Register adds the plugin to the binary's registration table.
func (m *Module) Register(t *plugin.Table) {
	t.Register(plugin.Descriptor{Name: "announce", Init: m.init})
}

// announcer is the plugin's private state.
type announcer struct {
	io        *socket.Socket
	connected atomic.Bool
}

func (m *Module) init(ctx context.Context, h *registry.Handle, baseURI string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("plugin", "announce")

	endpoint := m.opts["url"]
	if endpoint == "" {
		// Without an endpoint there is nothing to announce to; still publish
		// the status route so the operator can see why.
		h.AddPreprocessor("announce", func(string) (string, error) {
			return "announcer disabled: no url configured", nil
		})
		return nil, nil
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse announce url: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(m.opts["namespace"], opts)

	a := &announcer{io: io}

	io.On(types.EventName("connect"), func(...any) {
		a.connected.Store(true)
		logger.Info("Connected to announce endpoint.", "endpoint", endpoint, "sid", io.Id())
		io.Emit("server_started", baseURI)
	})
	io.On(types.EventName("disconnect"), func(...any) {
		a.connected.Store(false)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Announce connection error.", "error", errs)
	})

	// Disconnect is registered first so it runs last, after whichever final
	// event matched the exit condition has been emitted.
	h.AddCleanup(registry.Always, func() error {
		logger.Debug("Disconnecting announce socket.")
		io.Disconnect()
		return nil
	})
	h.AddCleanup(registry.OnSuccess, func() error {
		io.Emit("server_stopped", baseURI)
		return nil
	})
	h.AddCleanup(registry.OnFailure, func() error {
		io.Emit("server_aborted", baseURI)
		return nil
	})

	h.AddPreprocessor("announce", a.status)

	io.Connect()
	return a, nil
}

func (a *announcer) status(string) (string, error) {
	if a.connected.Load() {
		return "announcer connected", nil
	}
	return "announcer connecting", nil
}
