// Package fetch proxies text content from a configured upstream. The request
// path remainder is resolved against the upstream base URL, and successful
// bodies are cached for a short TTL so a hot route does not hammer the
// upstream.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"resty.dev/v3"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

const defaultTimeout = 10 * time.Second
const defaultCacheTTL = 30 * time.Second

// Module implements the plugin.Module interface for this package.
type Module struct {
	opts map[string]string
}

// New returns the fetch module configured with its merged option block.
// Recognized options: base_url (required), timeout, cache_ttl (durations).
func New(opts map[string]string) *Module {
	return &Module{opts: opts}
}

// Register adds the plugin to the binary's registration table.
func (m *Module) Register(t *plugin.Table) {
	t.Register(plugin.Descriptor{Name: "fetch", Init: m.init})
}

// proxy is the plugin's private state.
type proxy struct {
	client *resty.Client
	cache  *gocache.Cache
}

func (m *Module) init(ctx context.Context, h *registry.Handle, baseURI string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	upstream := m.opts["base_url"]
	if upstream == "" {
		return nil, fmt.Errorf("the fetch plugin requires a base_url option")
	}

	timeout := parseDuration(logger.With("option", "timeout"), m.opts["timeout"], defaultTimeout)
	ttl := parseDuration(logger.With("option", "cache_ttl"), m.opts["cache_ttl"], defaultCacheTTL)

	client := resty.New().
		SetBaseURL(upstream).
		SetTimeout(timeout)
	h.AddCleanup(registry.Always, client.Close)

	p := &proxy{
		client: client,
		cache:  gocache.New(ttl, 2*ttl),
	}
	h.AddPreprocessor("fetch", p.handle)

	logger.Debug("Fetch plugin configured.", "upstream", upstream, "timeout", timeout, "cache_ttl", ttl)
	return p, nil
}

func (p *proxy) handle(input string) (string, error) {
	if body, ok := p.cache.Get(input); ok {
		return body.(string), nil
	}

	res, err := p.client.R().Get("/" + input)
	if err != nil {
		return "", fmt.Errorf("fetching %q: %w", input, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("upstream returned %s for %q", res.Status(), input)
	}

	body := res.String()
	p.cache.SetDefault(input, body)
	return body, nil
}

// parseDuration is lenient the way operators expect: a bad value logs a
// warning and falls back to the default rather than failing startup.
func parseDuration(logger *slog.Logger, raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("Failed to parse duration, using default.", "value", raw, "default", fallback.String())
		return fallback
	}
	return d
}
