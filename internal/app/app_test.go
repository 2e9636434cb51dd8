package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

// stubModule registers a single descriptor, optionally failing at init.
type stubModule struct {
	name    string
	initErr error
	cleanup *int
}

func (m *stubModule) Register(t *plugin.Table) {
	t.Register(plugin.Descriptor{Name: m.name, Init: func(_ context.Context, h *registry.Handle, _ string) (any, error) {
		if m.cleanup != nil {
			h.AddCleanup(registry.Always, func() error {
				*m.cleanup++
				return nil
			})
		}
		if m.initErr != nil {
			return nil, m.initErr
		}
		h.AddPreprocessor(m.name, func(in string) (string, error) { return in, nil })
		return nil, nil
	}})
}

func TestRun_LoadFailureAbortsBeforeServing(t *testing.T) {
	loadErr := errors.New("refusing to start")
	c1Runs := 0

	opts, err := NewOptions(Options{Plugins: []string{"good", "bad"}})
	require.NoError(t, err)

	a := NewApp(io.Discard, opts,
		&stubModule{name: "good", cleanup: &c1Runs},
		&stubModule{name: "bad", initErr: loadErr},
	)

	err = a.Run(context.Background())
	require.ErrorIs(t, err, loadErr)
	assert.Equal(t, 1, c1Runs, "cleanup from the successful plugin must run under the failure pass")
}

func TestRun_UnknownPluginReported(t *testing.T) {
	opts, err := NewOptions(Options{Plugins: []string{"ghost"}})
	require.NoError(t, err)

	a := NewApp(io.Discard, opts, &stubModule{name: "real"})

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.Contains(t, err.Error(), "available: real")
}

func TestNewApp_PanicsOnBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	opts, err := NewOptions(Options{ConfigPath: path, Plugins: []string{"echo"}})
	require.NoError(t, err)

	assert.Panics(t, func() {
		NewApp(io.Discard, opts, &stubModule{name: "echo"})
	})
}
