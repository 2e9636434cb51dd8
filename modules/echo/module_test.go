package echo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

func TestEcho_RoundTrip(t *testing.T) {
	tbl := plugin.NewTable()
	New().Register(tbl)

	d, ok := tbl.Lookup("echo")
	require.True(t, ok)

	h := registry.New()
	_, err := d.Init(context.Background(), h, "http://localhost:8000/")
	require.NoError(t, err)

	fn, ok := h.LookupPreprocessor("echo")
	require.True(t, ok)

	out, err := fn("hello/there")
	require.NoError(t, err)
	assert.Equal(t, "hello/there", out)
}
