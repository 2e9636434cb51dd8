package announce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

func TestAnnounce_DisabledWithoutURL(t *testing.T) {
	tbl := plugin.NewTable()
	New(map[string]string{}).Register(tbl)
	d, ok := tbl.Lookup("announce")
	require.True(t, ok)

	h := registry.New()
	state, err := d.Init(context.Background(), h, "http://localhost:8000/")
	require.NoError(t, err)
	assert.Nil(t, state)

	fn, ok := h.LookupPreprocessor("announce")
	require.True(t, ok)

	out, err := fn("")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
}

func TestAnnounce_BadURLFailsInit(t *testing.T) {
	tbl := plugin.NewTable()
	New(map[string]string{"url": "://not-a-url"}).Register(tbl)
	d, _ := tbl.Lookup("announce")

	_, err := d.Init(context.Background(), registry.New(), "http://localhost:8000/")
	require.Error(t, err)
}
