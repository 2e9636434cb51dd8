package notes

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

// initNotes spins up the plugin against a throwaway data dir and returns the
// preprocessor plus the handle, with the database closed at test end.
func initNotes(t *testing.T) (registry.Preprocessor, *registry.Handle) {
	t.Helper()

	tbl := plugin.NewTable()
	New(map[string]string{"data_dir": t.TempDir()}).Register(tbl)
	d, ok := tbl.Lookup("notes")
	require.True(t, ok)

	h := registry.New()
	_, err := d.Init(context.Background(), h, "http://localhost:8000/")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = h.RunShutdown(context.Background(), registry.Always)
	})

	fn, ok := h.LookupPreprocessor("notes")
	require.True(t, ok)
	return fn, h
}

func TestNotes_AddGetList(t *testing.T) {
	fn, _ := initNotes(t)

	out, err := fn("add/remember the milk")
	require.NoError(t, err)
	require.Contains(t, out, "http://localhost:8000/notes/get/")

	id := out[strings.LastIndex(out, "/")+1:]
	got, err := fn("get/" + id)
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", got)

	listing, err := fn("list")
	require.NoError(t, err)
	assert.Equal(t, id, listing)
}

func TestNotes_GetMissing(t *testing.T) {
	fn, _ := initNotes(t)

	_, err := fn("get/does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no note")
}

func TestNotes_UnknownCommand(t *testing.T) {
	fn, _ := initNotes(t)

	_, err := fn("drop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown notes command")
}

func TestNotes_EmptyStoreList(t *testing.T) {
	fn, _ := initNotes(t)

	out, err := fn("list")
	require.NoError(t, err)
	assert.Equal(t, "no notes stored", out)
}

func TestNotes_CleanupRegisteredBeforePreprocessor(t *testing.T) {
	tbl := plugin.NewTable()
	New(map[string]string{"data_dir": t.TempDir()}).Register(tbl)
	d, _ := tbl.Lookup("notes")

	h := registry.New()
	_, err := d.Init(context.Background(), h, "http://localhost:8000/")
	require.NoError(t, err)

	// The close action must run even on a failed startup.
	require.NoError(t, h.RunShutdown(context.Background(), registry.OnFailure))
}
