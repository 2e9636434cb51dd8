package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalPluginsInOrder(t *testing.T) {
	var out bytes.Buffer
	opts, exit, err := Parse([]string{"-port", "9000", "notes", "echo"}, &out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, []string{"notes", "echo"}, opts.Plugins)
	assert.Equal(t, 9000, opts.Port)
}

func TestParse_RepeatablePluginPath(t *testing.T) {
	var out bytes.Buffer
	opts, _, err := Parse([]string{"-plugin-path", "/etc/a", "-plugin-path", "/etc/b", "echo"}, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/a", "/etc/b"}, opts.PluginPaths)
}

func TestParse_NoPluginsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	opts, exit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, opts)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml", "echo"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "loud", "echo"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "log-level")
}
