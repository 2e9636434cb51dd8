package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugserv/internal/registry"
)

func TestWithRegistry_SuccessRunsOnSuccessPass(t *testing.T) {
	var got []string

	err := WithRegistry(context.Background(), func(h *registry.Handle) error {
		h.AddCleanup(registry.OnFailure, func() error {
			got = append(got, "failure")
			return nil
		})
		h.AddCleanup(registry.OnSuccess, func() error {
			got = append(got, "success")
			return nil
		})
		h.AddCleanup(registry.Always, func() error {
			got = append(got, "always")
			return nil
		})
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"always", "success"}, got)
}

func TestWithRegistry_FailureReturnsOriginalError(t *testing.T) {
	bodyErr := errors.New("init exploded")
	var got []string

	err := WithRegistry(context.Background(), func(h *registry.Handle) error {
		h.AddCleanup(registry.OnSuccess, func() error {
			got = append(got, "success")
			return nil
		})
		h.AddCleanup(registry.OnFailure, func() error {
			got = append(got, "failure")
			return nil
		})
		return bodyErr
	})

	require.ErrorIs(t, err, bodyErr)
	assert.Equal(t, []string{"failure"}, got)
}

func TestWithRegistry_CleanupErrorDoesNotMaskBodyError(t *testing.T) {
	bodyErr := errors.New("the real problem")

	err := WithRegistry(context.Background(), func(h *registry.Handle) error {
		h.AddCleanup(registry.Always, func() error {
			return errors.New("cleanup also failed")
		})
		return bodyErr
	})

	assert.Equal(t, bodyErr, err)
}

func TestWithRegistry_TeardownRunsExactlyOnce(t *testing.T) {
	runs := 0

	err := WithRegistry(context.Background(), func(h *registry.Handle) error {
		h.AddCleanup(registry.Always, func() error {
			runs++
			return nil
		})
		// A body draining the handle itself must not trigger a second pass.
		return h.RunShutdown(context.Background(), registry.Always)
	})

	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestWithRegistry_PanicStillRunsFailurePass(t *testing.T) {
	var got []string

	require.Panics(t, func() {
		_ = WithRegistry(context.Background(), func(h *registry.Handle) error {
			h.AddCleanup(registry.OnFailure, func() error {
				got = append(got, "failure")
				return nil
			})
			h.AddCleanup(registry.OnSuccess, func() error {
				got = append(got, "success")
				return nil
			})
			panic("body blew up")
		})
	})

	assert.Equal(t, []string{"failure"}, got)
}
