package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"evalgo/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestGenerateWithRetriesRecovers(t *testing.T) {
	attempts := 0
	resp, err := generateWithRetries(context.Background(), "test", time.Second, 2, time.Millisecond, func(context.Context) (core.Response, error) {
		attempts++
		if attempts < 3 {
			return core.Response{}, errors.New("transient")
		}
		return core.Response{Content: "ok"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Content)
	require.Equal(t, 3, attempts)
}

func TestGenerateWithRetriesWrapsFinalError(t *testing.T) {
	boom := errors.New("boom")
	_, err := generateWithRetries(context.Background(), "test", time.Second, 1, time.Millisecond, func(context.Context) (core.Response, error) {
		return core.Response{}, boom
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "test: request failed after retries")
}

func TestGenerateWithRetriesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := generateWithRetries(ctx, "test", time.Second, 5, time.Millisecond, func(context.Context) (core.Response, error) {
		attempts++
		return core.Response{}, errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, attempts)
}
