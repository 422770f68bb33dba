package cache_test

import (
	"testing"
	"time"

	"evalgo/pkg/cache"
	"evalgo/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	opts := core.GenerateOptions{Temperature: 0, MaxTokens: 1024}
	resp := core.Response{Content: `{"score": 8}`}

	_, ok := c.Get("mock", "prompt", opts)
	require.False(t, ok)

	require.NoError(t, c.Set("mock", "prompt", opts, resp))

	got, ok := c.Get("mock", "prompt", opts)
	require.True(t, ok)
	require.Equal(t, resp.Content, got.Content)
}

func TestCacheKeyIncludesOptions(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, c.Set("mock", "prompt", core.GenerateOptions{Temperature: 0}, core.Response{Content: "a"}))

	_, ok := c.Get("mock", "prompt", core.GenerateOptions{Temperature: 0.7})
	require.False(t, ok)

	_, ok = c.Get("other", "prompt", core.GenerateOptions{Temperature: 0})
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	opts := core.GenerateOptions{}
	require.NoError(t, c.Set("mock", "prompt", opts, core.Response{Content: "a"}))

	c.TTL = time.Nanosecond
	time.Sleep(time.Millisecond)

	_, ok := c.Get("mock", "prompt", opts)
	require.False(t, ok)
}
