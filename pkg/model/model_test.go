package model_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evalgo/pkg/cache"
	"evalgo/pkg/core"
	"evalgo/pkg/model"

	"github.com/stretchr/testify/require"
)

// countingBackend tracks how many calls reach the wrapped backend.
type countingBackend struct {
	mu    sync.Mutex
	calls int
	inner core.Backend
}

func (c *countingBackend) Name() string { return c.inner.Name() }

func (c *countingBackend) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Generate(ctx, prompt, opts)
}

func TestMockEchoesPrompt(t *testing.T) {
	m := model.Mock{}
	require.Equal(t, "mock", m.Name())

	resp, err := m.Generate(context.Background(), "hello", core.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, "hello", resp.Content)
}

func TestMockFixedResponseAndError(t *testing.T) {
	m := model.Mock{NameValue: "judge", ResponseText: "fixed"}
	require.Equal(t, "judge", m.Name())

	resp, err := m.Generate(context.Background(), "ignored", core.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, "fixed", resp.Content)

	boom := errors.New("boom")
	_, err = model.Mock{Err: boom}.Generate(context.Background(), "p", core.GenerateOptions{})
	require.ErrorIs(t, err, boom)
}

func TestCachedServesRepeatCalls(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	counting := &countingBackend{inner: model.Mock{ResponseText: "answer"}}
	cached := model.Cached{Backend: counting, Cache: c}
	require.Equal(t, "mock", cached.Name())

	opts := core.GenerateOptions{Temperature: 0, MaxTokens: 1024}
	for i := 0; i < 3; i++ {
		resp, err := cached.Generate(context.Background(), "prompt", opts)
		require.NoError(t, err)
		require.Equal(t, "answer", resp.Content)
	}
	require.Equal(t, 1, counting.calls)
}

func TestCachedSkipsErrors(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	boom := errors.New("boom")
	cached := model.Cached{Backend: model.Mock{Err: boom}, Cache: c}

	_, err = cached.Generate(context.Background(), "prompt", core.GenerateOptions{})
	require.ErrorIs(t, err, boom)

	// Nothing was cached for the failed call.
	_, ok := c.Get("mock", "prompt", core.GenerateOptions{})
	require.False(t, ok)
}

func TestThrottledWaitsForLimiter(t *testing.T) {
	limiter, stop, err := core.NewRateLimiter(100, 1)
	require.NoError(t, err)
	defer stop()

	throttled := model.Throttled{Backend: model.Mock{ResponseText: "ok"}, Limiter: limiter}

	resp, err := throttled.Generate(context.Background(), "p", core.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Content)
}

func TestThrottledHonorsCancel(t *testing.T) {
	limiter, stop, err := core.NewRateLimiter(0.001, 1)
	require.NoError(t, err)
	defer stop()

	throttled := model.Throttled{Backend: model.Mock{ResponseText: "ok"}, Limiter: limiter}

	// Drain the single burst token.
	_, err = throttled.Generate(context.Background(), "p", core.GenerateOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = throttled.Generate(ctx, "p", core.GenerateOptions{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecoratorsRequireInnerBackend(t *testing.T) {
	_, err := model.Cached{}.Generate(context.Background(), "p", core.GenerateOptions{})
	require.Error(t, err)

	_, err = model.Throttled{}.Generate(context.Background(), "p", core.GenerateOptions{})
	require.Error(t, err)
}

func TestOllamaDefaults(t *testing.T) {
	backend := model.NewOllama("", "")
	require.Equal(t, "mistral", backend.Name())
	require.Equal(t, "http://localhost:11434/v1", backend.BaseURL)
}
