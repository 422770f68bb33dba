package model

import (
	"context"
	"errors"

	"evalgo/pkg/core"
)

// Throttled wraps a backend with a rate limiter so worker pools do not
// exceed a provider's request quota.
type Throttled struct {
	Backend core.Backend
	Limiter core.RateLimiter
}

func (t Throttled) Name() string {
	if t.Backend == nil {
		return ""
	}
	return t.Backend.Name()
}

func (t Throttled) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	if t.Backend == nil {
		return core.Response{}, errors.New("model: throttled backend requires an inner backend")
	}
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return core.Response{}, err
		}
	}
	return t.Backend.Generate(ctx, prompt, opts)
}
