package model

import (
	"context"
	"errors"

	"evalgo/pkg/cache"
	"evalgo/pkg/core"
)

// Cached wraps a backend with an on-disk response cache so repeated
// judge calls for the same prompt are served locally.
type Cached struct {
	Backend core.Backend
	Cache   *cache.Cache
}

func (c Cached) Name() string {
	if c.Backend == nil {
		return ""
	}
	return c.Backend.Name()
}

func (c Cached) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	if c.Backend == nil {
		return core.Response{}, errors.New("model: cached backend requires an inner backend")
	}
	if c.Cache != nil {
		if resp, ok := c.Cache.Get(c.Name(), prompt, opts); ok {
			return resp, nil
		}
	}
	resp, err := c.Backend.Generate(ctx, prompt, opts)
	if err != nil {
		return core.Response{}, err
	}
	if c.Cache != nil {
		_ = c.Cache.Set(c.Name(), prompt, opts, resp)
	}
	return resp, nil
}
