package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evalgo/pkg/core"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
)

// generateWithRetries runs call with a per-attempt timeout and linear
// backoff between attempts. Context cancellation aborts immediately;
// the final SDK error is wrapped with the provider prefix only.
func generateWithRetries(ctx context.Context, prefix string, timeout time.Duration, maxRetries int, backoff time.Duration, call func(context.Context) (core.Response, error)) (core.Response, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := call(attemptCtx)
		cancel()
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		lastErr = err

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return core.Response{}, ctx.Err()
			case <-time.After(backoff * time.Duration(attempt+1)):
			}
		}
	}

	return core.Response{}, fmt.Errorf("%s: request failed after retries: %w", prefix, lastErr)
}
