// Package assert is the test-side entry point: it runs metrics
// against a test case and fails the surrounding test when any score
// lands below its threshold.
package assert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"evalgo/pkg/core"
)

// Evaluate measures every metric against the test case. It never
// short-circuits: every metric runs and its score or error is
// recorded. The returned error is non-nil only when no metrics were
// given.
func Evaluate(ctx context.Context, tc core.TestCase, metrics ...core.Metric) ([]core.MetricResult, error) {
	if len(metrics) == 0 {
		return nil, errors.New("assert: at least one metric is required")
	}

	results := make([]core.MetricResult, 0, len(metrics))
	for _, metric := range metrics {
		start := time.Now()
		score, err := metric.Measure(ctx, tc)
		result := core.MetricResult{
			Metric:   metric.Name(),
			Score:    score,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

// AssertTest evaluates the test case against every metric and fails t
// when any metric errors or scores below its threshold. Failures list
// every offending metric, not just the first.
func AssertTest(t testing.TB, tc core.TestCase, metrics ...core.Metric) {
	t.Helper()

	results, err := Evaluate(context.Background(), tc, metrics...)
	if err != nil {
		t.Fatalf("assert: %v", err)
		return
	}

	var failures []string
	for _, result := range results {
		if result.Error != "" {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Metric, result.Error))
			continue
		}
		if !result.Score.Passed {
			msg := fmt.Sprintf("%s: score %.2f below threshold %.2f", result.Metric, result.Score.Value, result.Score.Threshold)
			if result.Score.Reason != "" {
				msg += " (" + result.Score.Reason + ")"
			}
			failures = append(failures, msg)
		}
	}

	if len(failures) > 0 {
		t.Fatalf("test case %q failed %d of %d metrics:\n  %s",
			tc.Input, len(failures), len(results), strings.Join(failures, "\n  "))
	}
}

// CheckEnv verifies that every named environment variable is set,
// returning a descriptive error for the first missing one. Call it
// from TestMain so missing credentials abort before any test runs.
func CheckEnv(names ...string) error {
	for _, name := range names {
		if os.Getenv(name) == "" {
			return fmt.Errorf("assert: required environment variable %s is not set", name)
		}
	}
	return nil
}
