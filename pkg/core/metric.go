package core

import (
	"context"
	"fmt"
)

// Metric is a configured scoring strategy with a pass/fail threshold.
// Measure returns a score in [0,1]; the caller compares it against
// Threshold to decide pass or fail.
type Metric interface {
	Name() string
	Threshold() float64
	Measure(ctx context.Context, tc TestCase) (Score, error)
}

// ValidateThreshold rejects thresholds outside [0,1].
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("core: threshold must be in [0,1], got %v", threshold)
	}
	return nil
}
