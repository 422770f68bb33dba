package core_test

import (
	"context"
	"testing"
	"time"

	"evalgo/pkg/core"

	"github.com/stretchr/testify/require"
)

type staticDataset struct {
	cases []core.TestCase
}

func (s staticDataset) Name() string {
	return "static"
}

func (s staticDataset) Len(_ context.Context) (int, error) {
	return len(s.cases), nil
}

func (s staticDataset) Cases(ctx context.Context) (<-chan core.TestCase, <-chan error) {
	caseCh := make(chan core.TestCase)
	errCh := make(chan error, 1)
	go func() {
		defer close(caseCh)
		defer close(errCh)
		for _, tc := range s.cases {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case caseCh <- tc:
			}
		}
	}()
	return caseCh, errCh
}

type equalityMetric struct {
	threshold float64
}

func (e equalityMetric) Name() string {
	return "equality"
}

func (e equalityMetric) Threshold() float64 {
	return e.threshold
}

func (e equalityMetric) Measure(_ context.Context, tc core.TestCase) (core.Score, error) {
	value := 0.0
	if tc.ActualOutput == tc.ExpectedOutput {
		value = 1
	}
	return core.Score{
		Value:     value,
		Threshold: e.threshold,
		Passed:    value >= e.threshold,
	}, nil
}

func TestRunnerRun(t *testing.T) {
	ds := staticDataset{
		cases: []core.TestCase{
			{ID: "1", Input: "a", ActualOutput: "a", ExpectedOutput: "a"},
			{ID: "2", Input: "b", ActualOutput: "b", ExpectedOutput: "b"},
		},
	}
	runner := core.Runner{
		Dataset: ds,
		Metrics: []core.Metric{equalityMetric{threshold: 0.5}},
		Workers: 2,
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	require.True(t, report.Passed())
	require.Len(t, report.Summaries, 1)
	require.Equal(t, "equality", report.Summaries[0].Metric)
	require.Equal(t, 1.0, report.Summaries[0].PassRate)
}

func TestRunnerRequiresMetrics(t *testing.T) {
	runner := core.Runner{Dataset: staticDataset{}}
	_, err := runner.Run(context.Background())
	require.Error(t, err)
}

func TestRunnerRecordsFailures(t *testing.T) {
	ds := staticDataset{
		cases: []core.TestCase{
			{ID: "1", Input: "a", ActualOutput: "a", ExpectedOutput: "b"},
		},
	}
	runner := core.Runner{
		Dataset:     ds,
		Metrics:     []core.Metric{equalityMetric{threshold: 0.5}},
		Workers:     1,
		CaseTimeout: 5 * time.Second,
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.Passed())
	require.Equal(t, 0.0, report.Summaries[0].PassRate)
}
