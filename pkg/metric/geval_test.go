package metric_test

import (
	"context"
	"errors"
	"testing"

	"evalgo/pkg/core"
	"evalgo/pkg/metric"
	"evalgo/pkg/model"

	"github.com/stretchr/testify/require"
)

func newCorrectness(t *testing.T, judge core.Backend, threshold float64, strict bool) *metric.GEval {
	t.Helper()
	m, err := metric.NewGEval(metric.GEvalConfig{
		Label:      "Correctness",
		Criteria:   "Correctness - determine if the actual output is correct according to the expected output.",
		Params:     []core.Param{core.ParamActualOutput, core.ParamExpectedOutput},
		Threshold:  threshold,
		StrictMode: strict,
		Backend:    judge,
	})
	require.NoError(t, err)
	return m
}

func TestGEvalIdenticalOutputsSkipJudge(t *testing.T) {
	// A judge that would fail if called proves the fast path is taken.
	judge := model.Mock{Err: errors.New("judge should not be called")}
	m := newCorrectness(t, judge, 0.5, false)

	answer := "The seller offers a refund or a replacement."
	score, err := m.Measure(context.Background(), core.TestCase{
		Input:          "What if these shoes don't fit?",
		ActualOutput:   answer,
		ExpectedOutput: answer,
	})
	require.NoError(t, err)
	require.Equal(t, 1.0, score.Value)
	require.True(t, score.Passed)
}

func TestGEvalJudgeScoring(t *testing.T) {
	judge := model.Mock{ResponseText: `{"score": 8, "reason": "mostly matches the expected output"}`}
	m := newCorrectness(t, judge, 0.5, false)

	score, err := m.Measure(context.Background(), core.TestCase{
		Input:          "q",
		ActualOutput:   "close enough",
		ExpectedOutput: "exact answer",
	})
	require.NoError(t, err)
	require.InDelta(t, 0.8, score.Value, 1e-9)
	require.True(t, score.Passed)
	require.Equal(t, "mostly matches the expected output", score.Reason)
}

func TestGEvalStrictMode(t *testing.T) {
	judge := model.Mock{ResponseText: `{"score": 8, "reason": "close"}`}
	m := newCorrectness(t, judge, 0.5, true)

	score, err := m.Measure(context.Background(), core.TestCase{
		Input:          "q",
		ActualOutput:   "close enough",
		ExpectedOutput: "exact answer",
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, score.Value)
	require.Equal(t, 1.0, score.Threshold)
	require.False(t, score.Passed)
}

func TestGEvalValidation(t *testing.T) {
	judge := model.Mock{}

	_, err := metric.NewGEval(metric.GEvalConfig{Criteria: "c", Backend: judge, Threshold: 1.2})
	require.Error(t, err)

	_, err = metric.NewGEval(metric.GEvalConfig{Criteria: "  ", Backend: judge, Threshold: 0.5})
	require.Error(t, err)

	_, err = metric.NewGEval(metric.GEvalConfig{Criteria: "c", Threshold: 0.5})
	require.Error(t, err)

	_, err = metric.NewGEval(metric.GEvalConfig{
		Criteria:  "c",
		Backend:   judge,
		Threshold: 0.5,
		Params:    []core.Param{core.Param("context")},
	})
	require.Error(t, err)
}

func TestGEvalDefaultName(t *testing.T) {
	judge := model.Mock{}
	m, err := metric.NewGEval(metric.GEvalConfig{Criteria: "c", Backend: judge, Threshold: 0.5})
	require.NoError(t, err)
	require.Equal(t, "g-eval", m.Name())
}
