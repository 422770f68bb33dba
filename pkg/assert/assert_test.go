package assert_test

import (
	"context"
	"fmt"
	"testing"

	"evalgo/pkg/assert"
	"evalgo/pkg/core"
	"evalgo/pkg/metric"
	"evalgo/pkg/model"

	"github.com/stretchr/testify/require"
)

// recordingT captures failures instead of failing the real test.
type recordingT struct {
	testing.TB
	failed  bool
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestAssertTestPasses(t *testing.T) {
	judge := model.Mock{ResponseText: `{"verdicts": [{"verdict": "yes"}]}`}
	relevancy, err := metric.NewAnswerRelevancy(judge, 0.5)
	require.NoError(t, err)

	tc := core.TestCase{
		Input:        "What if these shoes don't fit?",
		ActualOutput: "We offer a 30-day full refund at no extra cost.",
	}

	rec := &recordingT{TB: t}
	assert.AssertTest(rec, tc, relevancy)
	require.False(t, rec.failed)
}

func TestAssertTestFailsBelowThreshold(t *testing.T) {
	judge := model.Mock{ResponseText: `{"verdicts": [{"verdict": "no", "reason": "off topic"}]}`}
	relevancy, err := metric.NewAnswerRelevancy(judge, 0.5)
	require.NoError(t, err)

	rec := &recordingT{TB: t}
	assert.AssertTest(rec, core.TestCase{Input: "q", ActualOutput: "a"}, relevancy)
	require.True(t, rec.failed)
	require.Contains(t, rec.message, "answer-relevancy")
	require.Contains(t, rec.message, "below threshold")
}

func TestAssertTestReportsEveryFailure(t *testing.T) {
	judge := model.Mock{ResponseText: `{"verdicts": [{"verdict": "no"}]}`}
	relevancy, err := metric.NewAnswerRelevancy(judge, 0.5)
	require.NoError(t, err)

	exact := metric.ExactMatch{}

	rec := &recordingT{TB: t}
	assert.AssertTest(rec, core.TestCase{Input: "q", ActualOutput: "a", ExpectedOutput: "b"}, relevancy, exact)
	require.True(t, rec.failed)
	require.Contains(t, rec.message, "failed 2 of 2 metrics")
	require.Contains(t, rec.message, "answer-relevancy")
	require.Contains(t, rec.message, "exact-match")
}

func TestAssertTestRequiresMetrics(t *testing.T) {
	rec := &recordingT{TB: t}
	assert.AssertTest(rec, core.TestCase{Input: "q"})
	require.True(t, rec.failed)
}

// Swapping the judge backend must not change the assertion call shape.
func TestAssertTestBackendSwap(t *testing.T) {
	tc := core.TestCase{Input: "q", ActualOutput: "a"}
	verdicts := `{"verdicts": [{"verdict": "yes"}]}`

	for _, judge := range []core.Backend{
		model.Mock{NameValue: "default", ResponseText: verdicts},
		model.Throttled{Backend: model.Mock{NameValue: "custom", ResponseText: verdicts}},
	} {
		relevancy, err := metric.NewAnswerRelevancy(judge, 0.5)
		require.NoError(t, err)

		rec := &recordingT{TB: t}
		assert.AssertTest(rec, tc, relevancy)
		require.False(t, rec.failed)
	}
}

func TestEvaluateRecordsErrors(t *testing.T) {
	judge := model.Mock{ResponseText: "not json"}
	relevancy, err := metric.NewAnswerRelevancy(judge, 0.5)
	require.NoError(t, err)

	results, err := assert.Evaluate(context.Background(), core.TestCase{Input: "q", ActualOutput: "a"}, relevancy)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Error)
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("EVALGO_TEST_PRESENT", "1")
	require.NoError(t, assert.CheckEnv("EVALGO_TEST_PRESENT"))

	err := assert.CheckEnv("EVALGO_TEST_PRESENT", "EVALGO_TEST_ABSENT")
	require.Error(t, err)
	require.Contains(t, err.Error(), "EVALGO_TEST_ABSENT")
}
