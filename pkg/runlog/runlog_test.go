package runlog_test

import (
	"path/filepath"
	"testing"
	"time"

	"evalgo/pkg/core"
	"evalgo/pkg/runlog"

	"github.com/stretchr/testify/require"
)

func report(name string, startedAt time.Time) core.RunReport {
	return core.RunReport{
		Name:      name,
		JudgeName: "mock",
		Results: []core.CaseResult{
			{
				TestCase: core.TestCase{Input: "q", ActualOutput: "a"},
				Results: []core.MetricResult{
					{Metric: "exact-match", Score: core.Score{Value: 1, Threshold: 1, Passed: true}},
				},
			},
		},
		StartedAt: startedAt,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	path, err := runlog.Write(dir, report("refund suite!", started))
	require.NoError(t, err)
	require.Equal(t, "2026-08-30T09-30-00_refundsuite.json", filepath.Base(path))

	got, err := runlog.Read(path)
	require.NoError(t, err)
	require.Equal(t, "refund suite!", got.Name)
	require.Len(t, got.Results, 1)
	require.True(t, got.Passed())
}

func TestListAndLatest(t *testing.T) {
	dir := t.TempDir()

	for i, name := range []string{"first", "second", "third"} {
		started := time.Date(2026, 8, 30, 9, i, 0, 0, time.UTC)
		_, err := runlog.Write(dir, report(name, started))
		require.NoError(t, err)
	}

	paths, err := runlog.List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	latest, err := runlog.Latest(dir)
	require.NoError(t, err)
	require.Equal(t, "third", latest.Name)
}

func TestLatestEmptyDir(t *testing.T) {
	_, err := runlog.Latest(t.TempDir())
	require.Error(t, err)
}

func TestWriteRequiresDir(t *testing.T) {
	_, err := runlog.Write("", core.RunReport{Name: "r"})
	require.Error(t, err)
}
