package reporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"evalgo/pkg/core"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(report core.RunReport) error {
	writer := csv.NewWriter(r.Writer)
	header := []string{"id", "input", "expected_output", "actual_output", "metric", "score", "threshold", "passed", "reason", "error", "duration_seconds"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, caseResult := range report.Results {
		tc := caseResult.TestCase
		for _, result := range caseResult.Results {
			record := []string{
				tc.ID,
				tc.Input,
				tc.ExpectedOutput,
				tc.ActualOutput,
				result.Metric,
				strconv.FormatFloat(result.Score.Value, 'f', 4, 64),
				strconv.FormatFloat(result.Score.Threshold, 'f', 4, 64),
				strconv.FormatBool(result.Score.Passed),
				result.Score.Reason,
				result.Error,
				strconv.FormatFloat(result.Duration.Seconds(), 'f', 6, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
