package reporter

import (
	"fmt"
	"io"

	"evalgo/pkg/core"
)

type MarkdownReporter struct {
	Writer io.Writer
}

func (r MarkdownReporter) Report(report core.RunReport) error {
	if _, err := fmt.Fprintf(r.Writer, "# Evaluation Report\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "- Run: %s\n- Judge: %s\n\n", report.Name, report.JudgeName); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.Writer, "## Metrics\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Metric | Cases | Pass rate | Avg score | Median | P95 | Errors |\n|---|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, s := range report.Summaries {
		if _, err := fmt.Fprintf(
			r.Writer,
			"| %s | %d | %.2f | %.2f | %.2f | %.2f | %d |\n",
			escapePipe(s.Metric), s.Cases, s.PassRate, s.AverageScore, s.MedianScore, s.P95Score, s.Errors,
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(r.Writer, "\n## Test cases\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| ID | Input | Actual output | Metric | Score | Passed | Reason |\n|---|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, caseResult := range report.Results {
		tc := caseResult.TestCase
		for _, result := range caseResult.Results {
			detail := result.Score.Reason
			if result.Error != "" {
				detail = result.Error
			}
			if _, err := fmt.Fprintf(
				r.Writer,
				"| %s | %s | %s | %s | %.2f | %t | %s |\n",
				tc.ID,
				escapePipe(tc.Input),
				escapePipe(tc.ActualOutput),
				escapePipe(result.Metric),
				result.Score.Value,
				result.Score.Passed,
				escapePipe(detail),
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func escapePipe(input string) string {
	if input == "" {
		return ""
	}
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if r == '|' {
			out = append(out, '\\', r)
		} else if r == '\n' || r == '\r' {
			out = append(out, ' ')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
