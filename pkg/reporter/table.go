package reporter

import (
	"fmt"
	"io"

	"evalgo/pkg/core"

	"github.com/olekukonko/tablewriter"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(report core.RunReport) error {
	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Metric", "Cases", "Pass rate", "Avg score", "Median", "P95", "Avg latency", "Errors"})
	for _, s := range report.Summaries {
		table.Append([]string{
			s.Metric,
			fmt.Sprintf("%d", s.Cases),
			fmt.Sprintf("%.2f", s.PassRate),
			fmt.Sprintf("%.2f", s.AverageScore),
			fmt.Sprintf("%.2f", s.MedianScore),
			fmt.Sprintf("%.2f", s.P95Score),
			s.AvgLatency.String(),
			fmt.Sprintf("%d", s.Errors),
		})
	}
	table.Render()
	return nil
}
