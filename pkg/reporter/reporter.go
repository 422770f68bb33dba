package reporter

import "evalgo/pkg/core"

// Reporter writes a run report.
type Reporter interface {
	Report(report core.RunReport) error
}

const (
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)
