package reporter

import (
	"html/template"
	"io"

	"evalgo/pkg/core"
)

type HTMLReporter struct {
	Writer io.Writer
	Title  string
}

func (r HTMLReporter) Report(report core.RunReport) error {
	title := r.Title
	if title == "" {
		title = "Evaluation Report"
	}

	data := struct {
		Title  string
		Report core.RunReport
	}{
		Title:  title,
		Report: report,
	}

	tpl := template.Must(template.New("report").Parse(htmlTemplate))
	return tpl.Execute(r.Writer, data)
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 24px; }
    table { border-collapse: collapse; width: 100%; margin-top: 16px; }
    th, td { border: 1px solid #ddd; padding: 8px; }
    th { background: #f5f5f5; text-align: left; }
    .meta { margin-bottom: 12px; }
    .fail { color: #b00020; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <div class="meta">
    <div><strong>Run:</strong> {{ .Report.Name }}</div>
    <div><strong>Judge:</strong> {{ .Report.JudgeName }}</div>
  </div>
  <h2>Metrics</h2>
  <table>
    <tr><th>Metric</th><th>Cases</th><th>Pass rate</th><th>Avg score</th><th>Median</th><th>P95</th><th>Errors</th></tr>
    {{ range .Report.Summaries }}
    <tr>
      <td>{{ .Metric }}</td>
      <td>{{ .Cases }}</td>
      <td>{{ printf "%.2f" .PassRate }}</td>
      <td>{{ printf "%.2f" .AverageScore }}</td>
      <td>{{ printf "%.2f" .MedianScore }}</td>
      <td>{{ printf "%.2f" .P95Score }}</td>
      <td>{{ .Errors }}</td>
    </tr>
    {{ end }}
  </table>
  <h2>Test cases</h2>
  <table>
    <tr><th>ID</th><th>Input</th><th>Actual output</th><th>Metric</th><th>Score</th><th>Passed</th><th>Detail</th></tr>
    {{ range .Report.Results }}
    {{ $tc := .TestCase }}
    {{ range .Results }}
    <tr{{ if not .Score.Passed }} class="fail"{{ end }}>
      <td>{{ $tc.ID }}</td>
      <td>{{ $tc.Input }}</td>
      <td>{{ $tc.ActualOutput }}</td>
      <td>{{ .Metric }}</td>
      <td>{{ printf "%.2f" .Score.Value }}</td>
      <td>{{ .Score.Passed }}</td>
      <td>{{ if .Error }}{{ .Error }}{{ else }}{{ .Score.Reason }}{{ end }}</td>
    </tr>
    {{ end }}
    {{ end }}
  </table>
</body>
</html>
`
