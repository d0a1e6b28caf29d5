package reporting

import (
	"fmt"
	"html"
	"io"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// HTMLReporter renders a single self-contained HTML page, for a
// reviewer who wants a shareable artifact without a SARIF-aware viewer.
type HTMLReporter struct {
	writer io.WriteCloser
}

func NewHTMLReporter(writer io.WriteCloser) *HTMLReporter {
	return &HTMLReporter{writer: writer}
}

func (r *HTMLReporter) Write(result *schemas.ResultEnvelope) error {
	fmt.Fprint(r.writer, "<!doctype html><html><head><meta charset=\"utf-8\"><title>ShieldScan report</title>")
	fmt.Fprint(r.writer, "<style>body{font-family:sans-serif}td,th{padding:4px 8px;border:1px solid #ccc}</style></head><body>")
	fmt.Fprintf(r.writer, "<h1>ShieldScan report — %s</h1>", html.EscapeString(string(result.Verdict.HighestSeverityObserved)))
	fmt.Fprintf(r.writer, "<p>Verdict: <strong>%s</strong> (threshold %s)</p>", verdictLabel(result.Verdict.Pass), result.Verdict.Threshold)

	fmt.Fprint(r.writer, "<table><tr><th>Severity</th><th>Rule</th><th>Target</th><th>Location</th><th>Title</th></tr>")
	for _, f := range result.Findings {
		loc := "-"
		if f.HasLocation() {
			loc = fmt.Sprintf("%s:%d:%d", f.Location.File, f.Location.Line, f.Location.Column)
		}
		fmt.Fprintf(r.writer, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(string(f.Severity)), html.EscapeString(f.RuleID), html.EscapeString(f.TargetName),
			html.EscapeString(loc), html.EscapeString(f.Title))
	}
	fmt.Fprint(r.writer, "</table></body></html>")
	return nil
}

func (r *HTMLReporter) Close() error {
	return r.writer.Close()
}
