package reporting

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/observability"
)

// ConsoleReporter writes a human-readable finding list, in the order the
// findings are given (it does not sort or group them), for terminal
// consumption.
type ConsoleReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
}

func NewConsoleReporter(writer io.WriteCloser) *ConsoleReporter {
	return &ConsoleReporter{writer: writer, logger: observability.GetLogger().Named("console_reporter")}
}

func (r *ConsoleReporter) Write(result *schemas.ResultEnvelope) error {
	if len(result.Findings) == 0 {
		fmt.Fprintln(r.writer, "no findings")
		return nil
	}

	for _, f := range result.Findings {
		loc := "-"
		if f.HasLocation() {
			loc = fmt.Sprintf("%s:%d:%d", f.Location.File, f.Location.Line, f.Location.Column)
		}
		fmt.Fprintf(r.writer, "[%s] %s  %s  %s\n", severityLabel(f.Severity), f.RuleID, loc, f.Title)
		if f.Evidence != "" {
			fmt.Fprintf(r.writer, "    %s\n", f.Evidence)
		}
	}

	fmt.Fprintf(r.writer, "\n%d finding(s) across %d target(s)\n", len(result.Findings), len(result.Targets))
	fmt.Fprintf(r.writer, "verdict: %s (threshold %s, observed %s)\n",
		verdictLabel(result.Verdict.Pass), result.Verdict.Threshold, result.Verdict.HighestSeverityObserved)
	return nil
}

func (r *ConsoleReporter) Close() error {
	r.logger.Debug("console report written")
	return r.writer.Close()
}

func severityLabel(s schemas.Severity) string {
	switch s {
	case schemas.SeverityCritical:
		return "CRITICAL"
	case schemas.SeverityHigh:
		return "HIGH    "
	case schemas.SeverityMedium:
		return "MEDIUM  "
	case schemas.SeverityLow:
		return "LOW     "
	default:
		return "INFO    "
	}
}

func verdictLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}
