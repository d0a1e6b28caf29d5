// Package reporting formats a ResultEnvelope into one of the external
// report formats (console, structured JSON, code-scanning SARIF). The
// core scan/policy/rule packages never import this package — formatting
// is external per the invocation-surface design.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// Reporter writes one ResultEnvelope and is then closed exactly once.
type Reporter interface {
	Write(result *schemas.ResultEnvelope) error
	Close() error
}

// New builds the Reporter for format, writing to outputPath (or stdout
// if outputPath is empty). An unrecognized format is a configuration
// error, not a silent fallback to console.
func New(format, outputPath string) (Reporter, error) {
	writer, err := openOutput(outputPath)
	if err != nil {
		return nil, err
	}

	switch format {
	case "console":
		return NewConsoleReporter(writer), nil
	case "structured":
		return NewJSONReporter(writer), nil
	case "code-scanning":
		return NewSARIFReporter(writer, "dev"), nil
	case "html":
		return NewHTMLReporter(writer), nil
	default:
		_ = writer.Close()
		return nil, fmt.Errorf("reporting: unrecognized format %q", format)
	}
}

func openOutput(outputPath string) (io.WriteCloser, error) {
	if outputPath == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reporting: open output %s: %w", outputPath, err)
	}
	return f, nil
}

// nopWriteCloser adapts stdout (which must never be closed by a
// reporter) to io.WriteCloser.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
