package reporting

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// JSONReporter emits the ResultEnvelope as-is for the `structured`
// format; this is the one reporter external tooling is expected to
// round-trip against the schemas package, so it deliberately does no
// projection beyond what the caller already applied.
type JSONReporter struct {
	writer io.WriteCloser
}

func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: writer}
}

func (r *JSONReporter) Write(result *schemas.ResultEnvelope) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("reporting: encode structured output: %w", err)
	}
	return nil
}

func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
