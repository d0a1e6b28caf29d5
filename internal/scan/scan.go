// Package scan implements the invocation surface: scan(root, options)
// -> (findings, verdict). It is the one place the adapter registry is
// assembled, since building that registry requires importing every
// concrete adapter subpackage — something internal/adapter itself must
// never do, to keep the dependency edge one-directional.
package scan

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/adapter"
	"github.com/shieldscan/shieldscan/internal/adapter/cursorrules"
	"github.com/shieldscan/shieldscan/internal/adapter/mcp"
	"github.com/shieldscan/shieldscan/internal/adapter/openclaw"
	"github.com/shieldscan/shieldscan/internal/policy"
	"github.com/shieldscan/shieldscan/internal/provenance"
	"github.com/shieldscan/shieldscan/internal/rules"
	"github.com/shieldscan/shieldscan/internal/rules/detectors"
	"github.com/shieldscan/shieldscan/internal/shielderr"
)

// Options mirrors the recognized options table: the formatter-facing
// options (format, output) are not here since they belong to the
// wrapper, not the core.
type Options struct {
	IgnoreTests bool
	Policy      policy.Policy
}

// Result is what a scan invocation returns to its caller: the raw
// finding stream (pre-policy, for any consumer that wants it) plus the
// policy-projected view and verdict.
type Result struct {
	ScanID            string
	Timestamp         time.Time
	Targets           []schemas.ScanTarget
	RawFindings       []schemas.Finding
	ProjectedFindings []schemas.Finding
	Verdict           schemas.PolicyVerdict
}

// defaultRegistry returns the built-in adapters in a fixed, stable
// registration order.
func defaultRegistry() []adapter.Adapter {
	return []adapter.Adapter{mcp.New(), openclaw.New(), cursorrules.New()}
}

// defaultEngine returns the built-in rule engine with all twelve
// detectors registered in the order the specification's rule table
// lists them.
func defaultEngine() *rules.Engine {
	return rules.NewEngine(detectors.All()...)
}

// Scan runs the full pipeline against a real filesystem: adapter
// auto-detection and load, cross-file sanitization (already applied
// inside each adapter's Load), provenance enrichment, detector engine,
// and policy projection.
func Scan(root string, opts Options, scanID string, timestamp time.Time) (*Result, error) {
	return ScanFS(afero.NewOsFs(), root, opts, scanID, timestamp)
}

// ScanFS runs the same pipeline against an arbitrary afero.Fs, so tests
// can exercise the full orchestration against an in-memory tree. The
// scan identity (scanID) and timestamp are supplied by the caller
// rather than generated here, keeping this function pure and its
// output reproducible for a given input tree.
func ScanFS(fsys afero.Fs, root string, opts Options, scanID string, timestamp time.Time) (*Result, error) {
	targets, err := adapter.AutoDetectAndLoad(defaultRegistry(), fsys, root, opts.IgnoreTests)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shielderr.ErrIO, err)
	}
	if len(targets) == 0 {
		return nil, shielderr.ErrNoAdapter
	}

	for i := range targets {
		targets[i].Provenance = provenance.EnrichFromRepository(root, targets[i].Provenance)
	}

	engine := defaultEngine()
	raw := engine.RunAll(targets)

	projected, verdict := opts.Policy.Evaluate(raw)

	return &Result{
		ScanID:            scanID,
		Timestamp:         timestamp,
		Targets:           targets,
		RawFindings:       raw,
		ProjectedFindings: projected,
		Verdict:           verdict,
	}, nil
}

// Envelope converts a Result into the wire-shaped ResultEnvelope a
// reporter consumes.
func (r *Result) Envelope() *schemas.ResultEnvelope {
	return &schemas.ResultEnvelope{
		ScanID:    r.ScanID,
		Timestamp: r.Timestamp,
		Targets:   r.Targets,
		Findings:  r.ProjectedFindings,
		Verdict:   r.Verdict,
	}
}
