// Package rules defines the Detector capability and the Engine that runs
// an ordered sequence of them over a scan target's IR. A detector is a
// capability value, not a base class: {Metadata, Run} is the entire
// contract, and the engine holds no mutable scaffolding a detector could
// reach into.
package rules

import "github.com/shieldscan/shieldscan/api/schemas"

// Detector consumes only the IR of a scan target; it must never touch
// the filesystem or invoke a parser. Run returns one Finding per
// offending operation record; deduplication, if wanted, is the caller's
// responsibility.
type Detector interface {
	Metadata() schemas.RuleMetadata
	Run(target schemas.ScanTarget) []schemas.Finding
}

// Engine holds a registered, ordered sequence of detectors. Output order
// across detectors follows registration order; within a detector, output
// order follows that detector's own operation-iteration order.
type Engine struct {
	detectors []Detector
}

// NewEngine builds an Engine from the given detectors, in the order
// given. The variadic signature mirrors the "ordered sequence" framing
// in the rule-engine design rather than taking a slice the caller must
// build separately.
func NewEngine(detectors ...Detector) *Engine {
	return &Engine{detectors: detectors}
}

// Detectors returns the engine's registered detectors in registration
// order, primarily so list-rules tooling can enumerate metadata without
// running a scan.
func (e *Engine) Detectors() []Detector {
	return e.detectors
}

// Run executes every registered detector against target and
// concatenates their findings in registration order.
func (e *Engine) Run(target schemas.ScanTarget) []schemas.Finding {
	var findings []schemas.Finding
	for _, d := range e.detectors {
		findings = append(findings, d.Run(target)...)
	}
	return findings
}

// RunAll executes the engine over every target and concatenates results
// in target order, then detector order within each target.
func (e *Engine) RunAll(targets []schemas.ScanTarget) []schemas.Finding {
	var findings []schemas.Finding
	for _, target := range targets {
		findings = append(findings, e.Run(target)...)
	}
	return findings
}
