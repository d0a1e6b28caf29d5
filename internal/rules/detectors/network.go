package detectors

import "github.com/shieldscan/shieldscan/api/schemas"

// SSRF implements SHIELD-003: a network operation whose URL argument is
// tainted.
type SSRF struct{}

func NewSSRF() *SSRF { return &SSRF{} }

func (d *SSRF) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-003",
		Title:             "Server-Side Request Forgery",
		Severity:          schemas.SeverityHigh,
		Category:          schemas.CategorySSRF,
		DefaultConfidence: schemas.ConfidenceMedium,
		CWE:               "CWE-918",
		RemediationTemplate: "Validate the destination host/scheme against an allowlist before issuing an outbound request with an externally-influenced URL.",
	}
}

func (d *SSRF) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.NetworkOps {
		if op.FirstArg().IsTainted() {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
		}
	}
	return findings
}
