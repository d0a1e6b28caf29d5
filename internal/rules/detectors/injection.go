package detectors

import "github.com/shieldscan/shieldscan/api/schemas"

// CommandInjection implements SHIELD-001: any command-execution
// operation whose command argument is tainted.
type CommandInjection struct{}

func NewCommandInjection() *CommandInjection { return &CommandInjection{} }

func (d *CommandInjection) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-001",
		Title:             "Command Injection",
		Severity:          schemas.SeverityCritical,
		Category:          schemas.CategoryInjection,
		DefaultConfidence: schemas.ConfidenceHigh,
		CWE:               "CWE-78",
		RemediationTemplate: "Avoid passing untrusted input to a shell; use an argument list without shell=True, or validate/allowlist the value before use.",
	}
}

func (d *CommandInjection) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.Commands {
		if op.FirstArg().IsTainted() {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
		}
	}
	return findings
}

// DynamicCodeExecution implements SHIELD-011: a dynamic-eval operation
// whose code argument is tainted.
type DynamicCodeExecution struct{}

func NewDynamicCodeExecution() *DynamicCodeExecution { return &DynamicCodeExecution{} }

func (d *DynamicCodeExecution) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-011",
		Title:             "Dynamic Code Execution",
		Severity:          schemas.SeverityCritical,
		Category:          schemas.CategoryInjection,
		DefaultConfidence: schemas.ConfidenceHigh,
		CWE:               "CWE-95",
		RemediationTemplate: "Do not evaluate externally-influenced strings as code; replace eval/exec/Function with a parser for the specific expected structure.",
	}
}

func (d *DynamicCodeExecution) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.DynamicExecs {
		if op.FirstArg().IsTainted() {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
		}
	}
	return findings
}
