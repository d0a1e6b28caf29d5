package detectors

import "github.com/shieldscan/shieldscan/api/schemas"

// PromptInjectionSurface implements SHIELD-007: untrusted text reaching
// the model's context with nothing in the IR evidencing a sanitizing
// step in between. The IR does not track an explicit "returned to
// model" edge, so this is a structural heuristic with two distinct
// pathways:
//
//   - Natural-language rule/instruction files (TaintSourcePromptContent)
//     are loaded directly into the agent's context by the host
//     application, no tool call involved, so any such source is
//     flagged on its own.
//   - Externally-fetched content (HTTP response or file content) only
//     reaches the model if the target also declares at least one tool —
//     the channel an agent reads model-facing output through — so those
//     two source types are gated on that precondition.
type PromptInjectionSurface struct{}

func NewPromptInjectionSurface() *PromptInjectionSurface { return &PromptInjectionSurface{} }

func (d *PromptInjectionSurface) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-007",
		Title:             "Prompt Injection Surface",
		Severity:          schemas.SeverityMedium,
		Category:          schemas.CategoryPromptInjection,
		DefaultConfidence: schemas.ConfidenceLow,
		CWE:               "CWE-74",
		RemediationTemplate: "Escape or structurally delimit externally-fetched content before including it in a tool response the model will read as instructions.",
	}
}

func (d *PromptInjectionSurface) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, src := range target.Data.Sources {
		switch src.Type {
		case schemas.TaintSourcePromptContent:
		case schemas.TaintSourceHTTPResponse, schemas.TaintSourceFileContent:
			if len(target.Tools) == 0 {
				continue
			}
		default:
			continue
		}
		findings = append(findings, newFinding(meta, target, locPtr(src.Location), src.Detail))
	}
	return findings
}
