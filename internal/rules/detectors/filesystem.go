package detectors

import (
	"strings"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// ArbitraryFileAccess implements SHIELD-004: a file read/write whose
// path argument is tainted.
type ArbitraryFileAccess struct{}

func NewArbitraryFileAccess() *ArbitraryFileAccess { return &ArbitraryFileAccess{} }

func (d *ArbitraryFileAccess) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-004",
		Title:             "Arbitrary File Access",
		Severity:          schemas.SeverityHigh,
		Category:          schemas.CategoryFileAccess,
		DefaultConfidence: schemas.ConfidenceMedium,
		CWE:               "CWE-22",
		RemediationTemplate: "Resolve and validate the path against an allowed base directory before opening it; reject paths containing traversal sequences.",
	}
}

func (d *ArbitraryFileAccess) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.FileOps {
		if op.FirstArg().IsTainted() {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
		}
	}
	return findings
}

// writeCallees names the rightmost dotted segments of file sinks that
// write (as opposed to read) a file, used by SelfModification to narrow
// down from "any file op" to "any file write".
var writeCallees = map[string]bool{
	"writeFile": true, "writeFileSync": true, "appendFile": true,
	"appendFileSync": true, "write_text": true, "write_bytes": true,
}

// selfModifiableExtensions are source/config extensions that, if
// overwritten by the scan target itself, indicate the target can rewrite
// its own code or configuration rather than an external data file.
var selfModifiableExtensions = []string{".py", ".js", ".ts", ".sh", ".json", ".toml", ".yaml", ".yml"}

// SelfModification implements SHIELD-006: a file write whose path could
// resolve within the target's own root. This is necessarily a
// heuristic — the IR only carries the literal or symbolic argument text,
// not a resolved filesystem path — so it triggers on a file write to a
// literal path that looks like a source or config file, which is the
// shape of an agent rewriting its own instructions or tool definitions.
type SelfModification struct{}

func NewSelfModification() *SelfModification { return &SelfModification{} }

func (d *SelfModification) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-006",
		Title:             "Self-Modification",
		Severity:          schemas.SeverityHigh,
		Category:          schemas.CategoryPersistence,
		DefaultConfidence: schemas.ConfidenceLow,
		CWE:               "CWE-494",
		RemediationTemplate: "Avoid writing to the extension's own source, configuration, or tool-manifest files at runtime; treat them as read-only after load.",
	}
}

func (d *SelfModification) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.FileOps {
		rightmost := rightmostSegment(op.Callee)
		if !writeCallees[rightmost] {
			continue
		}
		first := op.FirstArg()
		if first.Kind != schemas.ArgLiteral {
			continue
		}
		lower := strings.ToLower(first.Text)
		for _, ext := range selfModifiableExtensions {
			if strings.HasSuffix(lower, ext) {
				findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
				break
			}
		}
	}
	return findings
}

func rightmostSegment(callee string) string {
	idx := strings.LastIndex(callee, ".")
	if idx < 0 {
		return callee
	}
	return callee[idx+1:]
}
