package detectors

import (
	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/supplychain"
)

// UnpinnedDependency implements SHIELD-009. Supply-chain findings are
// locationless: they apply to the target's manifest as a whole, not to
// a file position.
type UnpinnedDependency struct{}

func NewUnpinnedDependency() *UnpinnedDependency { return &UnpinnedDependency{} }

func (d *UnpinnedDependency) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-009",
		Title:             "Unpinned Dependency",
		Severity:          schemas.SeverityMedium,
		Category:          schemas.CategorySupplyChain,
		DefaultConfidence: schemas.ConfidenceHigh,
		CWE:               "CWE-1357",
		RemediationTemplate: "Pin the dependency to an exact version and commit a lockfile so builds are reproducible.",
	}
}

func (d *UnpinnedDependency) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, issue := range supplychain.CheckUnpinned(target.Dependencies) {
		findings = append(findings, newFinding(meta, target, nil, issue.Detail))
	}
	return findings
}

// Typosquat implements SHIELD-010.
type Typosquat struct{}

func NewTyposquat() *Typosquat { return &Typosquat{} }

func (d *Typosquat) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-010",
		Title:             "Typosquat",
		Severity:          schemas.SeverityMedium,
		Category:          schemas.CategorySupplyChain,
		DefaultConfidence: schemas.ConfidenceMedium,
		CWE:               "CWE-1357",
		RemediationTemplate: "Verify the dependency name against the package registry; a near-miss of a popular package name is a common supply-chain attack vector.",
	}
}

func (d *Typosquat) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, issue := range supplychain.CheckTyposquat(target.Dependencies) {
		findings = append(findings, newFinding(meta, target, nil, issue.Detail))
	}
	return findings
}

// NoLockfile implements SHIELD-012.
type NoLockfile struct{}

func NewNoLockfile() *NoLockfile { return &NoLockfile{} }

func (d *NoLockfile) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-012",
		Title:             "No Lockfile",
		Severity:          schemas.SeverityLow,
		Category:          schemas.CategorySupplyChain,
		DefaultConfidence: schemas.ConfidenceHigh,
		CWE:               "CWE-1357",
		RemediationTemplate: "Commit a lockfile alongside the manifest so dependency resolution is reproducible across installs.",
	}
}

func (d *NoLockfile) Run(target schemas.ScanTarget) []schemas.Finding {
	if !supplychain.CheckLockfile(target.Dependencies) {
		return nil
	}
	meta := d.Metadata()
	return []schemas.Finding{newFinding(meta, target, nil, "no lockfile found alongside the declared dependencies")}
}
