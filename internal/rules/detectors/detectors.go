// Package detectors implements the twelve built-in rule families as
// independent Detector values. Each file groups the detectors for one
// attack family; shared finding-construction helpers live here.
package detectors

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/rules"
)

// newFinding builds a Finding from a detector's metadata and a single
// offending operation, with the evidence text the caller built. For a
// locationless finding (e.g. supply-chain issues) callers pass a nil
// *schemas.SourceLocation.
func newFinding(meta schemas.RuleMetadata, target schemas.ScanTarget, loc *schemas.SourceLocation, evidence string) schemas.Finding {
	return schemas.Finding{
		ID:              uuid.New().String(),
		RuleID:          meta.ID,
		Title:           meta.Title,
		Severity:        meta.Severity,
		Confidence:      meta.DefaultConfidence,
		Category:        meta.Category,
		Location:        loc,
		Evidence:        evidence,
		Remediation:     meta.RemediationTemplate,
		CWE:             meta.CWE,
		TargetName:      target.Name,
		TargetFramework: target.Framework,
	}
}

func locPtr(loc schemas.SourceLocation) *schemas.SourceLocation {
	l := loc
	return &l
}

func opEvidence(op schemas.Operation) string {
	return fmt.Sprintf("%s(...)", op.Callee)
}

// All returns every built-in detector, in the fixed registration order
// the rule table in the specification lists them: 001 through 012.
func All() []rules.Detector {
	return []rules.Detector{
		NewCommandInjection(),
		NewCredentialExfiltration(),
		NewSSRF(),
		NewArbitraryFileAccess(),
		NewRuntimePackageInstall(),
		NewSelfModification(),
		NewPromptInjectionSurface(),
		NewExcessivePermissions(),
		NewUnpinnedDependency(),
		NewTyposquat(),
		NewDynamicCodeExecution(),
		NewNoLockfile(),
	}
}
