package detectors

import (
	"fmt"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// ExcessivePermissions implements SHIELD-008: a tool's declared
// permissions exceed what the target's execution surface actually uses.
// observedCapabilities is derived once per target from the aggregated
// ExecutionSurface, then compared against each tool's own
// DeclaredPermission list.
type ExcessivePermissions struct{}

func NewExcessivePermissions() *ExcessivePermissions { return &ExcessivePermissions{} }

func (d *ExcessivePermissions) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-008",
		Title:             "Excessive Permissions",
		Severity:          schemas.SeverityMedium,
		Category:          schemas.CategoryPrivilege,
		DefaultConfidence: schemas.ConfidenceLow,
		CWE:               "CWE-250",
		RemediationTemplate: "Narrow the tool's declared permissions to only the capabilities its implementation actually exercises.",
	}
}

func (d *ExcessivePermissions) Run(target schemas.ScanTarget) []schemas.Finding {
	if len(target.Tools) == 0 {
		return nil
	}
	meta := d.Metadata()
	observed := observedCapabilities(target)

	var findings []schemas.Finding
	for _, tool := range target.Tools {
		for _, perm := range tool.Permissions {
			if observed[perm.Type] {
				continue
			}
			evidence := fmt.Sprintf("tool %q declares %s permission but no %s usage was observed in this target", tool.Name, perm.Type, perm.Type)
			findings = append(findings, newFinding(meta, target, locPtr(tool.Location), evidence))
		}
	}
	return findings
}

func observedCapabilities(target schemas.ScanTarget) map[schemas.PermissionType]bool {
	exec := target.Execution
	return map[schemas.PermissionType]bool{
		schemas.PermissionProcess:    len(exec.Commands) > 0 || len(exec.DynamicExecs) > 0,
		schemas.PermissionNetwork:    len(exec.NetworkOps) > 0,
		schemas.PermissionFilesystem: len(exec.FileOps) > 0,
		schemas.PermissionEnv:        len(exec.EnvAccesses) > 0,
	}
}
