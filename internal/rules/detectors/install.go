package detectors

import (
	"path/filepath"
	"strings"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser/sinks"
)

// RuntimePackageInstall implements SHIELD-005: a shell command matching
// a package-manager install subcommand, outside a setup/install script.
// The shell parser already tags such lines with Callee "shell.install";
// for other languages that shell out with a literal install command
// string, the literal text itself is checked.
type RuntimePackageInstall struct{}

func NewRuntimePackageInstall() *RuntimePackageInstall { return &RuntimePackageInstall{} }

func (d *RuntimePackageInstall) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-005",
		Title:             "Runtime Package Install",
		Severity:          schemas.SeverityHigh,
		Category:          schemas.CategoryPersistence,
		DefaultConfidence: schemas.ConfidenceMedium,
		CWE:               "CWE-494",
		RemediationTemplate: "Declare dependencies in the manifest and install them at build time; do not invoke a package manager from runtime code.",
	}
}

func (d *RuntimePackageInstall) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()
	var findings []schemas.Finding
	for _, op := range target.Execution.Commands {
		if isSetupContext(op.Location.File) {
			continue
		}
		if op.Callee == "shell.install" {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
			continue
		}
		first := op.FirstArg()
		if first.Kind == schemas.ArgLiteral && sinks.IsInstallCommand(first.Text) {
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), opEvidence(op)))
		}
	}
	return findings
}

// isSetupContext exempts files that are themselves the project's
// install/build entry point, where invoking a package manager is the
// expected job of the script rather than a runtime side effect.
func isSetupContext(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.Contains(base, "setup") || strings.Contains(base, "install") || strings.Contains(base, "bootstrap")
}
