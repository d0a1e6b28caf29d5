package detectors

import (
	"fmt"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser/sinks"
)

// CredentialExfiltration implements SHIELD-002: the same file contains a
// secret-named environment variable read and an outbound network
// operation. One finding is emitted per qualifying (secret read,
// network op) pair within a file, at the network call site — the
// exfiltration happens at the point data leaves the process, not at the
// point the secret was read.
type CredentialExfiltration struct{}

func NewCredentialExfiltration() *CredentialExfiltration { return &CredentialExfiltration{} }

func (d *CredentialExfiltration) Metadata() schemas.RuleMetadata {
	return schemas.RuleMetadata{
		ID:                "SHIELD-002",
		Title:             "Credential Exfiltration",
		Severity:          schemas.SeverityCritical,
		Category:          schemas.CategoryExfiltration,
		DefaultConfidence: schemas.ConfidenceMedium,
		CWE:               "CWE-200",
		RemediationTemplate: "Do not read secret-named environment variables into the same control flow that issues outbound network requests; keep credential material out of request-building code paths.",
	}
}

func (d *CredentialExfiltration) Run(target schemas.ScanTarget) []schemas.Finding {
	meta := d.Metadata()

	secretsByFile := make(map[string][]schemas.EnvAccess)
	for _, env := range target.Execution.EnvAccesses {
		if sinks.IsSecretEnvVar(env.Name) {
			secretsByFile[env.Location.File] = append(secretsByFile[env.Location.File], env)
		}
	}

	var findings []schemas.Finding
	for _, op := range target.Execution.NetworkOps {
		secrets := secretsByFile[op.Location.File]
		if len(secrets) == 0 {
			continue
		}
		for _, secret := range secrets {
			evidence := fmt.Sprintf("%s read alongside outbound call %s(...)", secret.Name, op.Callee)
			findings = append(findings, newFinding(meta, target, locPtr(op.Location), evidence))
		}
	}
	return findings
}
