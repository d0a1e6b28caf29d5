package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shieldscan/shieldscan/api/schemas"
)

func sampleFindings() []schemas.Finding {
	return []schemas.Finding{
		{RuleID: "SHIELD-001", Severity: schemas.SeverityCritical},
		{RuleID: "SHIELD-009", Severity: schemas.SeverityMedium},
		{RuleID: "SHIELD-012", Severity: schemas.SeverityLow},
	}
}

func TestEvaluatePassesWhenNoFindings(t *testing.T) {
	p := New(nil, nil, schemas.SeverityHigh)
	projected, verdict := p.Evaluate(nil)
	assert.Empty(t, projected)
	assert.True(t, verdict.Pass)
	assert.Equal(t, schemas.SeverityInfo, verdict.HighestSeverityObserved)
}

func TestEvaluateFailsAtOrAboveThreshold(t *testing.T) {
	p := New(nil, nil, schemas.SeverityHigh)
	_, verdict := p.Evaluate(sampleFindings())
	assert.False(t, verdict.Pass)
	assert.Equal(t, schemas.SeverityCritical, verdict.HighestSeverityObserved)
}

func TestIgnoreRuleRemovesFindingFromVerdictComputation(t *testing.T) {
	p := New([]string{"SHIELD-001"}, nil, schemas.SeverityHigh)
	projected, verdict := p.Evaluate(sampleFindings())
	assert.Len(t, projected, 2)
	assert.True(t, verdict.Pass)
	assert.Equal(t, schemas.SeverityMedium, verdict.HighestSeverityObserved)
}

func TestSeverityOverrideAffectsVerdict(t *testing.T) {
	p := New(nil, map[string]schemas.Severity{"SHIELD-009": schemas.SeverityCritical}, schemas.SeverityCritical)
	projected, verdict := p.Evaluate([]schemas.Finding{{RuleID: "SHIELD-009", Severity: schemas.SeverityMedium}})
	assert.Equal(t, schemas.SeverityCritical, projected[0].Severity)
	assert.False(t, verdict.Pass)
}

// TestPolicyProjectionInvariant mirrors universal invariant 8: removing
// ignored rules from the finding list does not change the verdict's
// highest_severity_observed beyond what the ignore set justifies — here,
// ignoring the only critical finding lowers the observed maximum to the
// next highest severity still present, never further.
func TestPolicyProjectionInvariant(t *testing.T) {
	findings := sampleFindings()
	withoutIgnore := New(nil, nil, schemas.SeverityInfo)
	_, verdictAll := withoutIgnore.Evaluate(findings)
	assert.Equal(t, schemas.SeverityCritical, verdictAll.HighestSeverityObserved)

	withIgnore := New([]string{"SHIELD-001"}, nil, schemas.SeverityInfo)
	_, verdictFiltered := withIgnore.Evaluate(findings)
	assert.Equal(t, schemas.SeverityMedium, verdictFiltered.HighestSeverityObserved)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	findings := sampleFindings()
	p := New(nil, map[string]schemas.Severity{"SHIELD-009": schemas.SeverityCritical}, schemas.SeverityCritical)
	_ = p.Apply(findings)
	assert.Equal(t, schemas.SeverityMedium, findings[1].Severity)
}
