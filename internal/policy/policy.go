// Package policy projects a raw finding stream into a filtered view and
// a pass/fail verdict, without mutating the findings a non-verdict
// consumer (e.g. a report formatter that wants every finding regardless
// of policy) still needs to see.
package policy

import "github.com/shieldscan/shieldscan/api/schemas"

// Policy holds the ignore list, severity overrides, and fail threshold
// read from the scan configuration.
type Policy struct {
	IgnoreRules map[string]bool
	Overrides   map[string]schemas.Severity
	FailOn      schemas.Severity
}

// New builds a Policy from raw configuration values. ignoreRules and
// overrides are converted into lookup maps once, since Evaluate runs
// per-finding.
func New(ignoreRules []string, overrides map[string]schemas.Severity, failOn schemas.Severity) Policy {
	ignored := make(map[string]bool, len(ignoreRules))
	for _, id := range ignoreRules {
		ignored[id] = true
	}
	return Policy{IgnoreRules: ignored, Overrides: overrides, FailOn: failOn}
}

// Apply rewrites each finding's severity per the configured overrides.
// It returns a new slice; the input is never mutated, since callers
// that want the pre-policy severities (e.g. an audit trail) still hold
// the original slice.
func (p Policy) Apply(findings []schemas.Finding) []schemas.Finding {
	out := make([]schemas.Finding, len(findings))
	for i, f := range findings {
		if sev, ok := p.Overrides[f.RuleID]; ok {
			f.Severity = sev
		}
		out[i] = f
	}
	return out
}

// Filter removes findings whose rule id is on the ignore list. It is a
// pure projection: the returned slice never aliases elements that
// should be excluded, and the caller's original slice is untouched.
func (p Policy) Filter(findings []schemas.Finding) []schemas.Finding {
	out := make([]schemas.Finding, 0, len(findings))
	for _, f := range findings {
		if p.IgnoreRules[f.RuleID] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Evaluate runs the full policy pipeline (override, then filter) and
// computes the verdict over the filtered-and-overridden view. It
// returns both that projected slice and the verdict, since the
// projected slice is what a policy-aware report consumer should render.
func (p Policy) Evaluate(findings []schemas.Finding) ([]schemas.Finding, schemas.PolicyVerdict) {
	projected := p.Filter(p.Apply(findings))

	highest := schemas.SeverityInfo
	hasAny := false
	for _, f := range projected {
		if !hasAny || f.Severity.Rank() > highest.Rank() {
			highest = f.Severity
			hasAny = true
		}
	}

	verdict := schemas.PolicyVerdict{
		Threshold:               p.FailOn,
		HighestSeverityObserved: highest,
		Pass:                    !(hasAny && highest.AtLeast(p.FailOn)),
	}
	return projected, verdict
}
