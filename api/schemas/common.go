package schemas

import "time"

// ResultEnvelope is the top-level wrapper handed to a Reporter for one
// scan invocation.
type ResultEnvelope struct {
	ScanID    string        `json:"scan_id"`
	Timestamp time.Time     `json:"timestamp"`
	Targets   []ScanTarget  `json:"targets"`
	Findings  []Finding     `json:"findings"`
	Verdict   PolicyVerdict `json:"verdict"`
}
