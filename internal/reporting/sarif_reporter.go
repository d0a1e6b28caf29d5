package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/observability"
	"github.com/shieldscan/shieldscan/internal/reporting/sarif"
)

const (
	sarifToolName    = "ShieldScan"
	sarifToolInfoURI = "https://github.com/shieldscan/shieldscan"
	sarifVersion     = "2.1.0"
	sarifSchema      = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

// SARIFReporter implements the code-scanning report format. Unlike a
// vulnerability scanner that has to invent stable rule identities from
// free text, every Finding here already carries a stable RuleID
// ("SHIELD-NNN"), so rule deduplication is a simple map keyed on that id
// rather than a content fingerprint.
//
// Deliberate deviation from the upstream code-scanning convention: this
// reporter places remediation text under `properties.remediation`
// rather than SARIF's structured `fixes` array, since none of this
// project's remediation text is a literal, machine-applicable patch.
type SARIFReporter struct {
	writer    io.WriteCloser
	logger    *zap.Logger
	log       *sarif.Log
	rulesSeen map[string]bool
}

func NewSARIFReporter(writer io.WriteCloser, toolVersion string) *SARIFReporter {
	return &SARIFReporter{
		writer: writer,
		logger: observability.GetLogger().Named("sarif_reporter"),
		log: &sarif.Log{
			Version: sarifVersion,
			Schema:  sarifSchema,
			Runs: []*sarif.Run{{
				Tool: &sarif.Tool{
					Driver: &sarif.ToolComponent{
						Name:           sarifToolName,
						Version:        pString(toolVersion),
						InformationURI: pString(sarifToolInfoURI),
						Rules:          []*sarif.ReportingDescriptor{},
					},
				},
				Results: []*sarif.Result{},
			}},
		},
		rulesSeen: make(map[string]bool),
	}
}

func (r *SARIFReporter) Write(result *schemas.ResultEnvelope) error {
	run := r.log.Runs[0]
	skipped := 0

	for _, f := range result.Findings {
		if !f.HasLocation() {
			skipped++
			continue
		}
		r.ensureRule(f)

		run.Results = append(run.Results, &sarif.Result{
			RuleID:  f.RuleID,
			Message: &sarif.Message{Text: pString(f.Title)},
			Level:   mapSeverityToSARIFLevel(f.Severity),
			Locations: []*sarif.Location{{
				PhysicalLocation: &sarif.PhysicalLocation{
					ArtifactLocation: &sarif.ArtifactLocation{URI: pString(f.Location.File)},
					Region:           &sarif.Region{StartLine: f.Location.Line, StartColumn: f.Location.Column},
				},
			}},
			Properties: &sarif.PropertyBag{
				"remediation": f.Remediation,
			},
		})
	}

	if skipped > 0 {
		r.logger.Debug("excluded locationless findings from code-scanning report", zap.Int("count", skipped))
	}
	return nil
}

func (r *SARIFReporter) ensureRule(f schemas.Finding) {
	if r.rulesSeen[f.RuleID] {
		return
	}
	r.rulesSeen[f.RuleID] = true

	driver := r.log.Runs[0].Tool.Driver
	driver.Rules = append(driver.Rules, &sarif.ReportingDescriptor{
		ID:               f.RuleID,
		Name:             pString(f.Title),
		ShortDescription: &sarif.MultiformatMessageString{Text: pString(f.Title)},
		Properties: &sarif.PropertyBag{
			"tags":             []string{"security", string(f.Category)},
			"cwe":              f.CWE,
			"security-severity": securitySeverityScore(f.Severity),
		},
	})
}

func (r *SARIFReporter) Close() error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(r.log)
	closeErr := r.writer.Close()
	if encodeErr != nil {
		return fmt.Errorf("reporting: encode sarif output: %w", encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("reporting: close output: %w", closeErr)
	}
	return nil
}

func mapSeverityToSARIFLevel(severity schemas.Severity) sarif.Level {
	switch strings.ToLower(string(severity)) {
	case "critical", "high":
		return sarif.LevelError
	case "medium":
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

// securitySeverityScore maps our five-level scale onto the 0.0-10.0
// numeric scale the code-scanning security-severity property expects.
func securitySeverityScore(s schemas.Severity) string {
	switch s {
	case schemas.SeverityCritical:
		return "9.5"
	case schemas.SeverityHigh:
		return "7.5"
	case schemas.SeverityMedium:
		return "5.0"
	case schemas.SeverityLow:
		return "2.5"
	default:
		return "0.0"
	}
}

func pString(s string) *string { return &s }
