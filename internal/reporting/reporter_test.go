package reporting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/reporting/sarif"
)

type bufCloser struct {
	*bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func sampleResult() *schemas.ResultEnvelope {
	return &schemas.ResultEnvelope{
		ScanID: "scan-1",
		Targets: []schemas.ScanTarget{{Name: "srv", Framework: schemas.FrameworkMCP}},
		Findings: []schemas.Finding{
			{
				ID: "f1", RuleID: "SHIELD-001", Title: "Command Injection",
				Severity: schemas.SeverityCritical, Category: schemas.CategoryInjection,
				Location: &schemas.SourceLocation{File: "run.py", Line: 3, Column: 1, Valid: true},
				TargetName: "srv", TargetFramework: schemas.FrameworkMCP,
			},
			{
				ID: "f2", RuleID: "SHIELD-012", Title: "No Lockfile",
				Severity: schemas.SeverityLow, Category: schemas.CategorySupplyChain,
				TargetName: "srv", TargetFramework: schemas.FrameworkMCP,
			},
		},
		Verdict: schemas.PolicyVerdict{Pass: false, Threshold: schemas.SeverityHigh, HighestSeverityObserved: schemas.SeverityCritical},
	}
}

func TestConsoleReporterWritesAllFindings(t *testing.T) {
	buf := &bufCloser{Buffer: &bytes.Buffer{}}
	r := NewConsoleReporter(buf)
	require.NoError(t, r.Write(sampleResult()))
	require.NoError(t, r.Close())

	out := buf.String()
	assert.Contains(t, out, "SHIELD-001")
	assert.Contains(t, out, "SHIELD-012")
	assert.Contains(t, out, "fail")
	assert.True(t, buf.closed)
}

func TestJSONReporterRoundTrips(t *testing.T) {
	buf := &bufCloser{Buffer: &bytes.Buffer{}}
	r := NewJSONReporter(buf)
	require.NoError(t, r.Write(sampleResult()))
	require.NoError(t, r.Close())

	var decoded schemas.ResultEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Findings, 2)
	assert.Equal(t, "scan-1", decoded.ScanID)
}

func TestSARIFReporterExcludesLocationlessFindings(t *testing.T) {
	buf := &bufCloser{Buffer: &bytes.Buffer{}}
	r := NewSARIFReporter(buf, "test")
	require.NoError(t, r.Write(sampleResult()))
	require.NoError(t, r.Close())

	var log sarif.Log
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "SHIELD-001", log.Runs[0].Results[0].RuleID)
	assert.Equal(t, 3, log.Runs[0].Results[0].Locations[0].PhysicalLocation.Region.StartLine)
}

func TestHTMLReporterEscapesContent(t *testing.T) {
	buf := &bufCloser{Buffer: &bytes.Buffer{}}
	r := NewHTMLReporter(buf)
	result := sampleResult()
	result.Findings[0].Title = "<script>alert(1)</script>"
	require.NoError(t, r.Write(result))
	require.NoError(t, r.Close())

	out := buf.String()
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(out, "&lt;script&gt;"))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("yaml", "")
	assert.Error(t, err)
}
