package scan

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/policy"
	"github.com/shieldscan/shieldscan/internal/shielderr"
)

func defaultOpts() Options {
	return Options{Policy: policy.New(nil, nil, schemas.SeverityHigh)}
}

// TestScenarioS1SafeCalculator mirrors a tool server exposing only two
// arithmetic functions: no execution, network, file, or dynamic-eval
// surface exists at all, and its one dependency is pinned and locked, so
// the engine should find nothing.
func TestScenarioS1SafeCalculator(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/package.json", []byte(`{"dependencies": {"@modelcontextprotocol/sdk": "1.0.0"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/package-lock.json", []byte(`{"lockfileVersion": 3}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/calc.js", []byte(
		"export function add(a, b) {\n"+
			"  return a + b;\n"+
			"}\n"+
			"export function sub(a, b) {\n"+
			"  return a - b;\n"+
			"}\n",
	), 0o644))

	result, err := ScanFS(fsys, "/srv", defaultOpts(), "scan-s1", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Empty(t, result.RawFindings)
	assert.True(t, result.Verdict.Pass)
}

// TestScenarioS3CrossFileValidatedFilesystem mirrors a handler in one
// file that validates a path before handing it to an exported reader
// defined in a second file; the cross-file sanitizer should downgrade
// the reader's parameter before SHIELD-004 ever sees it.
func TestScenarioS3CrossFileValidatedFilesystem(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/package.json", []byte(`{"dependencies": {"@modelcontextprotocol/sdk": "^1.0.0"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/a.js", []byte(
		"function handler(args) {\n"+
			"  const p = validatePath(args.path);\n"+
			"  return readFileContent(p);\n"+
			"}\n",
	), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/b.js", []byte(
		"export function readFileContent(filePath) {\n"+
			"  return fs.readFile(filePath, 'utf8');\n"+
			"}\n",
	), 0o644))

	result, err := ScanFS(fsys, "/srv", defaultOpts(), "scan-s3", time.Unix(0, 0))
	require.NoError(t, err)

	for _, f := range result.RawFindings {
		assert.NotEqual(t, "SHIELD-004", f.RuleID, "readFileContent's parameter should have been sanitized cross-file")
	}
}

// TestScanWithNoClaimingAdapterReturnsErrNoAdapter covers the control-flow
// edge case where no registered adapter recognizes the root at all.
func TestScanWithNoClaimingAdapterReturnsErrNoAdapter(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/README.md", []byte("hello\n"), 0o644))

	_, err := ScanFS(fsys, "/srv", defaultOpts(), "scan-empty", time.Unix(0, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, shielderr.ErrNoAdapter)
	assert.Equal(t, 2, shielderr.ExitCode(err))
}

// TestFindingLocationsAreSane covers universal invariant 6: every located
// finding's line and column are at least 1.
func TestFindingLocationsAreSane(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/package.json", []byte(`{"dependencies": {"@modelcontextprotocol/sdk": "^1.0.0"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/server.py", []byte(
		"import subprocess\n"+
			"def run(cmd):\n"+
			"    subprocess.run(cmd, shell=True)\n",
	), 0o644))

	result, err := ScanFS(fsys, "/srv", defaultOpts(), "scan-loc", time.Unix(0, 0))
	require.NoError(t, err)
	require.NotEmpty(t, result.RawFindings)

	for _, f := range result.RawFindings {
		if !f.HasLocation() {
			continue
		}
		assert.GreaterOrEqual(t, f.Location.Line, 1)
		assert.GreaterOrEqual(t, f.Location.Column, 1)
	}
}

// TestEnvelopeCarriesProjectedFindings confirms the wire-shaped envelope
// reflects the policy-projected view, not the raw detector output.
func TestEnvelopeCarriesProjectedFindings(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/package.json", []byte(`{"dependencies": {"@modelcontextprotocol/sdk": "^1.0.0"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/server.py", []byte(
		"import subprocess\n"+
			"def run(cmd):\n"+
			"    subprocess.run(cmd, shell=True)\n",
	), 0o644))

	opts := Options{Policy: policy.New([]string{"SHIELD-001"}, nil, schemas.SeverityHigh)}
	result, err := ScanFS(fsys, "/srv", opts, "scan-env", time.Unix(0, 0))
	require.NoError(t, err)

	env := result.Envelope()
	assert.Equal(t, "scan-env", env.ScanID)
	for _, f := range env.Findings {
		assert.NotEqual(t, "SHIELD-001", f.RuleID)
	}
}
