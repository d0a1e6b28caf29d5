package mcp

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
)

const toolsJSON = `{
  "tools": [
    {"name": "read_file", "description": "Read a file from disk", "inputSchema": {"type": "object"}},
    {"name": "run_shell", "description": "Execute a shell command", "inputSchema": {"type": "object"}}
  ]
}`

func TestDetectViaPackageJSONDependency(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/package.json", []byte(`{"dependencies": {"@modelcontextprotocol/sdk": "^1.0.0"}}`), 0o644))

	a := New()
	assert.True(t, a.Detect(fsys, "/srv"))
}

func TestDetectViaPythonImport(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/server.py", []byte("from mcp import Server\n"), 0o644))

	a := New()
	assert.True(t, a.Detect(fsys, "/srv"))
}

func TestDetectFalseWithoutEvidence(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/app.py", []byte("print('hello')\n"), 0o644))

	a := New()
	assert.False(t, a.Detect(fsys, "/srv"))
}

func TestLoadMergesToolManifestAndExecutionSurface(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/tools.json", []byte(toolsJSON), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/server.py", []byte(
		"import subprocess\n"+
			"import os\n"+
			"def run_shell(cmd):\n"+
			"    subprocess.run(cmd, shell=True)\n"+
			"token = os.environ['MCP_TOKEN']\n",
	), 0o644))

	a := New()
	targets, err := a.Load(fsys, "/srv", false)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	target := targets[0]
	assert.Equal(t, schemas.FrameworkMCP, target.Framework)
	require.Len(t, target.Tools, 2)
	assert.Equal(t, "read_file", target.Tools[0].Name)
	assert.NotEmpty(t, target.Execution.Commands)
	assert.NotEmpty(t, target.Execution.EnvAccesses)
}

func TestLoadToleratesMissingToolManifest(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/server.py", []byte("from mcp import Server\n"), 0o644))

	a := New()
	targets, err := a.Load(fsys, "/srv", false)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Empty(t, targets[0].Tools)
}
