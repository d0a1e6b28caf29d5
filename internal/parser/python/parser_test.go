package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser/python"
)

func TestParseCommandInjection(t *testing.T) {
	t.Parallel()
	src := []byte(`
def run(cmd):
    subprocess.run(cmd, shell=True)
`)
	p := python.New()
	pf, err := p.Parse("server.py", src)
	require.NoError(t, err)
	require.Len(t, pf.Commands, 1)
	op := pf.Commands[0]
	assert.Equal(t, "subprocess.run", op.Callee)
	require.NotEmpty(t, op.Args)
	assert.Equal(t, schemas.ArgParameter, op.Args[0].Kind)
	assert.Equal(t, "cmd", op.Args[0].Name)
	assert.True(t, op.Args[0].IsTainted())
	assert.Equal(t, 3, op.Location.Line)
}

func TestParseSanitizerBinding(t *testing.T) {
	t.Parallel()
	src := []byte(`
def handler(args):
    p = validatePath(args.path)
    readFileContent(p)
`)
	p := python.New()
	pf, err := p.Parse("handler.py", src)
	require.NoError(t, err)
	assert.Equal(t, "validatePath", pf.SanitizedVars["p"])
}

func TestParseGitDispatcherIdiom(t *testing.T) {
	t.Parallel()
	src := []byte(`
def sync(repo, user_args):
    repo.git.log(user_args)
`)
	p := python.New()
	pf, err := p.Parse("sync.py", src)
	require.NoError(t, err)
	require.Len(t, pf.Commands, 1)
	assert.Equal(t, "repo.git.log", pf.Commands[0].Callee)
}

func TestParseFunctionExportedConvention(t *testing.T) {
	t.Parallel()
	src := []byte(`
def public_fn(a, b):
    return a + b

def _private_fn(a):
    return a
`)
	p := python.New()
	pf, err := p.Parse("mod.py", src)
	require.NoError(t, err)
	require.Len(t, pf.Functions, 2)
	byName := map[string]schemas.FunctionDef{}
	for _, f := range pf.Functions {
		byName[f.Name] = f
	}
	assert.True(t, byName["public_fn"].IsExported)
	assert.False(t, byName["_private_fn"].IsExported)
}

func TestParseAsyncClientBindingRule(t *testing.T) {
	t.Parallel()
	src := []byte(`
async def fetch(user_url):
    async with AsyncClient() as client:
        await client.get(user_url)
`)
	p := python.New()
	pf, err := p.Parse("fetch.py", src)
	require.NoError(t, err)
	require.Len(t, pf.NetworkOps, 1)
	op := pf.NetworkOps[0]
	assert.Equal(t, "client.get", op.Callee)
	require.NotEmpty(t, op.Args)
	assert.Equal(t, schemas.ArgParameter, op.Args[0].Kind)
	assert.Equal(t, "user_url", op.Args[0].Name)
}
