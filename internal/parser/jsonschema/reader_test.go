package jsonschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser/jsonschema"
)

func TestReadToolManifest(t *testing.T) {
	t.Parallel()
	raw := []byte(`{
		"tools": [
			{"name": "fetch_url", "description": "Fetch a remote URL over HTTP and return its contents.", "inputSchema": {"type": "object"}},
			{"name": "add", "description": "Add two numbers.", "inputSchema": {"type": "object"}}
		]
	}`)
	tools, err := jsonschema.Read("mcp.json", raw)
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "fetch_url", tools[0].Name)
	require.NotEmpty(t, tools[0].Permissions)
	assert.Equal(t, schemas.PermissionNetwork, tools[0].Permissions[0].Type)
	assert.Empty(t, tools[1].Permissions)
}

func TestReadBareArrayManifest(t *testing.T) {
	t.Parallel()
	raw := []byte(`[{"name": "run_command", "description": "Execute a shell command."}]`)
	tools, err := jsonschema.Read("tools.json", raw)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, schemas.PermissionProcess, tools[0].Permissions[0].Type)
}

func TestReadInvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := jsonschema.Read("broken.json", []byte("{not json"))
	assert.Error(t, err)
}
