package provenance

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
)

func TestEnrichFromRepositoryFillsMissingRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/example/agent-tool.git"},
	})
	require.NoError(t, err)

	surface := EnrichFromRepository(dir, schemas.ProvenanceSurface{Author: "jane"})
	assert.Equal(t, "https://github.com/example/agent-tool.git", surface.Repository)
	assert.Equal(t, "jane", surface.Author)
}

func TestEnrichFromRepositoryPreservesManifestDeclaredRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/example/agent-tool.git"},
	})
	require.NoError(t, err)

	surface := EnrichFromRepository(dir, schemas.ProvenanceSurface{Repository: "https://npmjs.com/package/agent-tool"})
	assert.Equal(t, "https://npmjs.com/package/agent-tool", surface.Repository)
}

func TestEnrichFromRepositoryNoRepoIsNoop(t *testing.T) {
	dir := t.TempDir()
	surface := EnrichFromRepository(dir, schemas.ProvenanceSurface{Author: "jane"})
	assert.Equal(t, "jane", surface.Author)
	assert.Empty(t, surface.Repository)
}
