// Package mcp implements the framework adapter for Model Context Protocol
// servers: detected via the @modelcontextprotocol/sdk npm dependency, an
// `mcp` Python dependency, `from mcp import ...` source imports, or a
// tools.json/mcp.json tool manifest.
package mcp

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/adapter"
	"github.com/shieldscan/shieldscan/internal/parser/jsonschema"
)

// Adapter recognizes MCP server source trees.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Framework() schemas.Framework { return schemas.FrameworkMCP }

func (a *Adapter) Detect(fsys afero.Fs, root string) bool {
	if adapter.ManifestDependencyPresent(fsys, root, "package.json", "@modelcontextprotocol/sdk") {
		return true
	}
	if adapter.ManifestDependencyPresent(fsys, root, "requirements.txt", "mcp") {
		return true
	}
	if adapter.ManifestDependencyPresent(fsys, root, "pyproject.toml", "mcp") {
		return true
	}
	for _, manifest := range []string{"tools.json", "mcp.json"} {
		if ok, _ := afero.Exists(fsys, adapter.JoinPath(root, manifest)); ok {
			return true
		}
	}
	return adapter.AnyFileContains(fsys, root, ".py", "from mcp") ||
		adapter.AnyFileContains(fsys, root, ".py", "@server.tool")
}

func (a *Adapter) Load(fsys afero.Fs, root string, ignoreTests bool) ([]schemas.ScanTarget, error) {
	records, sourceFiles, err := adapter.ParseSourceTree(fsys, root, ignoreTests)
	if err != nil {
		return nil, err
	}
	adapter.ApplySanitization(records)

	target := schemas.ScanTarget{
		ID:           uuid.New().String(),
		Name:         filepath.Base(strings.TrimRight(root, "/")),
		Framework:    a.Framework(),
		RootPath:     root,
		SourceFiles:  sourceFiles,
		Dependencies: adapter.ParseDependencies(fsys, root),
		Provenance:   adapter.ParseProvenance(fsys, root),
	}
	adapter.MergeExecutionAndData(&target, records)

	for _, manifest := range []string{"tools.json", "mcp.json"} {
		path := adapter.JoinPath(root, manifest)
		data, readErr := afero.ReadFile(fsys, path)
		if readErr != nil {
			continue
		}
		tools, parseErr := jsonschema.Read(path, data)
		if parseErr != nil {
			continue
		}
		target.Tools = append(target.Tools, tools...)
	}

	return []schemas.ScanTarget{target}, nil
}
