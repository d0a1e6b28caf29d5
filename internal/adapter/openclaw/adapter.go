// Package openclaw implements the framework adapter for skill manifests:
// a SKILL.md file with a YAML frontmatter block declaring the skill's
// name, description, and the tools it exposes.
package openclaw

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/adapter"
)

// Adapter recognizes OpenClaw-style skill manifests.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Framework() schemas.Framework { return schemas.FrameworkOpenClaw }

func (a *Adapter) Detect(fsys afero.Fs, root string) bool {
	ok, _ := afero.Exists(fsys, adapter.JoinPath(root, "SKILL.md"))
	return ok
}

type skillFrontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tools       []string `yaml:"tools"`
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

	if fm, loc, ok := readFrontmatter(fsys, adapter.JoinPath(root, "SKILL.md")); ok {
		if fm.Name != "" {
			target.Name = fm.Name
		}
		for _, toolName := range fm.Tools {
			target.Tools = append(target.Tools, schemas.ToolSurface{
				Name:        toolName,
				Description: fm.Description,
				Location:    loc,
			})
		}
	}

	return []schemas.ScanTarget{target}, nil
}

// readFrontmatter extracts and decodes the YAML block delimited by a
// leading and trailing "---" line at the top of a SKILL.md file. A file
// missing frontmatter, or with malformed YAML, degrades to ok == false
// rather than failing the load — a skill manifest with no declared tools
// is unusual but not an error.
func readFrontmatter(fsys afero.Fs, path string) (skillFrontmatter, schemas.SourceLocation, bool) {
	var fm skillFrontmatter
	loc := schemas.SourceLocation{File: path, Line: 1, Column: 1, Valid: true}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fm, loc, false
	}
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return fm, loc, false
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, loc, false
	}
	block := rest[:end]
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, loc, false
	}
	return fm, loc, true
}
