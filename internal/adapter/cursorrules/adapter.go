// Package cursorrules implements the framework adapter for Cursor rule
// files: a top-level .cursorrules file, or one or more .mdc rule files
// under .cursor/rules/.
package cursorrules

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/adapter"
)

// Adapter recognizes Cursor rule-file trees.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Framework() schemas.Framework { return schemas.FrameworkCursorRules }

func (a *Adapter) Detect(fsys afero.Fs, root string) bool {
	if ok, _ := afero.Exists(fsys, adapter.JoinPath(root, ".cursorrules")); ok {
		return true
	}
	rulesDir := adapter.JoinPath(root, ".cursor/rules")
	entries, err := afero.ReadDir(fsys, rulesDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mdc") {
			return true
		}
	}
	return false
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

	for _, path := range RuleFiles(fsys, root) {
		data, readErr := afero.ReadFile(fsys, path)
		if readErr != nil {
			continue
		}
		target.Data.Sources = append(target.Data.Sources, schemas.DataSource{
			Type:     schemas.TaintSourcePromptContent,
			Location: schemas.SourceLocation{File: path, Line: 1, Valid: true},
			Detail:   firstLine(data),
		})
	}

	return []schemas.ScanTarget{target}, nil
}

func firstLine(data []byte) string {
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		return strings.TrimSpace(string(data[:i]))
	}
	return strings.TrimSpace(string(data))
}

// RuleFiles returns the paths of every rule file (.cursorrules, and any
// .mdc files under .cursor/rules/) contributing to this target. Rule
// files are natural-language instructions injected directly into an
// agent's context rather than a tool manifest, so Load reads their
// content through this list instead of through ParseSourceTree and
// records each one as a TaintSourcePromptContent entry in the target's
// DataSurface, which is what feeds the prompt-injection-surface
// detector.
func RuleFiles(fsys afero.Fs, root string) []string {
	var rules []string
	if ok, _ := afero.Exists(fsys, adapter.JoinPath(root, ".cursorrules")); ok {
		rules = append(rules, adapter.JoinPath(root, ".cursorrules"))
	}
	rulesDir := adapter.JoinPath(root, ".cursor/rules")
	entries, err := afero.ReadDir(fsys, rulesDir)
	if err != nil {
		return rules
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mdc") {
			rules = append(rules, adapter.JoinPath(rulesDir, e.Name()))
		}
	}
	return rules
}
