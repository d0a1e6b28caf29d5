package adapter

import (
	"strings"

	"github.com/spf13/afero"
)

// ManifestDependencyPresent is a cheap, parser-free detection primitive:
// it reads manifestName under root (if present) and checks whether the
// given dependency name appears anywhere in its raw text. This is
// deliberately a substring check rather than a structured decode — good
// enough for detection evidence, and detect() must never depend on
// parser output or be expensive.
func ManifestDependencyPresent(fsys afero.Fs, root, manifestName, dependency string) bool {
	data, err := afero.ReadFile(fsys, JoinPath(root, manifestName))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), dependency)
}

// AnyFileContains reports whether any file under root with the given
// extension contains needle. Used for source-level detection evidence
// (e.g. `from mcp import`) that can't be found in a manifest.
func AnyFileContains(fsys afero.Fs, root, ext, needle string) bool {
	found := false
	files, err := WalkSourceFiles(fsys, root, false, func(path string) bool {
		return strings.HasSuffix(path, ext)
	})
	if err != nil {
		return false
	}
	for _, f := range files {
		data, readErr := afero.ReadFile(fsys, f)
		if readErr != nil {
			continue
		}
		if strings.Contains(string(data), needle) {
			found = true
			break
		}
	}
	return found
}
