package adapter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// testDirComponents are directory path components that mark everything
// beneath them as test fixtures.
var testDirComponents = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "__pycache__": true,
}

var testFileSuffixes = []string{
	".test.ts", ".test.js", ".test.tsx", ".test.jsx", ".test.py",
	".spec.ts", ".spec.js", ".spec.tsx", ".spec.jsx",
}

// IsTestFile implements the test-file exclusion rules (union of all
// conditions): a directory component named test/tests/__tests__/
// __pycache__, a recognized test-file suffix, the test_*.py convention,
// or one of the fixed test-tooling config filenames.
func IsTestFile(path string) bool {
	for _, comp := range strings.Split(filepath.ToSlash(path), "/") {
		if testDirComponents[comp] {
			return true
		}
	}

	base := filepath.Base(path)
	for _, suffix := range testFileSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	if strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py") {
		return true
	}
	switch base {
	case "conftest.py", "pytest.ini", "setup.cfg":
		return true
	}
	if strings.HasPrefix(base, "jest.config.") || strings.HasPrefix(base, "vitest.config.") {
		return true
	}
	return false
}

// WalkSourceFiles enumerates every regular file under root for which
// include returns true, honoring ignoreTests via IsTestFile. Built on
// afero.Fs so adapters and their tests can run against an in-memory
// filesystem without touching disk.
func WalkSourceFiles(fsys afero.Fs, root string, ignoreTests bool, include func(path string) bool) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if ignoreTests && IsTestFile(path) {
			return nil
		}
		if include != nil && !include(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
