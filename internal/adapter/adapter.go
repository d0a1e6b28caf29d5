// Package adapter defines the framework-adapter contract and the shared
// file-walking helpers every concrete adapter (mcp, openclaw, cursorrules)
// builds on. The concrete adapters live in their own subpackages to keep
// detector state from leaking between them, per the design rule that
// adapters may share helpers but never share detector state.
package adapter

import (
	"github.com/spf13/afero"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// Adapter recognizes one framework's source layout and produces zero or
// more ScanTargets for it.
type Adapter interface {
	// Framework returns this adapter's identifying tag.
	Framework() schemas.Framework
	// Detect is a cheap evidence check; it must never depend on parser
	// output and must be safe to call on every registered adapter for
	// every scanned root.
	Detect(fsys afero.Fs, root string) bool
	// Load runs the adapter's parse -> analyze -> merge pipeline and
	// returns the scan targets it produced.
	Load(fsys afero.Fs, root string, ignoreTests bool) ([]schemas.ScanTarget, error)
}

// AutoDetectAndLoad implements the "all claiming adapters run" rule: every
// adapter in registry that detects evidence of its framework under root
// contributes its scan targets, in registration order. A root with no
// claiming adapter yields a nil slice and nil error; the caller (the scan
// orchestrator) is responsible for turning an empty result into
// shielderr.ErrNoAdapter.
func AutoDetectAndLoad(registry []Adapter, fsys afero.Fs, root string, ignoreTests bool) ([]schemas.ScanTarget, error) {
	var targets []schemas.ScanTarget
	for _, a := range registry {
		if !a.Detect(fsys, root) {
			continue
		}
		loaded, err := a.Load(fsys, root, ignoreTests)
		if err != nil {
			return nil, err
		}
		targets = append(targets, loaded...)
	}
	return targets, nil
}
