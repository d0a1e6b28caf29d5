// Package provenance fills in authorship/distribution metadata a
// manifest did not declare by walking up from the scan root to the
// enclosing git repository and reading its origin remote.
package provenance

import (
	"github.com/go-git/go-git/v5"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// EnrichFromRepository cross-checks and fills gaps in surface using the
// git repository enclosing root, if any. A manifest-declared Repository
// always wins over the git-derived one; a missing Repository is filled
// in from the origin remote. Absence of a repository, or an absent
// origin remote, is not an error — most scan targets are a subtree of a
// larger checkout and provenance enrichment is best-effort.
func EnrichFromRepository(root string, surface schemas.ProvenanceSurface) schemas.ProvenanceSurface {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return surface
	}

	if surface.Repository == "" {
		if url := originURL(repo); url != "" {
			surface.Repository = url
		}
	}
	return surface
}

func originURL(repo *git.Repository) string {
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return ""
	}
	return cfg.URLs[0]
}
