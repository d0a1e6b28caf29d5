package adapter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/shieldscan/shieldscan/api/schemas"
)

var lockfileCandidates = []schemas.LockfileFormat{
	schemas.LockfileNpmPackageLock,
	schemas.LockfileYarn,
	schemas.LockfilePnpm,
	schemas.LockfilePipfile,
	schemas.LockfilePoetry,
	schemas.LockfileUV,
}

type packageJSON struct {
	Author       json.RawMessage   `json:"author"`
	License      string            `json:"license"`
	Repository   json.RawMessage   `json:"repository"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	DevDeps      map[string]string `json:"devDependencies"`
}

type pyprojectTOML struct {
	Project struct {
		Version      string   `toml:"version"`
		License      string   `toml:"license"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Version      string            `toml:"version"`
			License      string            `toml:"license"`
			Authors      []string          `toml:"authors"`
			Dependencies map[string]string `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParseDependencies reads every manifest ShieldScan knows about
// (package.json, requirements.txt, pyproject.toml) under root and
// aggregates their declared dependencies and any lockfile presence.
// Manifests that do not exist or fail to parse are skipped silently — a
// missing manifest is not a scan error, it just means that surface
// contributes nothing.
func ParseDependencies(fsys afero.Fs, root string) schemas.DependencySurface {
	var surface schemas.DependencySurface

	if data, err := afero.ReadFile(fsys, JoinPath(root,"package.json")); err == nil {
		surface.Dependencies = append(surface.Dependencies, parsePackageJSONDeps(data, JoinPath(root,"package.json"))...)
	}
	if data, err := afero.ReadFile(fsys, JoinPath(root,"requirements.txt")); err == nil {
		surface.Dependencies = append(surface.Dependencies, parseRequirementsTxt(data, JoinPath(root,"requirements.txt"))...)
	}
	if data, err := afero.ReadFile(fsys, JoinPath(root,"pyproject.toml")); err == nil {
		surface.Dependencies = append(surface.Dependencies, parsePyprojectDeps(data, JoinPath(root,"pyproject.toml"))...)
	}

	for _, lf := range lockfileCandidates {
		if exists(fsys, JoinPath(root,string(lf))) {
			surface.Lockfiles = append(surface.Lockfiles, lf)
		}
	}
	return surface
}

// ParseProvenance reads author/license/repository/version metadata out of
// package.json or pyproject.toml, preferring whichever manifest is
// present; package.json wins if both exist, matching npm-first framework
// conventions in the MCP ecosystem.
func ParseProvenance(fsys afero.Fs, root string) schemas.ProvenanceSurface {
	if data, err := afero.ReadFile(fsys, JoinPath(root,"package.json")); err == nil {
		return provenanceFromPackageJSON(data)
	}
	if data, err := afero.ReadFile(fsys, JoinPath(root,"pyproject.toml")); err == nil {
		return provenanceFromPyproject(data)
	}
	return schemas.ProvenanceSurface{}
}

func JoinPath(root,name string) string {
	if strings.HasSuffix(root, "/") {
		return root + name
	}
	return root + "/" + name
}

func exists(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}

func parsePackageJSONDeps(data []byte, manifestPath string) []schemas.Dependency {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	var deps []schemas.Dependency
	for name, constraint := range pkg.Dependencies {
		deps = append(deps, schemas.Dependency{Name: name, Constraint: constraint, Manifest: manifestPath})
	}
	for name, constraint := range pkg.DevDeps {
		deps = append(deps, schemas.Dependency{Name: name, Constraint: constraint, Manifest: manifestPath})
	}
	return deps
}

var requirementLinePattern = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*(.*)$`)

func parseRequirementsTxt(data []byte, manifestPath string) []schemas.Dependency {
	var deps []schemas.Dependency
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		m := requirementLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		deps = append(deps, schemas.Dependency{Name: m[1], Constraint: strings.TrimSpace(m[2]), Manifest: manifestPath})
	}
	return deps
}

func parsePyprojectDeps(data []byte, manifestPath string) []schemas.Dependency {
	var doc pyprojectTOML
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var deps []schemas.Dependency
	for _, raw := range doc.Project.Dependencies {
		m := requirementLinePattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		deps = append(deps, schemas.Dependency{Name: m[1], Constraint: strings.TrimSpace(m[2]), Manifest: manifestPath})
	}
	for name, constraint := range doc.Tool.Poetry.Dependencies {
		if name == "python" {
			continue
		}
		deps = append(deps, schemas.Dependency{Name: name, Constraint: constraint, Manifest: manifestPath})
	}
	return deps
}

func provenanceFromPackageJSON(data []byte) schemas.ProvenanceSurface {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return schemas.ProvenanceSurface{}
	}
	prov := schemas.ProvenanceSurface{License: pkg.License, Version: pkg.Version}
	if len(pkg.Author) > 0 {
		var asString string
		if err := json.Unmarshal(pkg.Author, &asString); err == nil {
			prov.Author = asString
		} else {
			var asObj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(pkg.Author, &asObj); err == nil {
				prov.Author = asObj.Name
			}
		}
	}
	if len(pkg.Repository) > 0 {
		var asString string
		if err := json.Unmarshal(pkg.Repository, &asString); err == nil {
			prov.Repository = asString
		} else {
			var asObj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(pkg.Repository, &asObj); err == nil {
				prov.Repository = asObj.URL
			}
		}
	}
	return prov
}

func provenanceFromPyproject(data []byte) schemas.ProvenanceSurface {
	var doc pyprojectTOML
	if err := toml.Unmarshal(data, &doc); err != nil {
		return schemas.ProvenanceSurface{}
	}
	prov := schemas.ProvenanceSurface{Version: doc.Project.Version, License: doc.Project.License}
	if prov.Version == "" {
		prov.Version = doc.Tool.Poetry.Version
	}
	if prov.License == "" {
		prov.License = doc.Tool.Poetry.License
	}
	if len(doc.Tool.Poetry.Authors) > 0 {
		prov.Author = doc.Tool.Poetry.Authors[0]
	}
	return prov
}
