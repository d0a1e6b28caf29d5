// Package supplychain analyzes a ScanTarget's DependencySurface for
// unpinned version constraints, typosquat candidates, and missing
// lockfiles. It is pure over the IR; it never touches the filesystem
// itself — that happens in the adapter's manifest-parsing phase.
package supplychain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shieldscan/shieldscan/api/schemas"
)

// popularPythonPackages mirrors the well-known PyPI packages an agent
// framework is likely to declare a real dependency on.
var popularPythonPackages = []string{
	"requests", "flask", "django", "numpy", "pandas", "scipy", "boto3",
	"fastapi", "uvicorn", "httpx", "aiohttp", "pillow", "pydantic",
	"sqlalchemy", "celery", "redis", "psycopg2", "pytest", "setuptools",
	"cryptography", "paramiko", "pyyaml", "jinja2", "beautifulsoup4",
	"selenium", "scrapy", "tensorflow", "pytorch", "transformers",
	"langchain", "openai", "anthropic", "mcp", "starlette",
}

// popularNpmPackages mirrors the well-known npm packages.
var popularNpmPackages = []string{
	"express", "react", "lodash", "axios", "chalk", "commander", "next",
	"typescript", "webpack", "eslint", "prettier", "jest", "mongoose",
	"sequelize", "prisma", "fastify", "socket.io", "dotenv", "cors",
	"jsonwebtoken", "bcrypt", "nodemailer", "openai", "langchain", "zod",
	"drizzle-orm", "vitest",
}

// knownSafe is the escape-hatch allowlist: packages that legitimately
// sit within edit distance 2 of a popular name (short names collide
// easily) but are themselves real, widely-used packages.
var knownSafe = map[string]bool{
	"pytest": true, "vitest": true, "vite": true, "babel": true,
	"ajv": true, "yup": true, "nock": true, "chai": true, "mocha": true,
	"rxjs": true, "koa": true, "hapi": true,
}

var popularSet = buildPopularSet()

func buildPopularSet() map[string]bool {
	set := make(map[string]bool, len(popularPythonPackages)+len(popularNpmPackages))
	for _, p := range popularPythonPackages {
		set[p] = true
	}
	for _, p := range popularNpmPackages {
		set[p] = true
	}
	return set
}

var rangeOperatorPattern = regexp.MustCompile(`[\^~*]|>=|<=|~=`)

// isUnpinned reports whether a version constraint uses a range operator,
// is the bare wildcard, or is empty (absent constraint).
func isUnpinned(constraint string) bool {
	c := strings.TrimSpace(constraint)
	if c == "" || c == "*" {
		return true
	}
	return rangeOperatorPattern.MatchString(c)
}

// Issue is one supply-chain finding, pre-rule-engine: the detectors in
// internal/rules/detectors/supplychain.go wrap these into full Findings.
type Issue struct {
	Type       schemas.DependencyIssueType
	Dependency schemas.Dependency
	Detail     string
}

// CheckUnpinned returns one Issue per dependency declared with a range
// operator, wildcard, or absent version constraint.
func CheckUnpinned(deps schemas.DependencySurface) []Issue {
	var issues []Issue
	for _, dep := range deps.Dependencies {
		if isUnpinned(dep.Constraint) {
			issues = append(issues, Issue{
				Type:       schemas.DependencyIssueUnpinned,
				Dependency: dep,
				Detail:     fmt.Sprintf("dependency %q has unpinned constraint %q", dep.Name, dep.Constraint),
			})
		}
	}
	return issues
}

// CheckTyposquat flags any declared dependency whose lowercased name is
// within Levenshtein distance 1-2 of a popular package name, has length
// >= 4, is not itself a popular package, and is not on the KNOWN_SAFE
// allowlist.
func CheckTyposquat(deps schemas.DependencySurface) []Issue {
	var issues []Issue
	for _, dep := range deps.Dependencies {
		name := strings.ToLower(dep.Name)
		if len(name) < 4 || popularSet[name] || knownSafe[name] {
			continue
		}
		for popular := range popularSet {
			distance := levenshtein(name, popular)
			if distance > 0 && distance <= 2 {
				issues = append(issues, Issue{
					Type:       schemas.DependencyIssueTyposquat,
					Dependency: dep,
					Detail:     fmt.Sprintf("dependency %q is similar to popular package %q (edit distance %d)", dep.Name, popular, distance),
				})
				break
			}
		}
	}
	return issues
}

// CheckLockfile reports whether the surface has no accompanying
// lockfile. A target with zero declared dependencies is not flagged —
// there is nothing to lock.
func CheckLockfile(deps schemas.DependencySurface) bool {
	if len(deps.Dependencies) == 0 {
		return false
	}
	return !deps.HasLockfile()
}
