package supplychain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shieldscan/shieldscan/api/schemas"
)

func TestCheckUnpinnedFlagsRangeOperators(t *testing.T) {
	deps := schemas.DependencySurface{Dependencies: []schemas.Dependency{
		{Name: "left-pad", Constraint: "^1.0.0"},
		{Name: "express", Constraint: "4.18.2"},
		{Name: "requests", Constraint: ""},
	}}

	issues := CheckUnpinned(deps)
	assert.Len(t, issues, 2)
	names := map[string]bool{}
	for _, issue := range issues {
		names[issue.Dependency.Name] = true
		assert.Equal(t, schemas.DependencyIssueUnpinned, issue.Type)
	}
	assert.True(t, names["left-pad"])
	assert.True(t, names["requests"])
	assert.False(t, names["express"])
}

func TestCheckTyposquatFlagsCloseNames(t *testing.T) {
	deps := schemas.DependencySurface{Dependencies: []schemas.Dependency{
		{Name: "reqeusts", Constraint: "1.0.0"}, // distance 2 from "requests"
		{Name: "requests", Constraint: "1.0.0"}, // exact match, never flagged
		{Name: "pytest", Constraint: "1.0.0"},   // KNOWN_SAFE
	}}

	issues := CheckTyposquat(deps)
	require := assert.New(t)
	require.Len(issues, 1)
	require.Equal("reqeusts", issues[0].Dependency.Name)
	require.Equal(schemas.DependencyIssueTyposquat, issues[0].Type)
}

func TestCheckTyposquatIgnoresShortNames(t *testing.T) {
	deps := schemas.DependencySurface{Dependencies: []schemas.Dependency{
		{Name: "vue", Constraint: "1.0.0"},
	}}
	assert.Empty(t, CheckTyposquat(deps))
}

func TestCheckLockfile(t *testing.T) {
	withLock := schemas.DependencySurface{
		Dependencies: []schemas.Dependency{{Name: "express"}},
		Lockfiles:    []schemas.LockfileFormat{schemas.LockfileNpmPackageLock},
	}
	assert.False(t, CheckLockfile(withLock))

	withoutLock := schemas.DependencySurface{Dependencies: []schemas.Dependency{{Name: "left-pad"}}}
	assert.True(t, CheckLockfile(withoutLock))

	empty := schemas.DependencySurface{}
	assert.False(t, CheckLockfile(empty))
}
