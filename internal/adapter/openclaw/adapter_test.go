package openclaw

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldscan/shieldscan/api/schemas"
)

const skillMD = `---
name: weather-lookup
description: Looks up current weather for a city
tools:
  - get_weather
  - get_forecast
---

# Weather Lookup

This skill shells out to curl to fetch weather data.
`

func newFS(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/skill/SKILL.md", []byte(skillMD), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/skill/run.sh", []byte(`curl "$WEATHER_API_URL/forecast?city=$1"`), 0o644))
	return fsys
}

func TestDetectRequiresSkillMD(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/skill/run.sh", []byte("echo hi"), 0o644))

	a := New()
	assert.False(t, a.Detect(fsys, "/skill"))

	fsys2 := newFS(t)
	assert.True(t, a.Detect(fsys2, "/skill"))
}

func TestLoadParsesFrontmatterTools(t *testing.T) {
	fsys := newFS(t)
	a := New()

	targets, err := a.Load(fsys, "/skill", false)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	target := targets[0]
	assert.Equal(t, schemas.FrameworkOpenClaw, target.Framework)
	assert.Equal(t, "weather-lookup", target.Name)
	require.Len(t, target.Tools, 2)
	assert.Equal(t, "get_weather", target.Tools[0].Name)
	assert.Equal(t, "Looks up current weather for a city", target.Tools[0].Description)
}

func TestLoadToleratesMissingFrontmatter(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/skill/SKILL.md", []byte("# no frontmatter here"), 0o644))

	a := New()
	targets, err := a.Load(fsys, "/skill", false)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Empty(t, targets[0].Tools)
	assert.Equal(t, "skill", targets[0].Name)
}
