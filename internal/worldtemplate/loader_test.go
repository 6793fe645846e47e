package worldtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const islandYAML = `
name: island
worldBounds: {min: -2000, max: 2000}
shape: {centerX: 0, centerZ: 0, radius: 1500, falloffSharpness: 0.3}
spine:
  points:
    - {x: 0.2, z: 0.5}
    - {x: 0.8, z: 0.5}
  elevation: 0.85
  width: 0.08
landExtent: {inner: 0.35, outer: 0.35}
climate:
  temperatureGradient:
    direction: {x: 0, z: 1}
    strength: 0.3
  baseHumidity: 0.5
`

func TestLoadBytesParsesASpineFirstTemplate(t *testing.T) {
	tpl, err := LoadBytes([]byte(islandYAML))
	require.NoError(t, err)
	assert.Equal(t, "island", tpl.Name)
	assert.Len(t, tpl.Spine.Points, 2)
	assert.True(t, HasSpineFirstGeneration(tpl))
	assert.InDelta(t, 0.5, tpl.Climate.BaseHumidity, 1e-9)
}

func TestLoadBytesRejectsInvalidTemplate(t *testing.T) {
	_, err := LoadBytes([]byte("name: broken\nworldBounds: {min: 10, max: -10}\n"))
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoadFileMissingPathFails(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/to/template.yaml")
	require.Error(t, err)
}

func TestLoadBytesPreservesMountainBoostAndFlattenRegion(t *testing.T) {
	yamlDoc := islandYAML + `
elevation:
  mountainBoost:
    region: {centerX: 0.5, centerZ: 0.5, radius: 0.2}
    strength: 0.4
    ridgeWeight: 0.6
  flattenRegion:
    region: {centerX: 0.1, centerZ: 0.1, radius: 0.1}
    flatness: 0.8
`
	tpl, err := LoadBytes([]byte(yamlDoc))
	require.NoError(t, err)
	require.NotNil(t, tpl.Elevation.MountainBoost)
	require.NotNil(t, tpl.Elevation.FlattenRegion)
	assert.InDelta(t, 0.4, tpl.Elevation.MountainBoost.Strength, 1e-9)
	assert.InDelta(t, 0.8, tpl.Elevation.FlattenRegion.Flatness, 1e-9)
}
