package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

func islandTemplate() *worldtemplate.Template {
	return &worldtemplate.Template{
		Name:        "island",
		WorldBounds: worldtemplate.Bounds{Min: -2000, Max: 2000},
		Shape:       worldtemplate.Shape{CenterX: 0, CenterZ: 0, Radius: 1500, FalloffSharpness: 0.3},
		Spine: worldtemplate.SpinePath{
			Points:    []worldtemplate.Point2{{X: 0.2, Z: 0.5}, {X: 0.8, Z: 0.5}},
			Elevation: 0.85,
			Width:     0.08,
		},
		LandExtent: worldtemplate.LandExtent{Inner: 0.35, Outer: 0.35},
		Climate: worldtemplate.Climate{
			TemperatureGradient: worldtemplate.ClimateGradient{Direction: worldtemplate.Point2{X: 0, Z: 1}, Strength: 0.3},
			BaseHumidity:        0.5,
		},
	}
}

func TestDiscoverIsDeterministic(t *testing.T) {
	tpl := islandTemplate()
	a := Discover(3, tpl)
	b := Discover(3, tpl)
	require.Equal(t, len(a), len(b))
	for k, za := range a {
		zb, ok := b[k]
		require.True(t, ok)
		assert.Equal(t, za.Name, zb.Name)
		assert.Equal(t, za.Type, zb.Type)
	}
}

func TestDiscoverAtMostOneZonePerGridKey(t *testing.T) {
	tpl := islandTemplate()
	zones := Discover(3, tpl)
	for key, z := range zones {
		assert.Equal(t, key, z.GridKey)
	}
}

func TestAdjacencyOnlyReferencesExistingZones(t *testing.T) {
	tpl := islandTemplate()
	zones := Discover(3, tpl)
	for _, z := range zones {
		for _, adjKey := range z.AdjacentZones {
			_, ok := zones[adjKey]
			assert.True(t, ok, "adjacent key %s must exist", adjKey)
		}
	}
}

func TestLevelRangeTiersByDistance(t *testing.T) {
	lo, hi := levelRangeFor(100, 0)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 5, hi)

	lo, hi = levelRangeFor(1600, 0)
	assert.Equal(t, 15, lo)
	assert.Equal(t, 20, hi)
}

func TestLevelRangeCapsAtTwenty(t *testing.T) {
	_, hi := levelRangeFor(1600, 1.0)
	assert.LessOrEqual(t, hi, 20)
}

func TestGridKeyRoundTripsThroughParseKey(t *testing.T) {
	key := formatKey(-3, 7)
	gx, gz := parseKey(key)
	assert.Equal(t, -3, gx)
	assert.Equal(t, 7, gz)
}

func TestInfluenceIndexFindsNearbyZone(t *testing.T) {
	tpl := islandTemplate()
	zones := Discover(3, tpl)
	require.NotEmpty(t, zones)

	var sample *Zone
	for _, z := range zones {
		sample = z
		break
	}

	idx := NewIndex(zones)
	hits := idx.At(sample.Center.X, sample.Center.Z)
	require.NotEmpty(t, hits)
	assert.Equal(t, sample.GridKey, hits[0].Zone.GridKey)
	assert.InDelta(t, 1.0, hits[0].Strength, 1e-9)
}

func TestInfluenceZeroBeyondRadius(t *testing.T) {
	z := &Zone{Center: worldtemplate.Point2{X: 0, Z: 0}, Radius: 400}
	assert.Equal(t, 0.0, influence(1000, 0, z))
}
