package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

func sampleTemplate() *worldtemplate.Template {
	return &worldtemplate.Template{
		Name:        "sample",
		WorldBounds: worldtemplate.Bounds{Min: -2000, Max: 2000},
		Shape:       worldtemplate.Shape{CenterX: 0, CenterZ: 0, Radius: 1000, FalloffSharpness: 0.5},
		Spine: worldtemplate.SpinePath{
			Points:    []worldtemplate.Point2{{X: 0.2, Z: 0.5}, {X: 0.8, Z: 0.5}},
			Elevation: 0.85,
			Width:     0.05,
		},
		LandExtent: worldtemplate.LandExtent{Inner: 0.25, Outer: 0.25},
		Climate: worldtemplate.Climate{
			TemperatureGradient: worldtemplate.ClimateGradient{Direction: worldtemplate.Point2{X: 0, Z: 1}, Strength: 0.4},
			BaseHumidity:        0.5,
		},
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	tpl := sampleTemplate()
	a := Sample(123, 45, 0xCAFEBABE, tpl)
	b := Sample(123, 45, 0xCAFEBABE, tpl)
	assert.Equal(t, a, b)
}

func TestSampleDiffersAcrossSeeds(t *testing.T) {
	tpl := sampleTemplate()
	a := Sample(123, 45, 1, tpl)
	b := Sample(123, 45, 2, tpl)
	assert.NotEqual(t, a.Continentalness, b.Continentalness)
}

func TestSampleOceanFarFromLand(t *testing.T) {
	tpl := sampleTemplate()
	p := Sample(5000, 5000, 7, tpl)
	assert.Equal(t, Ocean, p.Biome)
	assert.NotEqual(t, WaterNone, p.WaterType)
}

func TestSampleValuesInUnitRange(t *testing.T) {
	tpl := sampleTemplate()
	for _, coord := range []float64{-1800, -600, 0, 600, 1800} {
		p := Sample(coord, coord/2, 99, tpl)
		assert.GreaterOrEqual(t, p.HeightNormalized, 0.0)
		assert.LessOrEqual(t, p.HeightNormalized, 1.0)
		assert.GreaterOrEqual(t, p.Temperature, 0.0)
		assert.LessOrEqual(t, p.Temperature, 1.0)
		assert.GreaterOrEqual(t, p.Humidity, 0.0)
		assert.LessOrEqual(t, p.Humidity, 1.0)
	}
}

func TestClassifyWaterThresholds(t *testing.T) {
	assert.Equal(t, WaterDeep, classifyWater(0.0))
	assert.Equal(t, WaterShallow, classifyWater(SeaLevel-0.01))
	assert.Equal(t, WaterNone, classifyWater(SeaLevel+0.1))
}

func TestClassifyBiomeWaterAlwaysOcean(t *testing.T) {
	assert.Equal(t, Ocean, classifyBiome(0.9, 0.9, 0.9, 0.9, WaterShallow))
	assert.Equal(t, Ocean, classifyBiome(0.9, 0.9, 0.9, 0.9, WaterDeep))
}

func TestClassifyBiomeHighElevationCold(t *testing.T) {
	b := classifyBiome(0.95, 0.1, 0.5, 0.8, WaterNone)
	assert.Equal(t, Glacier, b)
}

func TestGetHeightForRiverGenMatchesSample(t *testing.T) {
	tpl := sampleTemplate()
	h := GetHeightForRiverGen(10, 20, 42, tpl)
	p := Sample(10, 20, 42, tpl)
	assert.Equal(t, p.HeightNormalized, h)
}
