// Package terrain implements the terrain sampler (component E): the pure
// function that composes noise and the template evaluator into the full set
// of per-column parameters every downstream stage (spines, rivers, zones,
// SDF baking) reads from.
package terrain

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/evaluator"
	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/noise"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// Biome is one of the fixed set the zone mapper and downstream renderers
// classify blocks into.
type Biome string

const (
	Ocean           Biome = "ocean"
	Beach           Biome = "beach"
	Plains          Biome = "plains"
	Meadow          Biome = "meadow"
	Savanna         Biome = "savanna"
	Desert          Biome = "desert"
	RedDesert       Biome = "red_desert"
	Swamp           Biome = "swamp"
	Jungle          Biome = "jungle"
	Rainforest      Biome = "rainforest"
	DeciduousForest Biome = "deciduous_forest"
	AutumnForest    Biome = "autumn_forest"
	Taiga           Biome = "taiga"
	Tundra          Biome = "tundra"
	Snow            Biome = "snow"
	Mountains       Biome = "mountains"
	Alpine          Biome = "alpine"
	Highlands       Biome = "highlands"
	Glacier         Biome = "glacier"
	Badlands        Biome = "badlands"
	Volcanic        Biome = "volcanic"
)

// WaterType classifies a column's surface water depth.
type WaterType string

const (
	WaterNone    WaterType = "none"
	WaterShallow WaterType = "shallow"
	WaterDeep    WaterType = "deep"
)

// Params is the terrain sampler's full per-column output.
type Params struct {
	Continentalness  float64
	Temperature      float64
	Humidity         float64
	HeightNormalized float64
	Ridgeness        float64
	Biome            Biome
	WaterType        WaterType
}

// SeaLevel is the heightNormalized threshold below which a column is
// classified as open water rather than land, shared with the river
// generator's config so source discovery and termination agree with the
// sampler's own water classification.
const SeaLevel = 0.12

const (
	shallowWaterBand = 0.04 // heightNormalized within SeaLevel-this..SeaLevel is "shallow"
	continentOctaves = 5
	continentFreq    = 0.0015
	heightOctaves    = 4
	heightFreq       = 0.004
	ridgeOctaves     = 3
	ridgeFreq        = 0.006
	temperatureFreq  = 0.0008
	humidityOctaves  = 4
	humidityFreq     = 0.002
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Sample computes every terrain parameter at world column (x, z).
func Sample(x, z float64, seed uint32, t *worldtemplate.Template) Params {
	mods := evaluator.Evaluate(x, z, t)

	continentSeed := hashrng.DeriveSeed(seed, "continentalness")
	continentNoise := noise.OctaveNoise(continentSeed, x, z, continentOctaves, continentFreq, "continentalness")
	continentalness := mods.ShapeMask * continentNoise

	heightSeed := hashrng.DeriveSeed(seed, "height")
	heightNoise := noise.OctaveNoise(heightSeed, x, z, heightOctaves, heightFreq, "height")
	ridgeSeed := hashrng.DeriveSeed(seed, "ridge")
	ridgeNoise := noise.OctaveNoise(ridgeSeed, x, z, ridgeOctaves, ridgeFreq, "ridge")
	heightNormalized := clamp01(mods.MountainBoost + heightNoise*mods.ElevationMultiplier + mods.RidgeWeight*ridgeNoise)

	temperature := sampleTemperature(x, z, seed, t)
	humidity := sampleHumidity(x, z, seed, t, continentalness)

	waterType := classifyWater(heightNormalized)
	biome := classifyBiome(heightNormalized, temperature, humidity, continentalness, waterType)

	return Params{
		Continentalness:  continentalness,
		Temperature:      temperature,
		Humidity:         humidity,
		HeightNormalized: heightNormalized,
		Ridgeness:        ridgeNoise,
		Biome:            biome,
		WaterType:        waterType,
	}
}

// GetHeightForRiverGen is a pure restriction of Sample to only the value the
// river tracer's gradient queries need. It performs no caching or mutation so
// concurrent gradient sampling (central differences over four neighboring
// columns) stays consistent.
func GetHeightForRiverGen(x, z float64, seed uint32, t *worldtemplate.Template) float64 {
	return Sample(x, z, seed, t).HeightNormalized
}

func sampleTemperature(x, z float64, seed uint32, t *worldtemplate.Template) float64 {
	nx := 0.5 + (x-t.Shape.CenterX)/(2*t.Shape.Radius)
	nz := 0.5 + (z-t.Shape.CenterZ)/(2*t.Shape.Radius)
	dir := worldtemplate.NormalizedGradient(t.Climate.TemperatureGradient.Direction)
	latitudeTerm := (nx-0.5)*dir.X + (nz-0.5)*dir.Z
	base := 0.5 + latitudeTerm*t.Climate.TemperatureGradient.Strength

	tempSeed := hashrng.DeriveSeed(seed, "temperature")
	local := noise.Value2D(tempSeed, x*temperatureFreq, z*temperatureFreq, noise.SaltFor("temperature")) - 0.5
	return clamp01(base + local*0.2)
}

func sampleHumidity(x, z float64, seed uint32, t *worldtemplate.Template, continentalness float64) float64 {
	humiditySeed := hashrng.DeriveSeed(seed, "humidity")
	local := noise.OctaveNoise(humiditySeed, x, z, humidityOctaves, humidityFreq, "humidity") - 0.5

	// Coast proximity term: continentalness near the 0.25 coast threshold
	// contributes extra humidity, tapering off away from the shoreline in
	// either direction.
	coastTerm := 1 - clamp01(math.Abs(continentalness-0.25)/0.25)

	return clamp01(t.Climate.BaseHumidity + local*0.4 + coastTerm*0.2)
}

func classifyWater(heightNormalized float64) WaterType {
	switch {
	case heightNormalized < SeaLevel-shallowWaterBand:
		return WaterDeep
	case heightNormalized < SeaLevel:
		return WaterShallow
	default:
		return WaterNone
	}
}

// classifyBiome maps (height, temperature, humidity, continentalness) into
// the fixed biome set. Ordering mirrors a decision tree: water and elevation
// extremes are resolved first, then temperature/humidity quadrants.
func classifyBiome(height, temperature, humidity, continentalness float64, water WaterType) Biome {
	if water != WaterNone {
		return Ocean
	}
	if height < SeaLevel+0.02 {
		return Beach
	}

	switch {
	case height > 0.85:
		if temperature < 0.2 {
			return Glacier
		}
		return Snow
	case height > 0.75:
		if temperature < 0.3 {
			return Alpine
		}
		return Mountains
	case height > 0.62:
		return Highlands
	}

	switch {
	case temperature < 0.15:
		return Tundra
	case temperature < 0.3:
		if humidity < 0.3 {
			return Tundra
		}
		return Taiga
	case temperature < 0.55:
		switch {
		case humidity < 0.25:
			return Plains
		case humidity < 0.5:
			return Meadow
		case humidity < 0.75:
			return DeciduousForest
		default:
			return AutumnForest
		}
	case temperature < 0.8:
		switch {
		case humidity < 0.2:
			return Desert
		case humidity < 0.4:
			return Savanna
		case humidity < 0.65:
			return Plains
		case humidity < 0.85:
			return Jungle
		default:
			return Swamp
		}
	default:
		switch {
		case humidity < 0.15:
			if continentalness < 0.4 {
				return Volcanic
			}
			return RedDesert
		case humidity < 0.35:
			return Badlands
		case humidity < 0.7:
			return Savanna
		default:
			return Rainforest
		}
	}
}
