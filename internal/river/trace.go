package river

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

var oceanSearchRadii = []float64{150, 300, 500, 800, 1200, 1600}

const oceanSearchAzimuths = 16
const stuckThreshold = 3

func isWater(x, z float64, seed uint32, t *worldtemplate.Template) bool {
	return terrain.Sample(x, z, seed, t).WaterType != terrain.WaterNone
}

// nearestOceanDirection scans concentric radii at 16 azimuths for the
// nearest water sample and returns a unit vector pointing toward it,
// defaulting to north if none is found within the search radii.
func nearestOceanDirection(x, z float64, seed uint32, t *worldtemplate.Template) (float64, float64) {
	for _, r := range oceanSearchRadii {
		for k := 0; k < oceanSearchAzimuths; k++ {
			angle := 2 * math.Pi * float64(k) / float64(oceanSearchAzimuths)
			sx := x + r*math.Cos(angle)
			sz := z + r*math.Sin(angle)
			if isWater(sx, sz, seed, t) {
				length := math.Hypot(sx-x, sz-z)
				if length < 1e-9 {
					return 0, 1
				}
				return (sx - x) / length, (sz - z) / length
			}
		}
	}
	return 0, 1
}

func normalize(x, z float64) (float64, float64) {
	length := math.Hypot(x, z)
	if length < 1e-9 {
		return 0, 0
	}
	return x / length, z / length
}

// trace implements the downhill trace: central-difference
// gradient steering blended with a precomputed ocean-bias direction, with a
// stuck counter that progressively hands control to the ocean direction (and
// then noise) when the terrain is too flat to descend, meander offset, and a
// monotonic-descent invariant on the recorded elevation.
func trace(seed uint32, sourceIdx int, src source, t *worldtemplate.Template, cfg Config) ([]worldtemplate.Point2, []float64, []float64) {
	stepSeed := hashrng.DeriveSeed(seed, "rivers")

	x, z := src.x, src.z
	currentElevation := src.elevation

	path := []worldtemplate.Point2{{X: x, Z: z}}
	elevations := []float64{currentElevation}

	stuckCounter := 0

	for step := 0; step < cfg.MaxPathLength; step++ {
		eps := cfg.GradientEpsilon
		hLeft := terrain.GetHeightForRiverGen(x-eps, z, seed, t)
		hRight := terrain.GetHeightForRiverGen(x+eps, z, seed, t)
		hBack := terrain.GetHeightForRiverGen(x, z-eps, seed, t)
		hFront := terrain.GetHeightForRiverGen(x, z+eps, seed, t)

		gx := (hRight - hLeft) / (2 * eps)
		gz := (hFront - hBack) / (2 * eps)
		magnitude := math.Hypot(gx, gz)

		descentX, descentZ := normalize(-gx, -gz)
		oceanX, oceanZ := nearestOceanDirection(x, z, seed, t)

		var dirX, dirZ float64
		if magnitude < cfg.MinGradient {
			stuckCounter++
			if stuckCounter > stuckThreshold {
				angle := 2 * math.Pi * hashrng.HashUnit(stepSeed, int32(sourceIdx), int32(step), 0x4e4f4953) // "NOIS"
				noiseX, noiseZ := math.Cos(angle), math.Sin(angle)
				dirX = 0.8*oceanX + 0.2*noiseX
				dirZ = 0.8*oceanZ + 0.2*noiseZ
			} else {
				dirX = 0.4*descentX + 0.6*oceanX
				dirZ = 0.4*descentZ + 0.6*oceanZ
			}
		} else {
			stuckCounter = 0
			dirX = 0.8*descentX + 0.2*oceanX
			dirZ = 0.8*descentZ + 0.2*oceanZ
		}
		dirX, dirZ = normalize(dirX, dirZ)

		flatness := 1 - math.Min(1, 10*magnitude)
		cellX := math.Floor(x / 32)
		cellZ := math.Floor(z / 32)
		meanderAngle := 2 * math.Pi * hashrng.HashUnit(stepSeed+uint32(step), int32(cellX), int32(cellZ), 0x4d454e44) // "MEND"
		meanderX := math.Cos(meanderAngle) * cfg.MeanderStrength * flatness * cfg.StepSize
		meanderZ := math.Sin(meanderAngle) * cfg.MeanderStrength * flatness * cfg.StepSize

		nextX := x + dirX*cfg.StepSize + meanderX
		nextZ := z + dirZ*cfg.StepSize + meanderZ

		lo, hi := t.WorldBounds.Min, t.WorldBounds.Max
		outOfBounds := nextX < lo || nextX > hi || nextZ < lo || nextZ > hi
		if outOfBounds {
			nextX = math.Max(lo, math.Min(hi, nextX))
			nextZ = math.Max(lo, math.Min(hi, nextZ))
		}

		terrainHeight := terrain.GetHeightForRiverGen(nextX, nextZ, seed, t)
		recorded := math.Min(currentElevation, terrainHeight)
		if stuckCounter > 0 {
			recorded = math.Min(recorded, currentElevation-cfg.MinDescentPerStep)
		}

		if terrainHeight < cfg.SeaLevel {
			path = append(path, worldtemplate.Point2{X: nextX, Z: nextZ})
			elevations = append(elevations, cfg.SeaLevel)
			break
		}

		recorded = math.Max(recorded, cfg.SeaLevel)
		path = append(path, worldtemplate.Point2{X: nextX, Z: nextZ})
		elevations = append(elevations, recorded)

		x, z = nextX, nextZ
		currentElevation = recorded

		if outOfBounds {
			break
		}
	}

	widths := widthProfile(path, src.humidity, cfg)
	return path, widths, elevations
}

// widthProfile implements the width formula: width grows with the
// square of downstream fraction, scaled by source humidity and path length.
func widthProfile(path []worldtemplate.Point2, humidity float64, cfg Config) []float64 {
	n := len(path)
	widths := make([]float64, n)
	humidityScale := 0.6 + 0.6*humidity
	lengthScale := math.Min(2.0, 1.0+float64(n)/100)

	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		w := cfg.StreamMinWidth + (cfg.RiverMaxWidth*humidityScale*lengthScale-cfg.StreamMinWidth)*t*t
		widths[i] = math.Round(w*10) / 10
	}
	return widths
}
