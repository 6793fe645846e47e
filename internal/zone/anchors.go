package zone

import (
	"fmt"
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

const havenGridStep = 128.0

// findHaven samples a 128-block grid for the single best settlement anchor:
// highest score of coast proximity, low ridgeness, and low elevation.
func findHaven(seed uint32, t *worldtemplate.Template) *Zone {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max

	var best *Zone
	bestScore := math.Inf(-1)

	for x := lo; x < hi; x += havenGridStep {
		for z := lo; z < hi; z += havenGridStep {
			p := terrain.Sample(x, z, seed, t)
			if p.WaterType != terrain.WaterNone {
				continue
			}
			coastProx := coastProximity(x, z, seed, t)
			if coastProx <= 0.2 {
				continue
			}
			score := 0.4*coastProx + 0.3*(1-p.Ridgeness) + 0.3*(1-p.HeightNormalized)
			if score > bestScore {
				bestScore = score
				best = &Zone{
					ID:      "zone-haven",
					Name:    "Haven",
					Type:    Haven,
					Center:  worldtemplate.Point2{X: x, Z: z},
					GridKey: gridKey(x, z),
					Radius:  zoneRadius,
					Feel:    Feel{Mood: "welcoming", Openness: 0.7, Danger: 0.1},
				}
			}
		}
	}
	if best != nil {
		best.LevelMin, best.LevelMax = 1, 3
	}
	return best
}

const lakeGridStep = 64.0
const lakeVisitBucket = 256.0

// findLakes samples a 64-block grid for shallow-water cells whose
// surroundings look like a lake rather than open coastline (at least 4 of 8
// neighbors at 256-block radius are land), deduplicating visits by
// 256-block bucket.
func findLakes(seed uint32, t *worldtemplate.Template, claimed map[string]*Zone) []*Zone {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max
	visited := make(map[string]bool)

	var lakes []*Zone
	id := 0
	for x := lo; x < hi; x += lakeGridStep {
		for z := lo; z < hi; z += lakeGridStep {
			p := terrain.Sample(x, z, seed, t)
			if p.WaterType != terrain.WaterShallow {
				continue
			}
			bucket := fmt.Sprintf("%d,%d", int(math.Floor(x/lakeVisitBucket)), int(math.Floor(z/lakeVisitBucket)))
			if visited[bucket] {
				continue
			}
			visited[bucket] = true

			landNeighbors := 0
			for k := 0; k < 8; k++ {
				angle := 2 * math.Pi * float64(k) / 8
				sx := x + lakeVisitBucket*math.Cos(angle)
				sz := z + lakeVisitBucket*math.Sin(angle)
				if terrain.Sample(sx, sz, seed, t).WaterType == terrain.WaterNone {
					landNeighbors++
				}
			}
			if landNeighbors < 4 {
				continue
			}

			key := gridKey(x, z)
			if _, taken := claimed[key]; taken {
				continue
			}

			lakes = append(lakes, &Zone{
				ID:      fmt.Sprintf("zone-lake-%d", id),
				Name:    "Lakeshore",
				Type:    Coast,
				Center:  worldtemplate.Point2{X: x, Z: z},
				GridKey: key,
				Radius:  zoneRadius,
				LevelMin: 3, LevelMax: 8,
				Feel: Feel{Mood: "tranquil", Openness: 0.6, Danger: 0.2},
			})
			id++
		}
	}
	return lakes
}

const passGridStep = 128.0
const passNeighborStep = 64.0

// findPasses samples a 128-block grid for mountain-biome saddle points:
// cells in the mid elevation band where at least 2 of 4 cardinal neighbors,
// sampled 64 blocks away, are at least 0.1 higher.
func findPasses(seed uint32, t *worldtemplate.Template, claimed map[string]*Zone) []*Zone {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max

	var passes []*Zone
	id := 0
	for x := lo; x < hi; x += passGridStep {
		for z := lo; z < hi; z += passGridStep {
			p := terrain.Sample(x, z, seed, t)
			if !isMountainBiome(p.Biome) {
				continue
			}
			if p.HeightNormalized < 0.35 || p.HeightNormalized > 0.6 {
				continue
			}

			higherCount := 0
			offsets := [4][2]float64{{passNeighborStep, 0}, {-passNeighborStep, 0}, {0, passNeighborStep}, {0, -passNeighborStep}}
			for _, off := range offsets {
				np := terrain.Sample(x+off[0], z+off[1], seed, t)
				if np.HeightNormalized > p.HeightNormalized+0.1 {
					higherCount++
				}
			}
			if higherCount < 2 {
				continue
			}

			key := gridKey(x, z)
			if _, taken := claimed[key]; taken {
				continue
			}

			passes = append(passes, &Zone{
				ID:      fmt.Sprintf("zone-pass-%d", id),
				Name:    "Mountain Pass",
				Type:    MountainsZ,
				Center:  worldtemplate.Point2{X: x, Z: z},
				GridKey: key,
				Radius:  zoneRadius,
				LevelMin: 8, LevelMax: 15,
				Feel: Feel{Mood: "treacherous", Openness: 0.3, Danger: 0.7},
			})
			id++
		}
	}
	return passes
}

func isMountainBiome(b terrain.Biome) bool {
	return b == terrain.Mountains || b == terrain.Alpine || b == terrain.Highlands
}
