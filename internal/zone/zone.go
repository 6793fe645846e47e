// Package zone implements the zone discoverer (component H): anchor
// placement for havens, lakes, and mountain passes; procedural grid fill
// classifying the remainder of the landmass; 8-connected adjacency; and a
// lazy spatial-influence index for O(1)-ish zone lookups by position.
package zone

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

const (
	gridCellSize = 800.0
	zoneRadius   = 400.0
)

// Type is a zone's gameplay classification.
type Type string

const (
	Haven       Type = "haven"
	Crossroads  Type = "crossroads"
	Borderlands Type = "borderlands"
	Wilderness  Type = "wilderness"
	MountainsZ  Type = "mountains"
	Coast       Type = "coast"
	Forest      Type = "forest"
	Desert      Type = "desert"
	OceanZone   Type = "ocean"
)

// Feel bundles a zone's atmosphere knobs.
type Feel struct {
	Mood      string
	Openness  float64
	Danger    float64
}

// Zone is one discovered or procedurally filled map tile.
type Zone struct {
	ID             string
	Name           string
	Type           Type
	Center         worldtemplate.Point2
	GridKey        string
	Radius         float64
	LevelMin       int
	LevelMax       int
	Feel           Feel
	AdjacentZones  []string
}

// Discover runs every zone-discovery phase and returns the finished zone
// map, keyed by gridKey.
func Discover(seed uint32, t *worldtemplate.Template) map[string]*Zone {
	zones := make(map[string]*Zone)

	haven := findHaven(seed, t)
	if haven != nil {
		zones[haven.GridKey] = haven
	}

	for _, lake := range findLakes(seed, t, zones) {
		if _, claimed := zones[lake.GridKey]; !claimed {
			zones[lake.GridKey] = lake
		}
	}

	for _, pass := range findPasses(seed, t, zones) {
		if _, claimed := zones[pass.GridKey]; !claimed {
			zones[pass.GridKey] = pass
		}
	}

	fillProcedural(seed, t, zones, haven)
	computeAdjacency(zones)
	return zones
}

func gridKey(x, z float64) string {
	gx := math.Floor(x / gridCellSize)
	gz := math.Floor(z / gridCellSize)
	return formatKey(int(gx), int(gz))
}

func formatKey(gx, gz int) string {
	return intToStr(gx) + "," + intToStr(gz)
}

func intToStr(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func cellCenter(gx, gz int) (float64, float64) {
	return (float64(gx) + 0.5) * gridCellSize, (float64(gz) + 0.5) * gridCellSize
}

// coastSearchLimit bounds how far coastProximity looks for water before
// reporting zero proximity. This constant isn't pinned to any named value; 800 blocks
// (one grid cell) is chosen so proximity meaningfully varies within a
// single zone-sized area.
const coastSearchLimit = 800.0

var coastAzimuths = 12

// coastProximity returns 1 at the shoreline, decaying to 0 by
// coastSearchLimit blocks inland (or out to sea).
func coastProximity(x, z float64, seed uint32, t *worldtemplate.Template) float64 {
	radii := []float64{50, 100, 200, 400, 600, 800}
	p := terrain.Sample(x, z, seed, t)
	here := p.WaterType != terrain.WaterNone

	best := math.Inf(1)
	for _, r := range radii {
		for k := 0; k < coastAzimuths; k++ {
			angle := 2 * math.Pi * float64(k) / float64(coastAzimuths)
			sx := x + r*math.Cos(angle)
			sz := z + r*math.Sin(angle)
			sample := terrain.Sample(sx, sz, seed, t)
			isWater := sample.WaterType != terrain.WaterNone
			if isWater != here {
				if r < best {
					best = r
				}
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return 1 - math.Min(1, best/coastSearchLimit)
}
