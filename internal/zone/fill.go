package zone

import (
	"fmt"
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

var prefixes = map[Type][]string{
	Wilderness:  {"Whispering", "Lonely", "Drifting", "Silent"},
	Borderlands: {"Fading", "Restless", "Worn", "Shifting"},
	Forest:      {"Emerald", "Mossy", "Shaded", "Verdant"},
	Desert:      {"Scorched", "Dusty", "Sunbaked", "Crimson"},
	MountainsZ:  {"Jagged", "Frostbitten", "Towering", "Broken"},
	Coast:       {"Glimmering", "Salt", "Windswept", "Misty"},
	OceanZone:   {"Deep", "Endless", "Churning", "Pale"},
	Crossroads:  {"Trader's", "Wanderer's", "Common", "Old"},
}

var suffixes = map[Type][]string{
	Wilderness:  {"Expanse", "Reach", "Flats", "Wilds"},
	Borderlands: {"Marches", "Frontier", "Verge", "Edge"},
	Forest:      {"Wood", "Glade", "Thicket", "Grove"},
	Desert:      {"Wastes", "Dunes", "Barrens", "Flats"},
	MountainsZ:  {"Heights", "Ridge", "Crags", "Spire"},
	Coast:       {"Shore", "Cove", "Bay", "Strand"},
	OceanZone:   {"Deep", "Reach", "Swell", "Expanse"},
	Crossroads:  {"Crossing", "Waypoint", "Junction", "Rest"},
}

func nameFor(seed uint32, t Type, gx, gz int) string {
	pfx := prefixes[t]
	sfx := suffixes[t]
	if len(pfx) == 0 || len(sfx) == 0 {
		return string(t)
	}
	pfxIdx := hashrng.RandomInt(hashrng.Hash32(seed, int32(gx), int32(gz), 0x4e414d50), 0, len(pfx)) // "NAMP"
	sfxIdx := hashrng.RandomInt(hashrng.Hash32(seed, int32(gx), int32(gz), 0x4e414d53), 1, len(sfx)) // "NAMS"
	return pfx[pfxIdx] + " " + sfx[sfxIdx]
}

func biomeToZoneType(b terrain.Biome) Type {
	switch b {
	case terrain.Ocean:
		return OceanZone
	case terrain.Beach:
		return Coast
	case terrain.Desert, terrain.RedDesert, terrain.Badlands, terrain.Volcanic:
		return Desert
	case terrain.Swamp, terrain.Jungle, terrain.Rainforest, terrain.DeciduousForest, terrain.AutumnForest, terrain.Taiga:
		return Forest
	case terrain.Mountains, terrain.Alpine, terrain.Highlands, terrain.Glacier:
		return MountainsZ
	case terrain.Snow, terrain.Tundra:
		return Borderlands
	case terrain.Plains, terrain.Meadow, terrain.Savanna:
		return Wilderness
	default:
		return Wilderness
	}
}

func levelRangeFor(distFromHaven, height float64) (int, int) {
	var lo, hi int
	switch {
	case distFromHaven < 500:
		lo, hi = 1, 5
	case distFromHaven < 1000:
		lo, hi = 5, 10
	case distFromHaven < 1500:
		lo, hi = 10, 15
	default:
		lo, hi = 15, 20
	}
	bonus := int(math.Floor(3 * height))
	lo += bonus
	hi += bonus
	if lo > 20 {
		lo = 20
	}
	if hi > 20 {
		hi = 20
	}
	return lo, hi
}

const fillGridStep = gridCellSize
const landRatioThreshold = 0.3

// fillProcedural classifies every unclaimed 800-block grid cell whose 3x3
// neighborhood land ratio (sampled at each neighbor's center) is at least
// landRatioThreshold.
func fillProcedural(seed uint32, t *worldtemplate.Template, zones map[string]*Zone, haven *Zone) {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max
	gxLo := int(math.Floor(lo / gridCellSize))
	gxHi := int(math.Ceil(hi / gridCellSize))

	for gx := gxLo; gx < gxHi; gx++ {
		for gz := gxLo; gz < gxHi; gz++ {
			key := formatKey(gx, gz)
			if _, claimed := zones[key]; claimed {
				continue
			}

			cx, cz := cellCenter(gx, gz)
			if cx < lo || cx > hi || cz < lo || cz > hi {
				continue
			}

			landCount := 0
			for di := -1; di <= 1; di++ {
				for dj := -1; dj <= 1; dj++ {
					nx, nz := cellCenter(gx+di, gz+dj)
					if terrain.Sample(nx, nz, seed, t).WaterType == terrain.WaterNone {
						landCount++
					}
				}
			}
			landRatio := float64(landCount) / 9
			if landRatio < landRatioThreshold {
				continue
			}

			p := terrain.Sample(cx, cz, seed, t)
			zoneType := biomeToZoneType(p.Biome)

			distFromHaven := math.Inf(1)
			if haven != nil {
				distFromHaven = math.Hypot(cx-haven.Center.X, cz-haven.Center.Z)
			}
			levelMin, levelMax := levelRangeFor(distFromHaven, p.HeightNormalized)

			zones[key] = &Zone{
				ID:       fmt.Sprintf("zone-%s", key),
				Name:     nameFor(seed, zoneType, gx, gz),
				Type:     zoneType,
				Center:   worldtemplate.Point2{X: cx, Z: cz},
				GridKey:  key,
				Radius:   zoneRadius,
				LevelMin: levelMin,
				LevelMax: levelMax,
				Feel:     feelFor(zoneType),
			}
		}
	}
}

func feelFor(t Type) Feel {
	switch t {
	case OceanZone:
		return Feel{Mood: "vast", Openness: 1.0, Danger: 0.4}
	case Desert:
		return Feel{Mood: "harsh", Openness: 0.8, Danger: 0.5}
	case Forest:
		return Feel{Mood: "close", Openness: 0.3, Danger: 0.4}
	case MountainsZ:
		return Feel{Mood: "imposing", Openness: 0.4, Danger: 0.6}
	case Coast:
		return Feel{Mood: "open", Openness: 0.7, Danger: 0.3}
	case Borderlands:
		return Feel{Mood: "bleak", Openness: 0.6, Danger: 0.5}
	default:
		return Feel{Mood: "open", Openness: 0.6, Danger: 0.3}
	}
}

// computeAdjacency wires each zone's 8-connected grid-cell neighbors, if
// they exist in the map.
func computeAdjacency(zones map[string]*Zone) {
	for key, z := range zones {
		gx, gz := parseKey(key)
		var adj []string
		for di := -1; di <= 1; di++ {
			for dj := -1; dj <= 1; dj++ {
				if di == 0 && dj == 0 {
					continue
				}
				nk := formatKey(gx+di, gz+dj)
				if _, ok := zones[nk]; ok {
					adj = append(adj, nk)
				}
			}
		}
		z.AdjacentZones = adj
	}
}

func parseKey(key string) (int, int) {
	var gx, gz int
	var sign1, sign2 int = 1, 1
	i := 0
	if i < len(key) && key[i] == '-' {
		sign1 = -1
		i++
	}
	for i < len(key) && key[i] != ',' {
		gx = gx*10 + int(key[i]-'0')
		i++
	}
	i++ // skip comma
	if i < len(key) && key[i] == '-' {
		sign2 = -1
		i++
	}
	for i < len(key) {
		gz = gz*10 + int(key[i]-'0')
		i++
	}
	return gx * sign1, gz * sign2
}
