package zone

import (
	"math"
	"sort"
)

const influenceCellSize = 256.0

// Influence pairs a zone with its strength at a queried position.
type Influence struct {
	Zone     *Zone
	Strength float64
}

// Index is a lazily-built spatial index bucketing zones by the 256-block
// cells their influence circle overlaps, so a position query only scans a
// handful of candidate zones instead of the whole map.
type Index struct {
	buckets map[[2]int][]*Zone
	built   bool
	zones   map[string]*Zone
}

// NewIndex wraps a zone map; the bucket grid is built lazily on first query.
func NewIndex(zones map[string]*Zone) *Index {
	return &Index{zones: zones}
}

func (idx *Index) ensureBuilt() {
	if idx.built {
		return
	}
	idx.buckets = make(map[[2]int][]*Zone)
	for _, z := range idx.zones {
		minX, maxX := z.Center.X-z.Radius, z.Center.X+z.Radius
		minZ, maxZ := z.Center.Z-z.Radius, z.Center.Z+z.Radius
		bxLo := int(math.Floor(minX / influenceCellSize))
		bxHi := int(math.Floor(maxX / influenceCellSize))
		bzLo := int(math.Floor(minZ / influenceCellSize))
		bzHi := int(math.Floor(maxZ / influenceCellSize))
		for bx := bxLo; bx <= bxHi; bx++ {
			for bz := bzLo; bz <= bzHi; bz++ {
				key := [2]int{bx, bz}
				idx.buckets[key] = append(idx.buckets[key], z)
			}
		}
	}
	idx.built = true
}

// influence is the falloff curve: 1 until half the radius, then a
// smoothstep to 0 at the full radius.
func influence(x, z float64, zone *Zone) float64 {
	dist := math.Hypot(x-zone.Center.X, z-zone.Center.Z)
	ratio := dist / zone.Radius
	if ratio >= 1 {
		return 0
	}
	t := (ratio - 0.5) / 0.5
	if t <= 0 {
		return 1
	}
	return 1 - t*t*(3-2*t)
}

// At scans the 3x3 block of index cells covering (x, z) and returns every
// zone with positive influence there, sorted by descending strength.
func (idx *Index) At(x, z float64) []Influence {
	idx.ensureBuilt()

	bx := int(math.Floor(x / influenceCellSize))
	bz := int(math.Floor(z / influenceCellSize))

	seen := make(map[string]bool)
	var out []Influence
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for _, zn := range idx.buckets[[2]int{bx + di, bz + dj}] {
				if seen[zn.GridKey] {
					continue
				}
				seen[zn.GridKey] = true
				if strength := influence(x, z, zn); strength > 0 {
					out = append(out, Influence{Zone: zn, Strength: strength})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	return out
}
