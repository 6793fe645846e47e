package spine

import (
	"fmt"
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/noise"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

const (
	blobGridSize       = 100.0
	minBlobCells       = 20
	traceSpacing       = 50.0
	traceWarpFreq      = 0.003
	traceWarpAmplitude = 30.0
	coastSearchLimit   = 200.0
	coastPushMargin    = 50.0
	branchProbability  = 0.4
	branchLengthScale  = 0.4
	branchElevScale    = 0.7
	branchMinAngleDeg  = 30.0
	branchMaxAngleDeg  = 60.0
)

var coastSearchRadii = []float64{50, 100, 150, 200, 250, 300, 350, 400}

type cell struct{ i, j int }

// discoverProcedurally implements the procedural discovery path: sample
// continentalness on a 100-block grid, flood-fill blobs, run PCA per blob,
// trace an organic spine along each blob's principal axis, and branch
// secondaries off interior points.
func discoverProcedurally(seed uint32, t *worldtemplate.Template) []Feature {
	blobs := detectBlobs(seed, t)

	var out []Feature
	for blobID, blobCells := range blobs {
		blobSeed := hashrng.DeriveContinentSeed(hashrng.DeriveSeed(seed, "spines"), uint32(blobID))
		primary := tracePrimary(blobSeed, blobID, blobCells, seed, t)
		if primary == nil {
			continue
		}
		out = append(out, *primary)
		out = append(out, branchSecondaries(blobSeed, primary, seed, t)...)
	}
	return out
}

// detectBlobs samples continentalness on a regular grid, flags land cells,
// and 4-connected flood-fills them into blobs of at least minBlobCells.
func detectBlobs(seed uint32, t *worldtemplate.Template) [][]cell {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max
	n := int(math.Ceil((hi - lo) / blobGridSize))
	if n < 1 {
		return nil
	}

	land := make(map[cell]bool, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cx := lo + (float64(i)+0.5)*blobGridSize
			cz := lo + (float64(j)+0.5)*blobGridSize
			if terrain.Sample(cx, cz, seed, t).Continentalness >= 0.25 {
				land[cell{i, j}] = true
			}
		}
	}

	visited := make(map[cell]bool, len(land))
	var blobs [][]cell
	neighbors := []cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	// Deterministic traversal order: row-major, so blob discovery order
	// (and therefore blob id assignment) doesn't depend on map iteration.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			start := cell{i, j}
			if !land[start] || visited[start] {
				continue
			}
			queue := []cell{start}
			visited[start] = true
			var blob []cell
			for len(queue) > 0 {
				c := queue[0]
				queue = queue[1:]
				blob = append(blob, c)
				for _, d := range neighbors {
					nc := cell{c.i + d.i, c.j + d.j}
					if land[nc] && !visited[nc] {
						visited[nc] = true
						queue = append(queue, nc)
					}
				}
			}
			if len(blob) >= minBlobCells {
				blobs = append(blobs, blob)
			}
		}
	}
	return blobs
}

func cellCenter(c cell, lo float64) (float64, float64) {
	return lo + (float64(c.i)+0.5)*blobGridSize, lo + (float64(c.j)+0.5)*blobGridSize
}

// principalAxis runs a closed-form 2x2 PCA over a blob's cell centers,
// returning the centroid, the unit principal eigenvector, and the
// [minProj, maxProj] range of every cell projected onto that axis.
func principalAxis(blobCells []cell, lo float64) (centroidX, centroidZ, axisX, axisZ, minProj, maxProj float64) {
	n := float64(len(blobCells))
	for _, c := range blobCells {
		cx, cz := cellCenter(c, lo)
		centroidX += cx
		centroidZ += cz
	}
	centroidX /= n
	centroidZ /= n

	var sxx, sxz, szz float64
	for _, c := range blobCells {
		cx, cz := cellCenter(c, lo)
		dx, dz := cx-centroidX, cz-centroidZ
		sxx += dx * dx
		sxz += dx * dz
		szz += dz * dz
	}
	sxx /= n
	sxz /= n
	szz /= n

	theta := 0.5 * math.Atan2(2*sxz, sxx-szz)
	axisX, axisZ = math.Cos(theta), math.Sin(theta)

	minProj, maxProj = math.Inf(1), math.Inf(-1)
	for _, c := range blobCells {
		cx, cz := cellCenter(c, lo)
		proj := (cx-centroidX)*axisX + (cz-centroidZ)*axisZ
		if proj < minProj {
			minProj = proj
		}
		if proj > maxProj {
			maxProj = proj
		}
	}
	return
}

func isOcean(x, z float64, seed uint32, t *worldtemplate.Template) bool {
	return terrain.Sample(x, z, seed, t).WaterType != terrain.WaterNone
}

// nearestOceanDistance scans concentric radii at 12 azimuths and returns the
// smallest radius at which an ocean sample was found, or +Inf.
func nearestOceanDistance(x, z float64, seed uint32, t *worldtemplate.Template, radii []float64, azimuths int) float64 {
	for _, r := range radii {
		for k := 0; k < azimuths; k++ {
			angle := 2 * math.Pi * float64(k) / float64(azimuths)
			sx := x + r*math.Cos(angle)
			sz := z + r*math.Sin(angle)
			if isOcean(sx, sz, seed, t) {
				return r
			}
		}
	}
	return math.Inf(1)
}

func tracePrimary(blobSeed uint32, blobID int, blobCells []cell, worldSeed uint32, t *worldtemplate.Template) *Feature {
	lo := t.WorldBounds.Min
	cx, cz, ax, az, minProj, maxProj := principalAxis(blobCells, lo)
	perpX, perpZ := -az, ax

	startS := 0.9 * minProj
	endS := 0.9 * maxProj
	if endS <= startS {
		return nil
	}

	steps := int(math.Floor((endS - startS) / traceSpacing))
	if steps < 1 {
		return nil
	}

	var rawPoints []struct{ x, z float64 }
	for i := 0; i <= steps; i++ {
		s := startS + float64(i)*traceSpacing
		px := cx + s*ax
		pz := cz + s*az

		warp := noise.WarpedNoise2D(blobSeed, px, pz, 4, traceWarpFreq, 1.0, "spine-warp")
		offset := (warp - 0.5) * 2 * traceWarpAmplitude
		px += perpX * offset
		pz += perpZ * offset

		coastDist := nearestOceanDistance(px, pz, worldSeed, t, coastSearchRadii, 12)
		if coastDist < coastSearchLimit {
			push := coastSearchLimit - coastDist + coastPushMargin
			toCentroidX, toCentroidZ := cx-px, cz-pz
			length := math.Hypot(toCentroidX, toCentroidZ)
			if length > 1e-9 {
				px += toCentroidX / length * push
				pz += toCentroidZ / length * push
			}
			if isOcean(px, pz, worldSeed, t) {
				continue
			}
		}

		rawPoints = append(rawPoints, struct{ x, z float64 }{px, pz})
	}

	if len(rawPoints) < 2 {
		return nil
	}

	n := len(rawPoints)
	path := make([]Point, n)
	for i, p := range rawPoints {
		frac := float64(i) / float64(n-1)
		path[i] = Point{
			X:          p.x,
			Z:          p.z,
			Elevation:  cosineTaper(frac, endElevation, centerElevation),
			Prominence: cosineTaper(frac, minProminence, maxProminence),
		}
	}

	return &Feature{
		ID:        fmt.Sprintf("spine-blob-%d", blobID),
		Type:      Primary,
		Path:      path,
		Direction: liftDirection(path),
	}
}

// branchSecondaries walks the primary path's interior points and, with
// probability branchProbability per point (determined by a per-point hash of
// blobSeed), grows a secondary spine angled off the local tangent.
func branchSecondaries(blobSeed uint32, primary *Feature, worldSeed uint32, t *worldtemplate.Template) []Feature {
	n := len(primary.Path)
	lo := int(math.Ceil(0.2 * float64(n)))
	hi := int(math.Floor(0.8 * float64(n)))

	primaryLength := pathLength(primary.Path)
	branchLength := branchLengthScale * primaryLength

	var out []Feature
	branchIdx := 0
	for i := lo; i < hi; i++ {
		roll := hashrng.HashUnit(blobSeed, int32(i), 0, 0x5350494e) // "SPIN"
		if roll >= branchProbability {
			continue
		}

		tangent := tangentAt(primary.Path, i)
		angleRoll := hashrng.HashUnit(blobSeed, int32(i), 1, 0x5350494e)
		angleDeg := branchMinAngleDeg + angleRoll*(branchMaxAngleDeg-branchMinAngleDeg)
		sideRoll := hashrng.HashUnit(blobSeed, int32(i), 2, 0x5350494e)
		side := 1.0
		if sideRoll < 0.5 {
			side = -1.0
		}
		angle := math.Atan2(tangent.z, tangent.x) + side*angleDeg*math.Pi/180

		dirX, dirZ := math.Cos(angle), math.Sin(angle)
		origin := primary.Path[i]

		branchSeed := hashrng.DeriveContinentSeed(blobSeed, uint32(i))
		feature := traceBranch(branchSeed, branchIdx, origin, dirX, dirZ, branchLength, primary.ID, worldSeed, t)
		if feature != nil {
			out = append(out, *feature)
			branchIdx++
		}
	}
	return out
}

type vec2 struct{ x, z float64 }

func tangentAt(path []Point, i int) vec2 {
	var a, b Point
	switch {
	case i == 0:
		a, b = path[0], path[1]
	case i == len(path)-1:
		a, b = path[i-1], path[i]
	default:
		a, b = path[i-1], path[i+1]
	}
	dx, dz := b.X-a.X, b.Z-a.Z
	length := math.Hypot(dx, dz)
	if length < 1e-9 {
		return vec2{1, 0}
	}
	return vec2{dx / length, dz / length}
}

func pathLength(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += math.Hypot(path[i].X-path[i-1].X, path[i].Z-path[i-1].Z)
	}
	return total
}

func traceBranch(branchSeed uint32, branchIdx int, origin Point, dirX, dirZ, length float64, parentID string, worldSeed uint32, t *worldtemplate.Template) *Feature {
	steps := int(math.Floor(length / traceSpacing))
	if steps < 1 {
		return nil
	}

	var rawPoints []struct{ x, z float64 }
	px, pz := origin.X, origin.Z
	for i := 0; i <= steps; i++ {
		if isOcean(px, pz, worldSeed, t) {
			break
		}
		rawPoints = append(rawPoints, struct{ x, z float64 }{px, pz})
		px += dirX * traceSpacing
		pz += dirZ * traceSpacing
	}

	if len(rawPoints) < 2 {
		return nil
	}

	n := len(rawPoints)
	path := make([]Point, n)
	for i, p := range rawPoints {
		frac := float64(i) / float64(n-1)
		path[i] = Point{
			X:          p.x,
			Z:          p.z,
			Elevation:  cosineTaper(frac, endElevation, centerElevation) * branchElevScale,
			Prominence: cosineTaper(frac, minProminence, maxProminence) * branchElevScale,
		}
	}

	return &Feature{
		ID:        fmt.Sprintf("%s-branch-%d", parentID, branchIdx),
		Type:      Secondary,
		Path:      path,
		Direction: liftDirection(path),
		ParentID:  parentID,
	}
}
