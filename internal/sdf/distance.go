package sdf

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PolylineDistance returns the minimum distance from p to any of the given
// polylines, via orb/planar's segment-projection distance, along with the
// index of the nearest polyline and the clamped parametric position on its
// nearest segment (0 at the first point, 1 at the last).
func PolylineDistance(p orb.Point, lines []orb.LineString) (dist float64, lineIdx int, segT float64) {
	dist = math.Inf(1)
	lineIdx = -1

	for li, line := range lines {
		for i := 0; i < len(line)-1; i++ {
			a, b := line[i], line[i+1]
			d := planar.DistanceFromSegment(a, b, p)
			if d < dist {
				dist = d
				lineIdx = li
				segT = segmentParam(a, b, p)
			}
		}
	}
	return dist, lineIdx, segT
}

func segmentParam(a, b, p orb.Point) float64 {
	dx, dz := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dz*dz
	if lenSq < 1e-18 {
		return 0
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dz) / lenSq
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// PolygonSignedDistance returns the minimum distance from p to polygon's
// boundary, negated when p lies inside the polygon (per orb/planar's
// point-in-polygon test), so the field is negative inside and positive
// outside.
func PolygonSignedDistance(p orb.Point, polygon orb.Polygon) float64 {
	minDist := math.Inf(1)
	for _, ring := range polygon {
		for i := 0; i < len(ring)-1; i++ {
			d := planar.DistanceFromSegment(ring[i], ring[i+1], p)
			if d < minDist {
				minDist = d
			}
		}
	}
	if planar.PolygonContains(polygon, p) {
		return -minDist
	}
	return minDist
}

// encodeDirection encodes a flow-direction vector (dx, dz) into [0,1) as
// (atan2(dx,dz)/2π + 1) mod 1, matching hydro_sdf channel B: a segment
// flowing in +x encodes to 0.25, +z encodes to 0 (wrapping), measuring the
// angle from the +z axis rather than +x.
func encodeDirection(dx, dz float64) float64 {
	a := math.Atan2(dx, dz)/(2*math.Pi) + 1
	return math.Mod(a, 1)
}
