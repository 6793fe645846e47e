package evaluator

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

type point = worldtemplate.Point2

// projectOntoSegment returns the closest point on segment [a,b] to p, the
// clamped parametric t in [0,1], and the distance from p to that point.
func projectOntoSegment(p, a, b point) (closest point, t, dist float64) {
	dx := b.X - a.X
	dz := b.Z - a.Z
	lenSq := dx*dx + dz*dz
	if lenSq < 1e-18 {
		return a, 0, math.Hypot(p.X-a.X, p.Z-a.Z)
	}
	t = ((p.X-a.X)*dx + (p.Z-a.Z)*dz) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest = point{X: a.X + t*dx, Z: a.Z + t*dz}
	dist = math.Hypot(p.X-closest.X, p.Z-closest.Z)
	return closest, t, dist
}

// nearestSpineHit is the result of searching every segment of every spine for
// the one nearest a query point.
type nearestSpineHit struct {
	found       bool
	distance    float64
	nearestPt   point
	elevation   float64
	width       float64
	spineStart  point
	spineEnd    point
	distToEndpt float64
}

// findNearestSegment scans every segment of every spine (primary ∪
// secondary) and returns the closest hit.
func findNearestSegment(query point, spines []worldtemplate.SpinePath) nearestSpineHit {
	best := nearestSpineHit{distance: math.Inf(1)}

	for _, spine := range spines {
		pts := spine.Points
		if len(pts) < 2 {
			continue
		}
		for i := 0; i < len(pts)-1; i++ {
			closest, _, dist := projectOntoSegment(query, pts[i], pts[i+1])
			if dist < best.distance {
				best.found = true
				best.distance = dist
				best.nearestPt = closest
				best.elevation = spine.Elevation
				best.width = spine.DefaultWidth()
				best.spineStart = pts[0]
				best.spineEnd = pts[len(pts)-1]
			}
		}
	}

	if best.found {
		dStart := math.Hypot(query.X-best.spineStart.X, query.Z-best.spineStart.Z)
		dEnd := math.Hypot(query.X-best.spineEnd.X, query.Z-best.spineEnd.Z)
		best.distToEndpt = math.Min(dStart, dEnd)
	}
	return best
}

func dot(a, b point) float64 {
	return a.X*b.X + a.Z*b.Z
}

func sub(a, b point) point {
	return point{X: a.X - b.X, Z: a.Z - b.Z}
}

// isInnerSide determines whether query is on the inner side (toward
// innerRef) of the nearest spine segment: the dot
// product of (innerRef - nearestPoint) and (query - nearestPoint).
func isInnerSide(query, innerRef, nearestPt point) bool {
	return dot(sub(innerRef, nearestPt), sub(query, nearestPt)) > 0
}
