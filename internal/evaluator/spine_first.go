package evaluator

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// evaluateSpineFirst implements the spine-first shape regime: land is
// whatever lies within LandExtent of the nearest point on any spine, with a
// circular cap past each spine's endpoints rather than a hard cutoff.
func evaluateSpineFirst(nx, nz float64, t *worldtemplate.Template) Modifiers {
	query := worldtemplate.Point2{X: nx, Z: nz}
	hit := findNearestSegment(query, t.AllSpines())
	if !hit.found {
		return Modifiers{}
	}

	inner := isInnerSide(query, t.InnerReference(), hit.nearestPt)
	maxExtentBySide := t.LandExtent.Outer
	if inner {
		maxExtentBySide = t.LandExtent.Inner
	}

	maxExtent := math.Max(t.LandExtent.Inner, t.LandExtent.Outer)
	endpointCap := 1.2 * maxExtent

	var shapeMask float64
	if hit.distToEndpt < endpointCap {
		// Near a spine endpoint: round the coastline with a circular cap
		// instead of squaring it off at the segment's own land extent.
		shapeMask = 1 - smoothstep(0.6*endpointCap, endpointCap, hit.distToEndpt)
	} else {
		shapeMask = 1 - smoothstep(0.7*maxExtentBySide, maxExtentBySide, hit.distance)
	}

	sigma := 1.5 * hit.width
	boost := hit.elevation * math.Exp(-(hit.distance*hit.distance)/(2*sigma*sigma))

	return Modifiers{
		ShapeMask:           shapeMask,
		ElevationMultiplier: shapeMask,
		MountainBoost:       boost,
		RidgeWeight:         boost * 0.6,
	}
}
