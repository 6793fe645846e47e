// Package evaluator implements the template evaluator (spec component D):
// the function that converts a world-space point and a continent template
// into the shape/elevation modifiers the terrain sampler composes with noise.
//
// Two disjoint shape regimes exist — spine-first and legacy radial — modeled
// as a tagged sum resolved once via worldtemplate.HasSpineFirstGeneration
// rather than re-detected per sample.
package evaluator

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// Modifiers is the evaluator's output: four scalars in [0, 1] (mountainBoost
// and ridgeWeight can be thought of as bounded-but-not-strictly-normalized
// boosts; §4.D's post-condition multiplies both by shapeMask so they vanish
// in open ocean).
type Modifiers struct {
	ShapeMask           float64
	ElevationMultiplier float64
	MountainBoost       float64
	RidgeWeight         float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Evaluate computes the modifiers at world coordinates (x, z) for template t.
func Evaluate(x, z float64, t *worldtemplate.Template) Modifiers {
	nx := 0.5 + (x-t.Shape.CenterX)/(2*t.Shape.Radius)
	nz := 0.5 + (z-t.Shape.CenterZ)/(2*t.Shape.Radius)
	distanceFromCenter := math.Hypot(x-t.Shape.CenterX, z-t.Shape.CenterZ)

	var mods Modifiers
	if worldtemplate.HasSpineFirstGeneration(t) {
		mods = evaluateSpineFirst(nx, nz, t)
	} else {
		mods = evaluateLegacyRadial(nx, nz, distanceFromCenter, t.Shape.Radius, t)
	}

	boundary := applyShapeMask(distanceFromCenter, t.Shape.Radius, t.Shape.FalloffSharpness)
	mods.ShapeMask *= boundary

	// No mountains in open ocean.
	mods.MountainBoost *= mods.ShapeMask
	mods.RidgeWeight *= mods.ShapeMask

	mods.ShapeMask = clamp01(mods.ShapeMask)
	mods.ElevationMultiplier = clamp01(mods.ElevationMultiplier)
	mods.MountainBoost = clamp01(mods.MountainBoost)
	mods.RidgeWeight = clamp01(mods.RidgeWeight)
	return mods
}

// applyShapeMask is the legacy world-boundary radial falloff, applied
// unconditionally (spine-first templates are still bounded by the world
// square): 1.0 inside radius*(0.5 - 0.3*sharpness), smoothstep to 0 at
// radius, 0 beyond.
func applyShapeMask(distanceFromCenter, radius, sharpness float64) float64 {
	if radius <= 0 {
		return 0
	}
	inner := radius * (0.5 - 0.3*sharpness)
	if inner < 0 {
		inner = 0
	}
	if distanceFromCenter <= inner {
		return 1
	}
	if distanceFromCenter >= radius {
		return 0
	}
	return 1 - smoothstep(inner, radius, distanceFromCenter)
}
