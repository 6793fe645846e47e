package evaluator

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// evaluateLegacyRadial implements the legacy shape regime: a plain
// radial island (handled by the caller's applyShapeMask) optionally carved by
// a bay, boosted by region-local mountain ranges, and flattened by
// region-local plateaus. RegionRef centers live in the same normalized [0,1]^2
// space as spine points and bayCenter.
func evaluateLegacyRadial(nx, nz, distanceFromCenter, radius float64, t *worldtemplate.Template) Modifiers {
	mods := Modifiers{ShapeMask: 1, ElevationMultiplier: 1}

	if t.Features.HasBay && t.BayCenter != nil {
		mods.ShapeMask *= carveBay(nx, nz, *t.BayCenter)
	}

	if mb := t.Elevation.MountainBoost; mb != nil {
		weight := regionWeight(nx, nz, mb.Region)
		mods.MountainBoost += weight * mb.Strength
		mods.RidgeWeight += weight * mb.RidgeWeight
	}

	if fr := t.Elevation.FlattenRegion; fr != nil {
		weight := regionWeight(nx, nz, fr.Region)
		mods.ElevationMultiplier *= 1 - weight*fr.Flatness
	}

	if t.Features.HasLegacySpine && len(t.Spine.Points) >= 2 {
		mods.MountainBoost += applySpineBoost(nx, nz, t.Spine)
		mods.RidgeWeight += applySpineBoost(nx, nz, t.Spine) * 0.6
	}

	return mods
}

// carveBay returns a shapeMask multiplier in [0.3, 1]: capped at 70% carving
// depth at the bay center (per spec, a bay never fully severs the coastline),
// smoothstepping back to 1 by 2x the carve radius.
func carveBay(nx, nz float64, bayCenter worldtemplate.Point2) float64 {
	const carveRadius = 0.15
	const maxCarveDepth = 0.7
	dist := math.Hypot(nx-bayCenter.X, nz-bayCenter.Z)
	taper := 1 - smoothstep(carveRadius, carveRadius*2, dist)
	return 1 - maxCarveDepth*taper
}

// applySpineBoost is the legacy path's Gaussian perpendicular-distance
// mountain boost: sigma is a fixed 0.1 in normalized space rather than
// scaled by the spine's own width, since this path's spine is a coarse
// directional hint, not a precise ridgeline.
func applySpineBoost(nx, nz float64, spine worldtemplate.SpinePath) float64 {
	const sigma = 0.1
	hit := findNearestSegment(worldtemplate.Point2{X: nx, Z: nz}, []worldtemplate.SpinePath{spine})
	if !hit.found {
		return 0
	}
	return hit.elevation * math.Exp(-(hit.distance*hit.distance)/(2*sigma*sigma))
}

// regionWeight returns 1 inside region, smoothstepping to 0 over a 5%-wide
// (of the region radius) boundary band, and 1 everywhere when region is nil
// (an elevation modifier with no region applies to the whole landmass).
func regionWeight(nx, nz float64, region *worldtemplate.RegionRef) float64 {
	if region == nil {
		return 1
	}
	dist := math.Hypot(nx-region.CenterX, nz-region.CenterZ)
	band := region.Radius * 0.05
	return 1 - smoothstep(region.Radius-band, region.Radius, dist)
}
