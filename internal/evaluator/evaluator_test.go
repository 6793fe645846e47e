package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

func featurelessLegacyTemplate() *worldtemplate.Template {
	return &worldtemplate.Template{
		Name:        "featureless",
		WorldBounds: worldtemplate.Bounds{Min: -2000, Max: 2000},
		Shape:       worldtemplate.Shape{CenterX: 0, CenterZ: 0, Radius: 1000, FalloffSharpness: 0.5},
	}
}

func straightSpineTemplate() *worldtemplate.Template {
	return &worldtemplate.Template{
		Name:        "straight",
		WorldBounds: worldtemplate.Bounds{Min: -2000, Max: 2000},
		Shape:       worldtemplate.Shape{CenterX: 0, CenterZ: 0, Radius: 1000, FalloffSharpness: 0.5},
		Spine: worldtemplate.SpinePath{
			Points:    []worldtemplate.Point2{{X: 0.2, Z: 0.5}, {X: 0.8, Z: 0.5}},
			Elevation: 0.9,
			Width:     0.05,
		},
		LandExtent: worldtemplate.LandExtent{Inner: 0.2, Outer: 0.2},
	}
}

func TestEvaluateFeaturelessTemplateAtCenter(t *testing.T) {
	tpl := featurelessLegacyTemplate()
	mods := Evaluate(tpl.Shape.CenterX, tpl.Shape.CenterZ, tpl)
	assert.InDelta(t, 1.0, mods.ShapeMask, 1e-9)
	assert.Equal(t, 0.0, mods.MountainBoost)
}

func TestEvaluateShapeMaskVanishesBeyondRadius(t *testing.T) {
	tpl := featurelessLegacyTemplate()
	mods := Evaluate(tpl.Shape.CenterX+tpl.Shape.Radius*2, tpl.Shape.CenterZ, tpl)
	assert.Equal(t, 0.0, mods.ShapeMask)
}

func TestEvaluateSpineFirstMountainBoostNearSpine(t *testing.T) {
	tpl := straightSpineTemplate()
	// World point corresponding to normalized (0.5, 0.5): on the spine itself,
	// well clear of either endpoint.
	x := tpl.Shape.CenterX + (0.5-0.5)*2*tpl.Shape.Radius
	z := tpl.Shape.CenterZ + (0.5-0.5)*2*tpl.Shape.Radius
	mods := Evaluate(x, z, tpl)
	assert.Greater(t, mods.MountainBoost, 0.9*tpl.Spine.Elevation)
	assert.GreaterOrEqual(t, mods.ShapeMask, 0.9)
}

func TestEvaluateSpineFirstLandExtentFalloff(t *testing.T) {
	tpl := straightSpineTemplate()
	// Half a unit off to the side of the spine's midpoint: beyond LandExtent
	// and outside both endpoint caps, so the point is water.
	nx, nz := 0.5, 0.5+0.5
	x := tpl.Shape.CenterX + (nx-0.5)*2*tpl.Shape.Radius
	z := tpl.Shape.CenterZ + (nz-0.5)*2*tpl.Shape.Radius
	mods := Evaluate(x, z, tpl)
	assert.Less(t, mods.ShapeMask, 0.5)
}

func TestEvaluateLegacyBayCarvesShapeMask(t *testing.T) {
	tpl := featurelessLegacyTemplate()
	tpl.Features.HasBay = true
	bay := worldtemplate.Point2{X: 0.5, Z: 0.5}
	tpl.BayCenter = &bay
	mods := Evaluate(tpl.Shape.CenterX, tpl.Shape.CenterZ, tpl)
	assert.Less(t, mods.ShapeMask, 1.0)
}

func TestEvaluateLegacyMountainBoostRegion(t *testing.T) {
	tpl := featurelessLegacyTemplate()
	tpl.Elevation.MountainBoost = &worldtemplate.MountainBoost{
		Region:      &worldtemplate.RegionRef{CenterX: 0.5, CenterZ: 0.5, Radius: 0.1},
		Strength:    0.8,
		RidgeWeight: 0.5,
	}
	mods := Evaluate(tpl.Shape.CenterX, tpl.Shape.CenterZ, tpl)
	assert.Greater(t, mods.MountainBoost, 0.0)

	far := Evaluate(tpl.Shape.CenterX+tpl.Shape.Radius*0.9, tpl.Shape.CenterZ, tpl)
	assert.Equal(t, 0.0, far.MountainBoost)
}

func TestEvaluateLegacyFlattenRegionReducesElevationMultiplier(t *testing.T) {
	tpl := featurelessLegacyTemplate()
	tpl.Elevation.FlattenRegion = &worldtemplate.FlattenRegion{
		Region:   &worldtemplate.RegionRef{CenterX: 0.5, CenterZ: 0.5, Radius: 0.2},
		Flatness: 0.7,
	}
	mods := Evaluate(tpl.Shape.CenterX, tpl.Shape.CenterZ, tpl)
	assert.Less(t, mods.ElevationMultiplier, 1.0)
}

func TestEvaluateModifiersAlwaysInUnitRange(t *testing.T) {
	tpl := straightSpineTemplate()
	for _, x := range []float64{-1500, -500, 0, 500, 1500} {
		for _, z := range []float64{-1500, -500, 0, 500, 1500} {
			mods := Evaluate(x, z, tpl)
			assert.GreaterOrEqual(t, mods.ShapeMask, 0.0)
			assert.LessOrEqual(t, mods.ShapeMask, 1.0)
			assert.GreaterOrEqual(t, mods.MountainBoost, 0.0)
			assert.LessOrEqual(t, mods.MountainBoost, 1.0)
		}
	}
}
