// Package worldtemplate defines the designer-authored continent template:
// the immutable, normalized-space description of a landmass's spine,
// extent, and climate that the evaluator and terrain sampler consume.
package worldtemplate

import "math"

// Point2 is a normalized-space (or, where documented, world-space) 2D point.
type Point2 struct {
	X, Z float64
}

// Bounds is a square world-space bounding region.
type Bounds struct {
	Min, Max float64
}

// Size returns Max - Min.
func (b Bounds) Size() float64 {
	return b.Max - b.Min
}

// Shape describes the legacy radial falloff region. Unlike spine points,
// CenterX/CenterZ/Radius are in WORLD units (they are typically derived from
// WorldBounds) since they are the affine transform the evaluator uses to map
// a world point into the template's normalized authoring space.
type Shape struct {
	CenterX, CenterZ float64
	Radius           float64
	FalloffSharpness float64
}

// SpinePath is one polyline in normalized space, with an associated peak
// elevation and optional width override.
type SpinePath struct {
	Points    []Point2
	Elevation float64
	Width     float64 // 0 means "use the default width"
}

// DefaultWidth returns Width, or a sane default if unset.
func (s SpinePath) DefaultWidth() float64 {
	if s.Width > 0 {
		return s.Width
	}
	return 0.05
}

// LandExtent bounds how far land extends perpendicular to a spine, by side.
type LandExtent struct {
	Inner, Outer float64
}

// ClimateGradient is the direction and strength of the latitude-like
// temperature gradient.
type ClimateGradient struct {
	Direction Point2
	Strength  float64
}

// Climate bundles climate authoring knobs.
type Climate struct {
	TemperatureGradient ClimateGradient
	BaseHumidity        float64
	ExcludedBiomes      []string
}

// RegionRef optionally restricts an elevation modifier to a sub-area; nil
// means "applies everywhere on land".
type RegionRef struct {
	CenterX, CenterZ float64
	Radius           float64
}

// MountainBoost configures a region-local elevation and ridge boost for the
// legacy radial path.
type MountainBoost struct {
	Region      *RegionRef
	Strength    float64
	RidgeWeight float64
}

// FlattenRegion configures a region-local flattening for the legacy radial
// path.
type FlattenRegion struct {
	Region   *RegionRef
	Flatness float64
}

// Elevation bundles the legacy radial path's elevation modifiers.
type Elevation struct {
	MountainBoost *MountainBoost
	FlattenRegion *FlattenRegion
}

// Features flags optional legacy shape carving.
type Features struct {
	HasBay         bool
	HasLake        bool
	HasLegacySpine bool
}

// Template is the complete, immutable generation input besides the seed.
type Template struct {
	Name        string
	WorldBounds Bounds

	Shape Shape

	Spine           SpinePath
	SecondarySpines []SpinePath

	LandExtent LandExtent
	BayCenter  *Point2

	Climate Climate

	Elevation Elevation
	Features  Features
}

// HasSpineFirstGeneration reports whether the template has enough primary
// spine geometry to use the spine-first evaluator path rather than the
// legacy radial path. The discriminator is resolved once here rather than
// re-detected per-sample.
func HasSpineFirstGeneration(t *Template) bool {
	return len(t.Spine.Points) >= 2
}

// NormalizedGradient returns dir normalized, or the default north-south
// direction (0, 1) if dir is the zero vector.
func NormalizedGradient(dir Point2) Point2 {
	length := math.Hypot(dir.X, dir.Z)
	if length < 1e-9 {
		return Point2{X: 0, Z: 1}
	}
	return Point2{X: dir.X / length, Z: dir.Z / length}
}

// AllSpines returns the primary spine (if it has points) followed by every
// secondary spine.
func (t *Template) AllSpines() []SpinePath {
	var out []SpinePath
	if len(t.Spine.Points) > 0 {
		out = append(out, t.Spine)
	}
	out = append(out, t.SecondarySpines...)
	return out
}

// Centroid returns the mean of every point across every spine, used as the
// bayCenter fallback ("inner side" reference) when the template has no
// explicit bay.
func (t *Template) Centroid() Point2 {
	var sumX, sumZ float64
	n := 0
	for _, spine := range t.AllSpines() {
		for _, p := range spine.Points {
			sumX += p.X
			sumZ += p.Z
			n++
		}
	}
	if n == 0 {
		return Point2{X: 0.5, Z: 0.5}
	}
	return Point2{X: sumX / float64(n), Z: sumZ / float64(n)}
}

// InnerReference returns the template's bay center, or the spine centroid if
// no bay center is set.
func (t *Template) InnerReference() Point2 {
	if t.BayCenter != nil {
		return *t.BayCenter
	}
	return t.Centroid()
}
