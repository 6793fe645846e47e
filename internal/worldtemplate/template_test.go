package worldtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightSpineTemplate() *Template {
	return &Template{
		Name:        "straight",
		WorldBounds: Bounds{Min: -2000, Max: 2000},
		Shape:       Shape{CenterX: 0.5, CenterZ: 0.5, Radius: 0.5, FalloffSharpness: 0.5},
		Spine: SpinePath{
			Points:    []Point2{{X: 0.2, Z: 0.5}, {X: 0.8, Z: 0.5}},
			Elevation: 0.8,
		},
		LandExtent: LandExtent{Inner: 0.2, Outer: 0.2},
	}
}

func TestHasSpineFirstGeneration(t *testing.T) {
	tpl := straightSpineTemplate()
	assert.True(t, HasSpineFirstGeneration(tpl))

	empty := straightSpineTemplate()
	empty.Spine.Points = nil
	assert.False(t, HasSpineFirstGeneration(empty))

	one := straightSpineTemplate()
	one.Spine.Points = []Point2{{X: 0.5, Z: 0.5}}
	assert.False(t, HasSpineFirstGeneration(one))
}

func TestNormalizedGradientDefaultsNorthSouth(t *testing.T) {
	g := NormalizedGradient(Point2{X: 0, Z: 0})
	assert.Equal(t, Point2{X: 0, Z: 1}, g)
}

func TestNormalizedGradientUnitLength(t *testing.T) {
	g := NormalizedGradient(Point2{X: 3, Z: 4})
	assert.InDelta(t, 1.0, g.X*g.X+g.Z*g.Z, 1e-9)
}

func TestCentroidFallsBackToMidpointWhenNoSpines(t *testing.T) {
	tpl := &Template{}
	c := tpl.Centroid()
	assert.Equal(t, Point2{X: 0.5, Z: 0.5}, c)
}

func TestInnerReferencePrefersBayCenter(t *testing.T) {
	tpl := straightSpineTemplate()
	bay := Point2{X: 0.5, Z: 0.9}
	tpl.BayCenter = &bay
	assert.Equal(t, bay, tpl.InnerReference())
}

func TestValidateAcceptsWellFormedTemplate(t *testing.T) {
	require.NoError(t, Validate(straightSpineTemplate()))
}

func TestValidateRejectsOutOfRangePoint(t *testing.T) {
	tpl := straightSpineTemplate()
	tpl.Spine.Points[0].X = 1.5
	err := Validate(tpl)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "spine.points[0]", ve.Field)
}

func TestValidateRejectsBadLandExtent(t *testing.T) {
	tpl := straightSpineTemplate()
	tpl.LandExtent.Inner = 0
	require.Error(t, Validate(tpl))
}

func TestValidateRejectsDegenerateBounds(t *testing.T) {
	tpl := straightSpineTemplate()
	tpl.WorldBounds = Bounds{Min: 100, Max: 100}
	require.Error(t, Validate(tpl))
}

func TestValidateSeed(t *testing.T) {
	assert.NoError(t, ValidateSeed(0))
	assert.NoError(t, ValidateSeed(4294967295))
	assert.Error(t, ValidateSeed(-1))
	assert.Error(t, ValidateSeed(4294967296))
}
