package worldtemplate

import (
	"fmt"
	"math"
)

// ValidationError reports a structural problem with a template, with the
// dotted field path that failed so a host can surface it to the designer who
// authored the template.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid template field %q: %s", e.Field, e.Reason)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func inUnit(v float64) bool {
	return finite(v) && v >= 0 && v <= 1
}

// Validate checks every structural invariant a Template must satisfy
// before generation can run, returning the first violation found as a
// *ValidationError.
func Validate(t *Template) error {
	if t == nil {
		return &ValidationError{Field: "template", Reason: "nil"}
	}
	if !finite(t.WorldBounds.Min) || !finite(t.WorldBounds.Max) {
		return &ValidationError{Field: "worldBounds", Reason: "non-finite bound"}
	}
	if t.WorldBounds.Max <= t.WorldBounds.Min {
		return &ValidationError{Field: "worldBounds", Reason: "max must be greater than min"}
	}

	if err := validatePoints("spine.points", t.Spine.Points); err != nil {
		return err
	}
	for i, sec := range t.SecondarySpines {
		if err := validatePoints(fmt.Sprintf("secondarySpines[%d].points", i), sec.Points); err != nil {
			return err
		}
	}

	if !inUnit(t.LandExtent.Inner) || t.LandExtent.Inner <= 0 {
		return &ValidationError{Field: "landExtent.inner", Reason: "must be in (0,1]"}
	}
	if !inUnit(t.LandExtent.Outer) || t.LandExtent.Outer <= 0 {
		return &ValidationError{Field: "landExtent.outer", Reason: "must be in (0,1]"}
	}

	if t.BayCenter != nil {
		if !inUnit(t.BayCenter.X) || !inUnit(t.BayCenter.Z) {
			return &ValidationError{Field: "bayCenter", Reason: "must be within [0,1]^2"}
		}
	}

	if !finite(t.Climate.TemperatureGradient.Strength) {
		return &ValidationError{Field: "climate.temperatureGradient.strength", Reason: "non-finite"}
	}
	if !inUnit(t.Climate.BaseHumidity) {
		return &ValidationError{Field: "climate.baseHumidity", Reason: "must be within [0,1]"}
	}

	if !finite(t.Shape.Radius) || t.Shape.Radius <= 0 {
		return &ValidationError{Field: "shape.radius", Reason: "must be positive"}
	}

	return nil
}

func validatePoints(field string, points []Point2) error {
	for i, p := range points {
		if !inUnit(p.X) || !inUnit(p.Z) {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "must be within [0,1]^2"}
		}
	}
	return nil
}

// ValidateSeed reports whether a 32-bit seed is acceptable. Every uint32
// value is a valid seed; this exists so the error taxonomy has a
// concrete, named check at the ingestion boundary (e.g. rejecting a
// caller-supplied signed seed that wrapped negative).
func ValidateSeed(seed int64) error {
	if seed < 0 || seed > math.MaxUint32 {
		return fmt.Errorf("invalid seed %d: must fit in 32 bits", seed)
	}
	return nil
}
