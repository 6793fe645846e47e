// Package spine implements the spine generator (component F): either lifting
// mountain ridgelines directly from a template's authored spine polylines, or
// discovering them procedurally from the continentalness field via blob
// detection, principal-axis analysis, and organic tracing with branching.
package spine

import (
	"fmt"
	"math"
	"sort"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/noise"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// Direction is an 8-way compass bin describing a spine's overall orientation.
type Direction string

const (
	East      Direction = "E"
	NorthEast Direction = "NE"
	North     Direction = "N"
	NorthWest Direction = "NW"
	West      Direction = "W"
	SouthWest Direction = "SW"
	South     Direction = "S"
	SouthEast Direction = "SE"
)

// Kind distinguishes a template-authored/primary-blob spine from a branch.
type Kind string

const (
	Primary   Kind = "primary"
	Secondary Kind = "secondary"
)

// Point is one sample along a spine's path.
type Point struct {
	X, Z       float64
	Elevation  float64
	Prominence float64
}

// Feature is one emitted, immutable spine polyline.
type Feature struct {
	ID        string
	Type      Kind
	Path      []Point
	Direction Direction
	ParentID  string
}

const (
	endElevation    = 0.4
	centerElevation = 0.9
	minProminence   = 0.5
	maxProminence   = 1.0
)

// cosineTaper is the elevation/prominence profile: peaks at the
// path center (t=0.5) and tapers to the endpoints.
func cosineTaper(t, lo, hi float64) float64 {
	falloff := 0.5*math.Cos(2*math.Pi*math.Abs(t-0.5)) + 0.5
	return lo + falloff*(hi-lo)
}

func toWorld(p worldtemplate.Point2, t *worldtemplate.Template) (float64, float64) {
	x := t.Shape.CenterX + (p.X-0.5)*2*t.Shape.Radius
	z := t.Shape.CenterZ + (p.Z-0.5)*2*t.Shape.Radius
	return x, z
}

func classifyDirection(dx, dz float64) Direction {
	if dx == 0 && dz == 0 {
		return North
	}
	angle := math.Atan2(dz, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	bin := int(math.Round(angle/(math.Pi/4))) % 8
	dirs := [8]Direction{East, NorthEast, North, NorthWest, West, SouthWest, South, SouthEast}
	return dirs[bin]
}

func liftPath(points []worldtemplate.Point2, t *worldtemplate.Template) []Point {
	n := len(points)
	path := make([]Point, n)
	for i, p := range points {
		wx, wz := toWorld(p, t)
		frac := float64(i) / float64(n-1)
		path[i] = Point{
			X:          wx,
			Z:          wz,
			Elevation:  cosineTaper(frac, endElevation, centerElevation),
			Prominence: cosineTaper(frac, minProminence, maxProminence),
		}
	}
	return path
}

func liftDirection(path []Point) Direction {
	first, last := path[0], path[len(path)-1]
	return classifyDirection(last.X-first.X, last.Z-first.Z)
}

// Generate emits every spine feature for a template: the template-lift path
// when the template carries spine points, otherwise procedural blob
// discovery.
func Generate(seed uint32, t *worldtemplate.Template) []Feature {
	if worldtemplate.HasSpineFirstGeneration(t) {
		return liftFromTemplate(seed, t)
	}
	return discoverProcedurally(seed, t)
}

func liftFromTemplate(seed uint32, t *worldtemplate.Template) []Feature {
	var out []Feature

	primaryPath := liftPath(t.Spine.Points, t)
	out = append(out, Feature{
		ID:        "spine-primary",
		Type:      Primary,
		Path:      primaryPath,
		Direction: liftDirection(primaryPath),
	})

	for i, sec := range t.SecondarySpines {
		if len(sec.Points) < 2 {
			continue
		}
		path := liftPath(sec.Points, t)
		out = append(out, Feature{
			ID:        fmt.Sprintf("spine-secondary-%d", i),
			Type:      Secondary,
			Path:      path,
			Direction: liftDirection(path),
			ParentID:  "spine-primary",
		})
	}

	_ = seed // the lift path is purely geometric; no randomness is drawn.
	return out
}
