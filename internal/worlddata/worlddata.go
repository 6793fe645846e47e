// Package worlddata defines the generated aggregate (component K) the
// stage scheduler assembles, plus its portable byte representation for
// host persistence.
package worlddata

import (
	"github.com/nickelm/golemcraft-worldgen/internal/river"
	"github.com/nickelm/golemcraft-worldgen/internal/sdf"
	"github.com/nickelm/golemcraft-worldgen/internal/spine"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
	"github.com/nickelm/golemcraft-worldgen/internal/zone"
)

// Lake, Road, Settlement, and Landmark are extension points: the core
// emits them as empty collections, leaving population to a future
// generator stage that is out of scope here.
type Lake struct {
	Center worldtemplate.Point2
	Shore  []worldtemplate.Point2
}

type Road struct {
	Path []worldtemplate.Point2
	Type string
}

type Settlement struct {
	Name     string
	Position worldtemplate.Point2
}

type Landmark struct {
	Name     string
	Position worldtemplate.Point2
}

// WorldData is the aggregate every stage of the scheduler contributes to.
// It is owned by the scheduler, whose stage functions write their outputs
// into it in place, one stage after another, so each stage sees the outputs
// of the stages before it.
type WorldData struct {
	Seed         uint32
	TemplateName string
	Bounds       worldtemplate.Bounds

	Spines []spine.Feature
	Rivers []river.Feature
	Lakes  []Lake
	Zones  map[string]*zone.Zone

	Roads       []Road
	Settlements []Settlement
	Landmarks   map[string]Landmark

	Textures map[string]*sdf.Texture

	// StageVersions records the version string each stage last ran with,
	// used by regenerateStale to compute the stale set.
	StageVersions map[string]string
}

// New returns an empty WorldData for the given seed/template, with every
// extension-point collection initialized empty rather than nil so callers
// can range over them unconditionally.
func New(seed uint32, t *worldtemplate.Template) *WorldData {
	return &WorldData{
		Seed:          seed,
		TemplateName:  t.Name,
		Bounds:        t.WorldBounds,
		Spines:        []spine.Feature{},
		Rivers:        []river.Feature{},
		Lakes:         []Lake{},
		Zones:         map[string]*zone.Zone{},
		Roads:         []Road{},
		Settlements:   []Settlement{},
		Landmarks:     map[string]Landmark{},
		Textures:      map[string]*sdf.Texture{},
		StageVersions: map[string]string{},
	}
}
