// Package pipeline drives the world-feature stages (spine, river, zone,
// SDF) in dependency order against a fixed seed and template, producing a
// WorldData aggregate with versioned, resumable execution (component J).
package pipeline

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/nickelm/golemcraft-worldgen/internal/conthost"
	"github.com/nickelm/golemcraft-worldgen/internal/river"
	"github.com/nickelm/golemcraft-worldgen/internal/sdf"
	"github.com/nickelm/golemcraft-worldgen/internal/spine"
	"github.com/nickelm/golemcraft-worldgen/internal/worker"
	"github.com/nickelm/golemcraft-worldgen/internal/worlddata"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
	"github.com/nickelm/golemcraft-worldgen/internal/zone"
)

// sdfBakeWorkers caps how many of the four independent SDF textures bake
// concurrently within the sdf stage; they share no state with each other.
const sdfBakeWorkers = 4

// ContinentalVersion identifies the pipeline schema as a whole,
// independent of any individual stage's version.
const ContinentalVersion = "continental-v1"

// StageID names one node of the stage dependency DAG.
type StageID string

const (
	StageShape     StageID = "shape"
	StageMountains StageID = "mountains"
	StageRivers    StageID = "rivers"
	StageZones     StageID = "zones"
	StageRoads     StageID = "roads"
	StageSDF       StageID = "sdf"
)

// stageRunFunc does the actual work of one stage, mutating wd in place.
// yield is threaded through so stages with internal suspension points can
// cooperate with the host. Only sdf uses it: it yields once before and once
// after its four concurrent texture bakes, and not between them.
type stageRunFunc func(ctx context.Context, yield conthost.Yielder, seed uint32, t *worldtemplate.Template, wd *worlddata.WorldData) error

// stage is a StageRecord (spec's scheduler-owned bookkeeping) plus the
// closure that performs the work.
type stage struct {
	ID         StageID
	Version    string
	Weight     int
	ActiveForm string
	DependsOn  []StageID
	Run        stageRunFunc
}

// stages returns the ordered stage DAG: shape → mountains → rivers →
// zones → roads → sdf, with sdf additionally depending on every other
// stage. The slice order is already a valid topological order, which
// GenerateAll and RegenerateStale both rely on.
func stages() []stage {
	return []stage{
		{
			ID: StageShape, Version: "1", Weight: 5, ActiveForm: "Validating continent shape",
			DependsOn: nil,
			Run:       runShapeStage,
		},
		{
			ID: StageMountains, Version: "1", Weight: 10, ActiveForm: "Raising mountain spines",
			DependsOn: []StageID{StageShape},
			Run:       runMountainsStage,
		},
		{
			ID: StageRivers, Version: "1", Weight: 14, ActiveForm: "Carving river networks",
			DependsOn: []StageID{StageMountains},
			Run:       runRiversStage,
		},
		{
			ID: StageZones, Version: "1", Weight: 10, ActiveForm: "Discovering zones",
			DependsOn: []StageID{StageRivers},
			Run:       runZonesStage,
		},
		{
			ID: StageRoads, Version: "1", Weight: 2, ActiveForm: "Laying roads",
			DependsOn: []StageID{StageZones},
			Run:       runRoadsStage,
		},
		{
			ID: StageSDF, Version: "1", Weight: 9, ActiveForm: "Baking distance fields",
			DependsOn: []StageID{StageShape, StageMountains, StageRivers, StageZones, StageRoads},
			Run:       runSDFStage,
		},
	}
}

func runShapeStage(_ context.Context, _ conthost.Yielder, _ uint32, t *worldtemplate.Template, _ *worlddata.WorldData) error {
	if err := worldtemplate.Validate(t); err != nil {
		return err
	}
	return nil
}

func runMountainsStage(_ context.Context, _ conthost.Yielder, seed uint32, t *worldtemplate.Template, wd *worlddata.WorldData) error {
	wd.Spines = spine.Generate(seed, t)
	return nil
}

func runRiversStage(_ context.Context, _ conthost.Yielder, seed uint32, t *worldtemplate.Template, wd *worlddata.WorldData) error {
	wd.Rivers = river.Generate(seed, t, river.DefaultConfig())
	return nil
}

func runZonesStage(_ context.Context, _ conthost.Yielder, seed uint32, t *worldtemplate.Template, wd *worlddata.WorldData) error {
	wd.Zones = zone.Discover(seed, t)
	return nil
}

func runRoadsStage(_ context.Context, _ conthost.Yielder, _ uint32, _ *worldtemplate.Template, wd *worlddata.WorldData) error {
	// Roads and settlements are extension points the core leaves empty;
	// this stage exists so the dependency DAG and regeneration staleness
	// tracking have a real node to key off once a road generator exists.
	wd.Roads = []worlddata.Road{}
	wd.Settlements = []worlddata.Settlement{}
	return nil
}

// runSDFStage bakes all four SDF textures. None of the four reads another's
// output, so they run concurrently on a small worker pool instead of one
// after another; checkCancel still runs first so a cancellation already
// observed before baking starts doesn't spend any work.
func runSDFStage(ctx context.Context, yield conthost.Yielder, seed uint32, t *worldtemplate.Template, wd *worlddata.WorldData) error {
	if err := checkCancel(ctx, yield); err != nil {
		return err
	}

	infraFeatures := toInfraFeatures(wd.Roads)
	settlementPoints := toSettlementPoints(wd.Settlements)

	tasks := []worker.Task{
		{
			Label: string(worlddata.TextureTerrain),
			Job: func(context.Context) (any, error) {
				return sdf.BakeTerrainSDF(seed, wd.Spines, t), nil
			},
		},
		{
			Label: string(worlddata.TextureHydro),
			Job: func(context.Context) (any, error) {
				return sdf.BakeHydroSDF(wd.Rivers, t), nil
			},
		},
		{
			Label: string(worlddata.TextureInfra),
			Job: func(context.Context) (any, error) {
				return sdf.BakeInfraSDF(infraFeatures, settlementPoints, t), nil
			},
		},
		{
			Label: string(worlddata.TextureClimate),
			Job: func(context.Context) (any, error) {
				return sdf.BakeClimateTex(seed, t), nil
			},
		},
	}

	pool := worker.New(worker.Config{Workers: sdfBakeWorkers})
	for _, res := range pool.Run(ctx, tasks) {
		if res.Err != nil {
			return fmt.Errorf("baking %s texture: %w", res.Label, res.Err)
		}
		wd.Textures[res.Label] = res.Value.(*sdf.Texture)
	}

	return checkCancel(ctx, yield)
}

func toInfraFeatures(roads []worlddata.Road) []sdf.InfraFeature {
	features := make([]sdf.InfraFeature, 0, len(roads))
	for _, r := range roads {
		path := make([]orb.Point, len(r.Path))
		for i, p := range r.Path {
			path[i] = orb.Point{p.X, p.Z}
		}
		features = append(features, sdf.InfraFeature{Path: path, Type: roadTypeWeight(r.Type)})
	}
	return features
}

func toSettlementPoints(settlements []worlddata.Settlement) []orb.Point {
	points := make([]orb.Point, len(settlements))
	for i, s := range settlements {
		points[i] = orb.Point{s.Position.X, s.Position.Z}
	}
	return points
}

// roadTypeWeight maps a road classification to the interpolated numeric
// type infra_sdf's G channel encodes. Unrecognized types default to the
// lowest weight rather than failing, since roads are an extension point
// with no fixed vocabulary yet.
func roadTypeWeight(kind string) float64 {
	switch kind {
	case "highway":
		return 1.0
	case "road":
		return 0.6
	case "path":
		return 0.3
	default:
		return 0.1
	}
}

// checkCancel yields to the host and translates any error (including
// context cancellation) into ErrCancelled, per the "no partial state
// exposed on cancellation" policy.
func checkCancel(ctx context.Context, yield conthost.Yielder) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if yield == nil {
		return nil
	}
	if err := yield.Yield(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

func totalWeight(all []stage) int {
	sum := 0
	for _, s := range all {
		sum += s.Weight
	}
	return sum
}

// GenerateAll runs every stage in dependency order, emitting a progress
// record after each stage boundary, and returns the finished WorldData.
// A stage error is fatal: it is wrapped with the stage id and no partial
// WorldData is returned.
func GenerateAll(ctx context.Context, seed uint32, t *worldtemplate.Template, progress conthost.ProgressFunc, yield conthost.Yielder) (*worlddata.WorldData, error) {
	if err := worldtemplate.Validate(t); err != nil {
		return nil, err
	}

	all := stages()
	total := totalWeight(all)
	wd := worlddata.New(seed, t)

	cumulative := 0
	for i, s := range all {
		if err := checkCancel(ctx, yield); err != nil {
			return nil, err
		}

		if err := s.Run(ctx, yield, seed, t, wd); err != nil {
			if isCancellation(err) {
				return nil, err
			}
			return nil, wrapStageError(s.ID, err)
		}
		wd.StageVersions[string(s.ID)] = s.Version
		cumulative += s.Weight

		emit(progress, s.ID, i, len(all), cumulative, total, 1.0, s.ActiveForm)
	}

	return wd, nil
}

// RegenerateStale compares previous.StageVersions against the current
// stage definitions, transitively expands the stale set across the
// dependency DAG, and reruns only those stages — restoring every other
// stage's prior output untouched.
func RegenerateStale(ctx context.Context, seed uint32, t *worldtemplate.Template, previous *worlddata.WorldData, progress conthost.ProgressFunc, yield conthost.Yielder) (*worlddata.WorldData, error) {
	if err := worldtemplate.Validate(t); err != nil {
		return nil, err
	}
	if previous == nil {
		return GenerateAll(ctx, seed, t, progress, yield)
	}

	all := stages()
	total := totalWeight(all)
	stale := computeStaleSet(all, previous.StageVersions)

	wd := *previous // shallow copy: stages left untouched keep their prior slices/maps
	wd.Seed = seed
	wd.TemplateName = t.Name
	wd.Bounds = t.WorldBounds
	if wd.StageVersions == nil {
		wd.StageVersions = map[string]string{}
	}

	cumulative := 0
	for i, s := range all {
		if err := checkCancel(ctx, yield); err != nil {
			return nil, err
		}

		if stale[s.ID] {
			if err := s.Run(ctx, yield, seed, t, &wd); err != nil {
				if isCancellation(err) {
					return nil, err
				}
				return nil, wrapStageError(s.ID, err)
			}
			wd.StageVersions[string(s.ID)] = s.Version
			cumulative += s.Weight
			emit(progress, s.ID, i, len(all), cumulative, total, 1.0, s.ActiveForm)
		} else {
			cumulative += s.Weight
			emit(progress, s.ID, i, len(all), cumulative, total, 1.0, "up to date, skipped")
		}
	}

	return &wd, nil
}

// computeStaleSet marks a stage stale if its version differs from (or is
// absent from) previous, then propagates staleness forward along the
// dependency DAG: a stage depending on a stale stage is itself stale,
// since it must be recomputed against fresh upstream output. all must
// already be in topological order for the single forward pass to see
// every dependency before its dependents.
func computeStaleSet(all []stage, previous map[string]string) map[StageID]bool {
	stale := make(map[StageID]bool, len(all))
	for _, s := range all {
		if previous[string(s.ID)] != s.Version {
			stale[s.ID] = true
			continue
		}
		for _, dep := range s.DependsOn {
			if stale[dep] {
				stale[s.ID] = true
				break
			}
		}
	}
	return stale
}

func emit(progress conthost.ProgressFunc, id StageID, index, count, cumulative, total int, stageProgress float32, message string) {
	if progress == nil {
		return
	}
	overall := float32(1.0)
	if total > 0 {
		overall = float32(cumulative) / float32(total)
	}
	progress(conthost.ProgressRecord{
		StageID:       string(id),
		StageIndex:    uint32(index),
		StageCount:    uint32(count),
		Progress:      overall,
		StageProgress: stageProgress,
		Message:       message,
	})
}
