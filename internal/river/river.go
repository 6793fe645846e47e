// Package river implements the river generator (component G): source
// discovery on a grid, downhill tracing with ocean-biased steering and
// monotonic-descent enforcement, meandering, width profiling, and tributary
// merging into a main channel.
package river

import (
	"fmt"
	"math"
	"sort"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// Config bundles every tunable river-generation constant, all in block
// units. Exported so tests and hosts can probe generation with
// non-default tuning without touching the package's internals.
type Config struct {
	SourceGridSize     float64
	MinSourceElevation float64
	MinHumidity        float64
	StepSize           float64
	MaxPathLength      int
	MinPathLength      int
	SeaLevel           float64
	GradientEpsilon    float64
	MeanderStrength    float64
	MinGradient        float64
	MinDescentPerStep  float64
	StreamMinWidth     float64
	RiverMaxWidth      float64
	TributaryMergeDist float64
}

// DefaultConfig returns the reference tuning values.
func DefaultConfig() Config {
	return Config{
		SourceGridSize:     300,
		MinSourceElevation: 0.25,
		MinHumidity:        0.15,
		StepSize:           12,
		MaxPathLength:      800,
		MinPathLength:      15,
		SeaLevel:           terrain.SeaLevel,
		GradientEpsilon:    16,
		MeanderStrength:    0.25,
		MinGradient:        0.0005,
		MinDescentPerStep:  0.001,
		StreamMinWidth:     0.5,
		RiverMaxWidth:      8.0,
		TributaryMergeDist: 32,
	}
}

// RiverType buckets a river by its terminal width.
type RiverType string

const (
	Stream     RiverType = "stream"
	Creek      RiverType = "creek"
	RiverKind  RiverType = "river"
	GreatRiver RiverType = "greatRiver"
)

// Properties carries a river's non-geometric metadata.
type Properties struct {
	SourceElevation float64
	RiverType       RiverType
	MergedInto      string
	JunctionPoint   *worldtemplate.Point2
}

// Feature is one emitted, immutable river polyline.
type Feature struct {
	ID         string
	Path       []worldtemplate.Point2
	Widths     []float64
	Elevations []float64
	Properties Properties
}

type source struct {
	x, z      float64
	elevation float64
	humidity  float64
	score     float64
}

// Generate discovers river sources and traces every river to completion,
// merging tributaries into whichever main channel they meet within
// cfg.TributaryMergeDist.
func Generate(seed uint32, t *worldtemplate.Template, cfg Config) []Feature {
	sources := discoverSources(seed, t, cfg)

	features := make([]Feature, 0, len(sources))
	for i, src := range sources {
		path, widths, elevations := trace(seed, i, src, t, cfg)
		if len(path) < cfg.MinPathLength {
			continue
		}
		features = append(features, Feature{
			ID:         fmt.Sprintf("river-%d", i),
			Path:       path,
			Widths:     widths,
			Elevations: elevations,
			Properties: Properties{
				SourceElevation: src.elevation,
				RiverType:       classifyRiverType(widths[len(widths)-1]),
			},
		})
	}

	mergeTributaries(features, cfg)
	return features
}

func discoverSources(seed uint32, t *worldtemplate.Template, cfg Config) []source {
	lo, hi := t.WorldBounds.Min, t.WorldBounds.Max
	n := int(math.Ceil((hi - lo) / cfg.SourceGridSize))

	sourceSeed := hashrng.DeriveSeed(seed, "rivers")

	var sources []source
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cellX := lo + float64(i)*cfg.SourceGridSize
			cellZ := lo + float64(j)*cfg.SourceGridSize

			fracX := 0.1 + hashrng.HashUnit(sourceSeed, int32(i), int32(j), 0x1)*0.8
			fracZ := 0.1 + hashrng.HashUnit(sourceSeed, int32(i), int32(j), 0x2)*0.8
			x := cellX + fracX*cfg.SourceGridSize
			z := cellZ + fracZ*cfg.SourceGridSize

			p := terrain.Sample(x, z, seed, t)
			if p.HeightNormalized < cfg.MinSourceElevation || p.Humidity < cfg.MinHumidity || p.WaterType != terrain.WaterNone {
				continue
			}

			sources = append(sources, source{
				x: x, z: z,
				elevation: p.HeightNormalized,
				humidity:  p.Humidity,
				score:     p.HeightNormalized + p.Humidity,
			})
		}
	}

	sort.SliceStable(sources, func(a, b int) bool { return sources[a].score > sources[b].score })
	return sources
}

func classifyRiverType(finalWidth float64) RiverType {
	switch {
	case finalWidth < 1.0:
		return Stream
	case finalWidth < 3.0:
		return Creek
	case finalWidth < 6.0:
		return RiverKind
	default:
		return GreatRiver
	}
}
