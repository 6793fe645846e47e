package worldtemplate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML-on-disk shape a designer authors a template in.
// It mirrors Template field-for-field but carries yaml tags and its own
// file-side types so the file format can evolve independently of the
// in-memory representation Validate and the generator operate on.
type fileFormat struct {
	Name        string      `yaml:"name"`
	WorldBounds boundsFile  `yaml:"worldBounds"`
	Shape       shapeFile   `yaml:"shape"`
	Spine       spineFile   `yaml:"spine"`
	Secondary   []spineFile `yaml:"secondarySpines"`
	LandExtent struct {
		Inner float64 `yaml:"inner"`
		Outer float64 `yaml:"outer"`
	} `yaml:"landExtent"`
	BayCenter *point2File   `yaml:"bayCenter"`
	Climate   climateFile   `yaml:"climate"`
	Elevation elevationFile `yaml:"elevation"`
	Features  struct {
		HasBay         bool `yaml:"hasBay"`
		HasLake        bool `yaml:"hasLake"`
		HasLegacySpine bool `yaml:"hasLegacySpine"`
	} `yaml:"features"`
}

type boundsFile struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type point2File struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

type shapeFile struct {
	CenterX          float64 `yaml:"centerX"`
	CenterZ          float64 `yaml:"centerZ"`
	Radius           float64 `yaml:"radius"`
	FalloffSharpness float64 `yaml:"falloffSharpness"`
}

type spineFile struct {
	Points    []point2File `yaml:"points"`
	Elevation float64      `yaml:"elevation"`
	Width     float64      `yaml:"width"`
}

type climateGradientFile struct {
	Direction point2File `yaml:"direction"`
	Strength  float64    `yaml:"strength"`
}

type climateFile struct {
	TemperatureGradient climateGradientFile `yaml:"temperatureGradient"`
	BaseHumidity        float64             `yaml:"baseHumidity"`
	ExcludedBiomes      []string            `yaml:"excludedBiomes"`
}

type regionRefFile struct {
	CenterX float64 `yaml:"centerX"`
	CenterZ float64 `yaml:"centerZ"`
	Radius  float64 `yaml:"radius"`
}

type mountainBoostFile struct {
	Region      *regionRefFile `yaml:"region"`
	Strength    float64        `yaml:"strength"`
	RidgeWeight float64        `yaml:"ridgeWeight"`
}

type flattenRegionFile struct {
	Region   *regionRefFile `yaml:"region"`
	Flatness float64        `yaml:"flatness"`
}

type elevationFile struct {
	MountainBoost *mountainBoostFile `yaml:"mountainBoost"`
	FlattenRegion *flattenRegionFile `yaml:"flattenRegion"`
}

func points(in []point2File) []Point2 {
	out := make([]Point2, len(in))
	for i, p := range in {
		out[i] = Point2{X: p.X, Z: p.Z}
	}
	return out
}

func spinePath(in spineFile) SpinePath {
	return SpinePath{Points: points(in.Points), Elevation: in.Elevation, Width: in.Width}
}

func region(in *regionRefFile) *RegionRef {
	if in == nil {
		return nil
	}
	return &RegionRef{CenterX: in.CenterX, CenterZ: in.CenterZ, Radius: in.Radius}
}

func (f fileFormat) toTemplate() *Template {
	secondary := make([]SpinePath, len(f.Secondary))
	for i, s := range f.Secondary {
		secondary[i] = spinePath(s)
	}

	var bayCenter *Point2
	if f.BayCenter != nil {
		bayCenter = &Point2{X: f.BayCenter.X, Z: f.BayCenter.Z}
	}

	var mountainBoost *MountainBoost
	if f.Elevation.MountainBoost != nil {
		mb := f.Elevation.MountainBoost
		mountainBoost = &MountainBoost{Region: region(mb.Region), Strength: mb.Strength, RidgeWeight: mb.RidgeWeight}
	}

	var flattenRegion *FlattenRegion
	if f.Elevation.FlattenRegion != nil {
		fr := f.Elevation.FlattenRegion
		flattenRegion = &FlattenRegion{Region: region(fr.Region), Flatness: fr.Flatness}
	}

	return &Template{
		Name:            f.Name,
		WorldBounds:     Bounds{Min: f.WorldBounds.Min, Max: f.WorldBounds.Max},
		Shape:           Shape{CenterX: f.Shape.CenterX, CenterZ: f.Shape.CenterZ, Radius: f.Shape.Radius, FalloffSharpness: f.Shape.FalloffSharpness},
		Spine:           spinePath(f.Spine),
		SecondarySpines: secondary,
		LandExtent:      LandExtent{Inner: f.LandExtent.Inner, Outer: f.LandExtent.Outer},
		BayCenter:       bayCenter,
		Climate: Climate{
			TemperatureGradient: ClimateGradient{
				Direction: Point2{X: f.Climate.TemperatureGradient.Direction.X, Z: f.Climate.TemperatureGradient.Direction.Z},
				Strength:  f.Climate.TemperatureGradient.Strength,
			},
			BaseHumidity:   f.Climate.BaseHumidity,
			ExcludedBiomes: f.Climate.ExcludedBiomes,
		},
		Elevation: Elevation{MountainBoost: mountainBoost, FlattenRegion: flattenRegion},
		Features: Features{
			HasBay:         f.Features.HasBay,
			HasLake:        f.Features.HasLake,
			HasLegacySpine: f.Features.HasLegacySpine,
		},
	}
}

// LoadBytes parses a YAML-authored template and validates it.
func LoadBytes(data []byte) (*Template, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("worldtemplate: failed to parse template: %w", err)
	}
	t := f.toTemplate()
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads and parses a YAML template file from disk.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("worldtemplate: failed to read template file %q: %w", path, err)
	}
	return LoadBytes(data)
}
