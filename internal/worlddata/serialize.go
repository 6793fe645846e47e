package worlddata

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/nickelm/golemcraft-worldgen/internal/river"
	"github.com/nickelm/golemcraft-worldgen/internal/sdf"
	"github.com/nickelm/golemcraft-worldgen/internal/spine"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
	"github.com/nickelm/golemcraft-worldgen/internal/zone"
)

func boundsFromRecord(rec Record) worldtemplate.Bounds {
	return worldtemplate.Bounds{Min: rec.BoundsMin, Max: rec.BoundsMax}
}

// SchemaVersion identifies the persistence format as a whole, independent
// of any individual stage's version string.
const SchemaVersion = 1

// ZoneEntry is a single (gridKey, zone) pair, used in place of a map so the
// persisted record has a deterministic field order.
type ZoneEntry struct {
	GridKey string     `json:"gridKey"`
	Zone    *zone.Zone `json:"zone"`
}

// LandmarkEntry is the landmark analogue of ZoneEntry.
type LandmarkEntry struct {
	GridKey  string   `json:"gridKey"`
	Landmark Landmark `json:"landmark"`
}

// Record is the root persisted metadata record described by the external
// compatibility contract: everything except raw texture bytes.
type Record struct {
	Version       uint32            `json:"version"`
	WorldID       string            `json:"worldId"`
	ContinentID   string            `json:"continentId"`
	Seed          uint32            `json:"seed"`
	TemplateName  string            `json:"templateName"`
	BoundsMin     float64           `json:"boundsMin"`
	BoundsMax     float64           `json:"boundsMax"`
	Spines        []spine.Feature   `json:"spines"`
	Rivers        []river.Feature   `json:"rivers"`
	Lakes         []Lake            `json:"lakes"`
	Zones         []ZoneEntry       `json:"zones"`
	Roads         []Road            `json:"roads"`
	Settlements   []Settlement      `json:"settlements"`
	Landmarks     []LandmarkEntry   `json:"landmarks"`
	StageVersions map[string]string `json:"stageVersions"`
}

// ToRecord flattens WorldData's maps into ordered slices (sorted by key)
// so two encodings of the same WorldData are byte-identical regardless of
// Go's randomized map iteration order.
func ToRecord(wd *WorldData, worldID, continentID string) Record {
	zoneKeys := make([]string, 0, len(wd.Zones))
	for k := range wd.Zones {
		zoneKeys = append(zoneKeys, k)
	}
	sort.Strings(zoneKeys)
	zones := make([]ZoneEntry, 0, len(zoneKeys))
	for _, k := range zoneKeys {
		zones = append(zones, ZoneEntry{GridKey: k, Zone: wd.Zones[k]})
	}

	landmarkKeys := make([]string, 0, len(wd.Landmarks))
	for k := range wd.Landmarks {
		landmarkKeys = append(landmarkKeys, k)
	}
	sort.Strings(landmarkKeys)
	landmarks := make([]LandmarkEntry, 0, len(landmarkKeys))
	for _, k := range landmarkKeys {
		landmarks = append(landmarks, LandmarkEntry{GridKey: k, Landmark: wd.Landmarks[k]})
	}

	return Record{
		Version:       SchemaVersion,
		WorldID:       worldID,
		ContinentID:   continentID,
		Seed:          wd.Seed,
		TemplateName:  wd.TemplateName,
		BoundsMin:     wd.Bounds.Min,
		BoundsMax:     wd.Bounds.Max,
		Spines:        wd.Spines,
		Rivers:        wd.Rivers,
		Lakes:         wd.Lakes,
		Zones:         zones,
		Roads:         wd.Roads,
		Settlements:   wd.Settlements,
		Landmarks:     landmarks,
		StageVersions: wd.StageVersions,
	}
}

// FromRecord rebuilds a WorldData from a persisted Record, reversing
// ToRecord's map flattening. It is the counterpart RegenerateStale uses to
// restore the stages it decides not to rerun.
func FromRecord(rec Record) *WorldData {
	zones := make(map[string]*zone.Zone, len(rec.Zones))
	for _, e := range rec.Zones {
		zones[e.GridKey] = e.Zone
	}

	landmarks := make(map[string]Landmark, len(rec.Landmarks))
	for _, e := range rec.Landmarks {
		landmarks[e.GridKey] = e.Landmark
	}

	stageVersions := rec.StageVersions
	if stageVersions == nil {
		stageVersions = map[string]string{}
	}

	return &WorldData{
		Seed:          rec.Seed,
		TemplateName:  rec.TemplateName,
		Bounds:        boundsFromRecord(rec),
		Spines:        rec.Spines,
		Rivers:        rec.Rivers,
		Lakes:         rec.Lakes,
		Zones:         zones,
		Roads:         rec.Roads,
		Settlements:   rec.Settlements,
		Landmarks:     landmarks,
		Textures:      map[string]*sdf.Texture{},
		StageVersions: stageVersions,
	}
}

// MarshalRecord encodes a Record as JSON, the interchange format the
// metadata side of the persistence contract uses (distinct from the raw
// binary contract textures use).
func MarshalRecord(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// UnmarshalRecord decodes a Record previously produced by MarshalRecord.
func UnmarshalRecord(data []byte) (Record, error) {
	var rec Record
	err := json.Unmarshal(data, &rec)
	return rec, err
}

// TextureType names the four concrete SDF textures.
type TextureType string

const (
	TextureTerrain TextureType = "terrain"
	TextureHydro   TextureType = "hydro"
	TextureInfra   TextureType = "infra"
	TextureClimate TextureType = "climate"
)

// TextureRecord is the typed-blob persistence record for a single baked
// texture, per spec's "row-major, channel-interleaved, little-endian"
// external compatibility contract.
type TextureRecord struct {
	WorldID     string
	ContinentID string
	TextureType TextureType
	Width       int
	Height      int
	Channels    int
	Bounds      sdf.Bounds
	Format      string
	Data        []byte
}

// EncodeTexture packs a Texture's float32 data into the little-endian byte
// contract the persistence format requires.
func EncodeTexture(tex *sdf.Texture, worldID, continentID string, textureType TextureType) TextureRecord {
	buf := make([]byte, len(tex.Data)*4)
	for i, v := range tex.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return TextureRecord{
		WorldID:     worldID,
		ContinentID: continentID,
		TextureType: textureType,
		Width:       tex.Width,
		Height:      tex.Height,
		Channels:    tex.Channels,
		Bounds:      tex.Bounds,
		Format:      "float32",
		Data:        buf,
	}
}

// DecodeTexture reverses EncodeTexture.
func DecodeTexture(rec TextureRecord) (*sdf.Texture, error) {
	if rec.Format != "float32" {
		return nil, fmt.Errorf("worlddata: unsupported texture format %q", rec.Format)
	}
	want := rec.Width * rec.Height * rec.Channels * 4
	if len(rec.Data) != want {
		return nil, fmt.Errorf("worlddata: texture data length %d, want %d", len(rec.Data), want)
	}
	tex := &sdf.Texture{
		Width:    rec.Width,
		Height:   rec.Height,
		Channels: rec.Channels,
		Bounds:   rec.Bounds,
		Data:     make([]float32, rec.Width*rec.Height*rec.Channels),
	}
	for i := range tex.Data {
		bits := binary.LittleEndian.Uint32(rec.Data[i*4:])
		tex.Data[i] = math.Float32frombits(bits)
	}
	return tex, nil
}
