package worlddata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickelm/golemcraft-worldgen/internal/sdf"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
	"github.com/nickelm/golemcraft-worldgen/internal/zone"
)

func sampleWorldData() *WorldData {
	t := &worldtemplate.Template{
		Name:        "sample",
		WorldBounds: worldtemplate.Bounds{Min: -100, Max: 100},
	}
	wd := New(42, t)
	wd.Zones["0,0"] = &zone.Zone{ID: "z1", Name: "Haven", Type: zone.Haven, GridKey: "0,0"}
	wd.StageVersions["shape"] = "v1"
	return wd
}

func TestToRecordOrdersZonesDeterministically(t *testing.T) {
	wd := sampleWorldData()
	wd.Zones["1,1"] = &zone.Zone{ID: "z2", Name: "Wild", Type: zone.Wilderness, GridKey: "1,1"}

	a := ToRecord(wd, "w1", "c1")
	b := ToRecord(wd, "w1", "c1")
	require.Equal(t, len(a.Zones), len(b.Zones))
	for i := range a.Zones {
		assert.Equal(t, a.Zones[i].GridKey, b.Zones[i].GridKey)
	}
	assert.Equal(t, "0,0", a.Zones[0].GridKey)
	assert.Equal(t, "1,1", a.Zones[1].GridKey)
}

func TestMarshalUnmarshalRecordRoundTrips(t *testing.T) {
	wd := sampleWorldData()
	rec := ToRecord(wd, "w1", "c1")

	data, err := MarshalRecord(rec)
	require.NoError(t, err)

	got, err := UnmarshalRecord(data)
	require.NoError(t, err)

	assert.Equal(t, rec.Seed, got.Seed)
	assert.Equal(t, rec.TemplateName, got.TemplateName)
	assert.Equal(t, rec.WorldID, got.WorldID)
	require.Len(t, got.Zones, 1)
	assert.Equal(t, "0,0", got.Zones[0].GridKey)
}

func TestEncodeDecodeTextureRoundTrips(t *testing.T) {
	tex := sdf.NewTexture(4, 4, 2, sdf.Bounds{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10})
	for i := range tex.Data {
		tex.Data[i] = float32(i) * 0.5
	}

	rec := EncodeTexture(tex, "w1", "c1", TextureHydro)
	assert.Equal(t, "float32", rec.Format)
	assert.Len(t, rec.Data, 4*4*2*4)

	got, err := DecodeTexture(rec)
	require.NoError(t, err)
	assert.Equal(t, tex.Data, got.Data)
	assert.Equal(t, tex.Bounds, got.Bounds)
}

func TestDecodeTextureRejectsWrongLength(t *testing.T) {
	rec := TextureRecord{Format: "float32", Width: 4, Height: 4, Channels: 1, Data: []byte{1, 2, 3}}
	_, err := DecodeTexture(rec)
	assert.Error(t, err)
}
