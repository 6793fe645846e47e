//go:build js && wasm
// +build js,wasm

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"syscall/js"

	"github.com/nickelm/golemcraft-worldgen/internal/pipeline"
	"github.com/nickelm/golemcraft-worldgen/internal/sdf"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// generateRequest is the shape a browser-side caller passes in: a template
// authored as YAML text plus a seed, so a designer can preview a continent
// entirely client-side with no backend round trip.
type generateRequest struct {
	Seed         int64  `json:"seed"`
	TemplateYAML string `json:"templateYaml"`
}

type stageInfo struct {
	StageID string `json:"stageId"`
	Version string `json:"version"`
}

type generateResponse struct {
	Stages        []stageInfo       `json:"stages"`
	SpineCount    int               `json:"spineCount"`
	RiverCount    int               `json:"riverCount"`
	ZoneCount     int               `json:"zoneCount"`
	TexturesPNG   map[string]string `json:"texturesPng"`
}

// getConcurrency returns the recommended number of concurrent operations a
// caller could use for batching multiple previews; worldgen itself runs its
// stages in order on the calling goroutine, except the sdf stage's four
// texture bakes, which run concurrently.
func getConcurrency(_ js.Value, _ []js.Value) interface{} {
	navigator := js.Global().Get("navigator")
	if navigator.IsUndefined() || navigator.IsNull() {
		return 4
	}
	hwConcurrency := navigator.Get("hardwareConcurrency")
	if hwConcurrency.IsUndefined() || hwConcurrency.IsNull() {
		return 4
	}
	cores := hwConcurrency.Int()
	if cores < 1 {
		return 4
	}
	return cores
}

// generateContinent is called from JavaScript to run the full stage
// pipeline against a seed and an inline YAML template, returning stage
// bookkeeping and a PNG preview of each baked texture (base64).
func generateContinent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]any{"error": "missing arguments"}
	}

	var req generateRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to parse request: %v", err)}
	}

	if err := worldtemplate.ValidateSeed(req.Seed); err != nil {
		return map[string]any{"error": err.Error()}
	}

	t, err := worldtemplate.LoadBytes([]byte(req.TemplateYAML))
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid template: %v", err)}
	}

	wd, err := pipeline.GenerateAll(context.Background(), uint32(req.Seed), t, nil, nil)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("generation failed: %v", err)}
	}

	resp := generateResponse{
		SpineCount:  len(wd.Spines),
		RiverCount:  len(wd.Rivers),
		ZoneCount:   len(wd.Zones),
		TexturesPNG: map[string]string{},
	}
	for id, version := range wd.StageVersions {
		resp.Stages = append(resp.Stages, stageInfo{StageID: id, Version: version})
	}

	for name, tex := range wd.Textures {
		png64, err := encodeTexturePreviewPNG(tex)
		if err != nil {
			return map[string]any{"error": fmt.Sprintf("failed to encode %s preview: %v", name, err)}
		}
		resp.TexturesPNG[name] = png64
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to encode response: %v", err)}
	}
	return string(out)
}

// encodeTexturePreviewPNG renders an SDF texture's first three channels as
// an RGB PNG, normalizing each channel to [0,255] independently since
// distance fields and climate values have unrelated ranges (and the
// distance channels can legitimately hold +Inf for "nothing in range").
func encodeTexturePreviewPNG(tex *sdf.Texture) (string, error) {
	img := image.NewNRGBA(image.Rect(0, 0, tex.Width, tex.Height))

	var lo, hi [3]float64
	for c := 0; c < 3 && c < tex.Channels; c++ {
		lo[c], hi[c] = channelRange(tex, c)
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			var rgb [3]uint8
			for c := 0; c < 3 && c < tex.Channels; c++ {
				v := float64(tex.Get(x, y, c))
				rgb[c] = normalizeToByte(v, lo[c], hi[c])
			}
			img.SetNRGBA(x, y, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func channelRange(tex *sdf.Texture, channel int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			v := float64(tex.Get(x, y, channel))
			if math.IsInf(v, 0) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
		return 0, 1
	}
	return lo, hi
}

func normalizeToByte(v, lo, hi float64) uint8 {
	if math.IsInf(v, 1) {
		return 255
	}
	if math.IsInf(v, -1) {
		return 0
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(t * 255)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("worldgenGenerateContinent", js.FuncOf(generateContinent))
	js.Global().Set("worldgenGetConcurrency", js.FuncOf(getConcurrency))

	fmt.Println("worldgen WASM module loaded")
	<-c
}
