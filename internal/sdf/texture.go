// Package sdf implements the SDF baker (component I): multi-channel 2D
// float textures giving downstream samplers O(1) distance queries against
// rivers, spines, coastlines, and climate fields, instead of walking every
// feature per query.
package sdf

import "math"

// Bounds is the square world-space region a texture covers.
type Bounds struct {
	MinX, MaxX, MinZ, MaxZ float64
}

// Texture is a row-major, channel-interleaved float32 2D field.
type Texture struct {
	Width, Height int
	Channels      int
	Bounds        Bounds
	Data          []float32
}

// NewTexture allocates a zeroed texture of the given size.
func NewTexture(width, height, channels int, bounds Bounds) *Texture {
	return &Texture{
		Width:    width,
		Height:   height,
		Channels: channels,
		Bounds:   bounds,
		Data:     make([]float32, width*height*channels),
	}
}

func (t *Texture) index(px, pz, channel int) int {
	return (pz*t.Width+px)*t.Channels + channel
}

// Set writes a channel value at texel (px, pz).
func (t *Texture) Set(px, pz, channel int, v float64) {
	t.Data[t.index(px, pz, channel)] = float32(v)
}

// Get reads a channel value at texel (px, pz).
func (t *Texture) Get(px, pz, channel int) float64 {
	return float64(t.Data[t.index(px, pz, channel)])
}

func (t *Texture) worldToTexel(x, z float64) (float64, float64) {
	fx := (x - t.Bounds.MinX) / (t.Bounds.MaxX - t.Bounds.MinX) * float64(t.Width-1)
	fz := (z - t.Bounds.MinZ) / (t.Bounds.MaxZ - t.Bounds.MinZ) * float64(t.Height-1)
	return fx, fz
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sample bilinearly interpolates channel at world coordinate (x, z), clamping
// to the texture's edge when the point falls outside its bounds.
func (t *Texture) Sample(x, z float64, channel int) float64 {
	fx, fz := t.worldToTexel(x, z)
	fx = math.Max(0, math.Min(float64(t.Width-1), fx))
	fz = math.Max(0, math.Min(float64(t.Height-1), fz))

	x0 := clampInt(int(math.Floor(fx)), 0, t.Width-1)
	x1 := clampInt(x0+1, 0, t.Width-1)
	z0 := clampInt(int(math.Floor(fz)), 0, t.Height-1)
	z1 := clampInt(z0+1, 0, t.Height-1)

	tx := fx - float64(x0)
	tz := fz - float64(z0)

	v00 := t.Get(x0, z0, channel)
	v10 := t.Get(x1, z0, channel)
	v01 := t.Get(x0, z1, channel)
	v11 := t.Get(x1, z1, channel)

	top := lerp(v00, v10, tx)
	bottom := lerp(v01, v11, tx)
	return lerp(top, bottom, tz)
}

// lerp interpolates from a to b. Equal endpoints, t == 0 and t == 1 return an
// endpoint unchanged, and an infinite endpoint wins over a finite one, so a
// neighbourhood holding the +Inf sentinel samples as +Inf instead of NaN.
func lerp(a, b, t float64) float64 {
	switch {
	case a == b || t == 0 || math.IsInf(a, 0):
		return a
	case t == 1 || math.IsInf(b, 0):
		return b
	}
	return a + (b-a)*t
}

func texelCenterWorld(t *Texture, px, pz int) (float64, float64) {
	fracX := float64(px) / float64(t.Width-1)
	fracZ := float64(pz) / float64(t.Height-1)
	x := t.Bounds.MinX + fracX*(t.Bounds.MaxX-t.Bounds.MinX)
	z := t.Bounds.MinZ + fracZ*(t.Bounds.MaxZ-t.Bounds.MinZ)
	return x, z
}
