// Package noise provides the deterministic value-noise and fractal-Brownian-
// motion primitives the terrain sampler composes into height, continentalness,
// temperature, and humidity fields. The implementation is hash-based (built on
// internal/hashrng) rather than a library-provided gradient noise, because the
// spec requires bit-identical output across runs and the operation order is
// part of the external contract.
package noise

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
)

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Value2D samples value noise on an integer lattice at (x, z), using
// hashrng.HashUnit for corner values and a smoothstep interpolant.
func Value2D(seed uint32, x, z float64, salt uint32) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := smoothstep(x - x0)
	fz := smoothstep(z - z0)

	v00 := hashrng.HashUnit(seed, int32(x0), int32(z0), salt)
	v10 := hashrng.HashUnit(seed, int32(x1), int32(z0), salt)
	v01 := hashrng.HashUnit(seed, int32(x0), int32(z1), salt)
	v11 := hashrng.HashUnit(seed, int32(x1), int32(z1), salt)

	top := lerp(v00, v10, fx)
	bottom := lerp(v01, v11, fx)
	return lerp(top, bottom, fz)
}

// SaltFor turns a string salt (as used by hashSalt parameters) into
// the uint32 salt Hash32 expects, via the same djb2-style derivation used for
// seed derivation elsewhere.
func SaltFor(label string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(label); i++ {
		h = ((h << 5) + h) + uint32(label[i])
	}
	return h
}

// OctaveNoise computes a normalized fractal-Brownian-motion sum of Value2D
// octaves: geometric frequency doubling, amplitude halving, normalized by the
// sum of amplitudes so the result stays in [0, 1].
func OctaveNoise(seed uint32, x, z float64, octaves int, baseFreq float64, hashSalt string) float64 {
	if octaves < 1 {
		octaves = 1
	}
	salt := SaltFor(hashSalt)

	sum := 0.0
	amplitudeSum := 0.0
	amplitude := 1.0
	freq := baseFreq

	for o := 0; o < octaves; o++ {
		sum += Value2D(seed, x*freq, z*freq, salt+uint32(o)) * amplitude
		amplitudeSum += amplitude
		amplitude *= 0.5
		freq *= 2.0
	}

	if amplitudeSum == 0 {
		return 0
	}
	return sum / amplitudeSum
}

// WarpedNoise2D samples OctaveNoise through a domain-warp pass: a first-pass
// sample at (x, z) produces a scalar warp offset applied to both axes before
// the final lookup, producing the organic, non-axis-aligned texture the spine
// tracer and climate fields rely on.
func WarpedNoise2D(seed uint32, x, z float64, octaves int, freq, warpStrength float64, hashSalt string) float64 {
	base := OctaveNoise(seed, x, z, octaves, freq, hashSalt)
	warp := warpStrength * (base - 0.5)
	return OctaveNoise(seed, x+warp, z+warp, octaves, freq, hashSalt)
}
