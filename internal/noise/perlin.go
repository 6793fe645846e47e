package noise

import "github.com/aquilax/go-perlin"

// CoherentField is a seeded Perlin noise field whose output depends only on
// a stable seed relationship, not on bit-exact reproduction of the
// hash-noise algorithm. It is kept distinct from OctaveNoise/WarpedNoise2D,
// which back the height and continentalness fields that downstream chunk
// generators depend on byte-for-byte. No generation stage samples it; the
// SDF baker's climate and erosion channels are built from terrain.Sample.
type CoherentField struct {
	p *perlin.Perlin
}

// NewCoherentField builds a field seeded from the world seed, offset by a
// salt so independent fields (erosion vs. detail shading) don't correlate.
func NewCoherentField(seed uint32, salt uint32) *CoherentField {
	return &CoherentField{p: perlin.NewPerlin(2.0, 2.0, 3, int64(seed)+int64(salt))}
}

// Sample returns a value in roughly [0, 1] at world coordinates scaled by
// freq.
func (f *CoherentField) Sample(x, z, freq float64) float64 {
	v := f.p.Noise2D(x*freq, z*freq)
	out := (v + 1.0) / 2.0
	if out < 0 {
		out = 0
	}
	if out > 1 {
		out = 1
	}
	return out
}
