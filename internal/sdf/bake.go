package sdf

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
	"github.com/paulmach/orb"

	"github.com/nickelm/golemcraft-worldgen/internal/river"
	"github.com/nickelm/golemcraft-worldgen/internal/spine"
	"github.com/nickelm/golemcraft-worldgen/internal/terrain"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// TextureSize is the fixed resolution used for every concrete
// SDF texture.
const TextureSize = 512

const hydroMaxDistance = 200.0

func boundsFromTemplate(t *worldtemplate.Template) Bounds {
	return Bounds{
		MinX: t.WorldBounds.Min, MaxX: t.WorldBounds.Max,
		MinZ: t.WorldBounds.Min, MaxZ: t.WorldBounds.Max,
	}
}

func toLineStrings(rivers []river.Feature) []orb.LineString {
	lines := make([]orb.LineString, 0, len(rivers))
	for _, r := range rivers {
		if len(r.Path) < 2 {
			continue
		}
		ls := make(orb.LineString, len(r.Path))
		for i, p := range r.Path {
			ls[i] = orb.Point{p.X, p.Z}
		}
		lines = append(lines, ls)
	}
	return lines
}

func spineLineStrings(spines []spine.Feature) []orb.LineString {
	lines := make([]orb.LineString, 0, len(spines))
	for _, s := range spines {
		if len(s.Path) < 2 {
			continue
		}
		ls := make(orb.LineString, len(s.Path))
		for i, p := range s.Path {
			ls[i] = orb.Point{p.X, p.Z}
		}
		lines = append(lines, ls)
	}
	return lines
}

// nearestRiverWidthAndDirection finds the width interpolated along the
// nearest river's nearest segment, and the local flow direction, for the
// hydro_sdf G/B channels.
func nearestRiverWidthAndDirection(p orb.Point, rivers []river.Feature) (width, direction float64) {
	best := math.Inf(1)
	for _, r := range rivers {
		if len(r.Path) < 2 {
			continue
		}
		for i := 0; i < len(r.Path)-1; i++ {
			a := orb.Point{r.Path[i].X, r.Path[i].Z}
			b := orb.Point{r.Path[i+1].X, r.Path[i+1].Z}
			t := segmentParam(a, b, p)
			sx := a[0] + t*(b[0]-a[0])
			sz := a[1] + t*(b[1]-a[1])
			d := math.Hypot(p[0]-sx, p[1]-sz)
			if d < best {
				best = d
				width = r.Widths[i] + t*(r.Widths[i+1]-r.Widths[i])
				direction = encodeDirection(b[0]-a[0], b[1]-a[1])
			}
		}
	}
	return width, direction
}

// BakeHydroSDF builds the 4-channel hydrology texture: river distance,
// interpolated width, encoded flow direction, and a depth proxy derived from
// width.
func BakeHydroSDF(rivers []river.Feature, t *worldtemplate.Template) *Texture {
	tex := NewTexture(TextureSize, TextureSize, 4, boundsFromTemplate(t))
	lines := toLineStrings(rivers)

	for pz := 0; pz < tex.Height; pz++ {
		for px := 0; px < tex.Width; px++ {
			wx, wz := texelCenterWorld(tex, px, pz)
			p := orb.Point{wx, wz}

			dist, _, _ := PolylineDistance(p, lines)
			if dist > hydroMaxDistance {
				tex.Set(px, pz, 0, math.Inf(1))
				tex.Set(px, pz, 1, 0)
				tex.Set(px, pz, 2, 0)
				tex.Set(px, pz, 3, 0)
				continue
			}

			width, direction := nearestRiverWidthAndDirection(p, rivers)
			depth := math.Min(1, (width/4)/10)
			tex.Set(px, pz, 0, dist)
			tex.Set(px, pz, 1, width)
			tex.Set(px, pz, 2, direction)
			tex.Set(px, pz, 3, depth)
		}
	}
	return tex
}

// BakeTerrainSDF builds the 4-channel terrain texture: signed ocean
// distance and signed lake distance (both via the raster Euclidean
// distance transform over a land/water mask sampled from the terrain
// sampler) plus mountain-spine distance (via direct polyline projection).
func BakeTerrainSDF(seed uint32, spines []spine.Feature, t *worldtemplate.Template) *Texture {
	tex := NewTexture(TextureSize, TextureSize, 4, boundsFromTemplate(t))
	n := tex.Width

	land := make([]bool, n*n)
	lake := make([]bool, n*n)
	for pz := 0; pz < n; pz++ {
		for px := 0; px < n; px++ {
			wx, wz := texelCenterWorld(tex, px, pz)
			p := terrain.Sample(wx, wz, seed, t)
			idx := pz*n + px
			land[idx] = p.WaterType == terrain.WaterNone
			lake[idx] = p.WaterType == terrain.WaterShallow
		}
	}

	maxDist := t.Shape.Radius
	oceanDistInside := euclideanDistanceTransform(land, n, n, maxDist)
	oceanDistOutside := euclideanDistanceTransform(invert(land), n, n, maxDist)
	lakeDistInside := euclideanDistanceTransform(lake, n, n, maxDist)
	lakeDistOutside := euclideanDistanceTransform(invert(lake), n, n, maxDist)

	spineLines := spineLineStrings(spines)

	for pz := 0; pz < n; pz++ {
		for px := 0; px < n; px++ {
			idx := pz*n + px
			oceanSigned := oceanDistOutside[idx]
			if land[idx] {
				oceanSigned = -oceanDistInside[idx]
			}
			lakeSigned := lakeDistOutside[idx]
			if lake[idx] {
				lakeSigned = -lakeDistInside[idx]
			}

			wx, wz := texelCenterWorld(tex, px, pz)
			spineDist, _, _ := PolylineDistance(orb.Point{wx, wz}, spineLines)

			tex.Set(px, pz, 0, oceanSigned)
			tex.Set(px, pz, 1, spineDist)
			tex.Set(px, pz, 2, lakeSigned)
			tex.Set(px, pz, 3, 0)
		}
	}
	return tex
}

func invert(mask []bool) []bool {
	out := make([]bool, len(mask))
	for i, v := range mask {
		out[i] = !v
	}
	return out
}

// InfraFeature is a single named point or path infrastructure feature
// (road or settlement) the infra_sdf texture bakes against. Roads and
// settlements are extension points the core emits as empty collections
// (the generated world aggregate), so this baker accepts them generically rather
// than importing a concrete roads/settlements package.
type InfraFeature struct {
	Path []orb.Point
	Type float64
}

// BakeInfraSDF builds the 4-channel infrastructure texture: road distance
// and interpolated type, settlement point distance. Both collections are
// typically empty (core emits no roads/settlements), in which case every
// texel reports the sentinel "nothing in range" distance.
func BakeInfraSDF(roads []InfraFeature, settlements []orb.Point, t *worldtemplate.Template) *Texture {
	tex := NewTexture(TextureSize, TextureSize, 4, boundsFromTemplate(t))

	roadLines := make([]orb.LineString, 0, len(roads))
	for _, r := range roads {
		if len(r.Path) >= 2 {
			roadLines = append(roadLines, orb.LineString(r.Path))
		}
	}

	for pz := 0; pz < tex.Height; pz++ {
		for px := 0; px < tex.Width; px++ {
			wx, wz := texelCenterWorld(tex, px, pz)
			p := orb.Point{wx, wz}

			roadDist, roadIdx, roadT := PolylineDistance(p, roadLines)
			roadType := 0.0
			if roadIdx >= 0 {
				roadType = roads[roadIdx].Type * (1 - roadT)
			}

			settlementDist := math.Inf(1)
			for _, s := range settlements {
				d := math.Hypot(p[0]-s[0], p[1]-s[1])
				if d < settlementDist {
					settlementDist = d
				}
			}

			tex.Set(px, pz, 0, roadDist)
			tex.Set(px, pz, 1, roadType)
			tex.Set(px, pz, 2, settlementDist)
			tex.Set(px, pz, 3, 0)
		}
	}
	return tex
}

// climateBlurSigma is the Gaussian blur radius applied to each climate
// channel after sampling, so neighboring texels vary smoothly instead of
// carrying the terrain sampler's per-texel noise texel-for-texel.
const climateBlurSigma = 1.5

// BakeClimateTex builds the 4-channel climate texture by invoking the
// terrain sampler per texel, matching the documented "populated by invoking injected
// samplers per texel", then smooths each channel with a Gaussian blur.
func BakeClimateTex(seed uint32, t *worldtemplate.Template) *Texture {
	tex := NewTexture(TextureSize, TextureSize, 4, boundsFromTemplate(t))
	for pz := 0; pz < tex.Height; pz++ {
		for px := 0; px < tex.Width; px++ {
			wx, wz := texelCenterWorld(tex, px, pz)
			p := terrain.Sample(wx, wz, seed, t)
			tex.Set(px, pz, 0, p.Temperature)
			tex.Set(px, pz, 1, p.Humidity)
			tex.Set(px, pz, 2, erosionProxy(p))
			tex.Set(px, pz, 3, 0)
		}
	}

	smoothChannel(tex, 0, climateBlurSigma)
	smoothChannel(tex, 1, climateBlurSigma)
	smoothChannel(tex, 2, climateBlurSigma)

	return tex
}

// smoothChannel blurs one channel of tex in place with a Gaussian filter.
// The channel is normalized into an 8-bit grayscale image (gift's filters
// operate on image.Image), blurred, then rescaled back into the channel's
// original value range.
func smoothChannel(tex *Texture, channel int, sigma float32) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < tex.Width*tex.Height; i++ {
		v := float64(tex.Data[i*tex.Channels+channel])
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return
	}

	src := image.NewGray(image.Rect(0, 0, tex.Width, tex.Height))
	for pz := 0; pz < tex.Height; pz++ {
		for px := 0; px < tex.Width; px++ {
			v := tex.Get(px, pz, channel)
			src.SetGray(px, pz, color.Gray{Y: uint8((v - lo) / (hi - lo) * 255)})
		}
	}

	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	for pz := 0; pz < tex.Height; pz++ {
		for px := 0; px < tex.Width; px++ {
			norm := float64(dst.GrayAt(px, pz).Y) / 255
			tex.Set(px, pz, channel, lo+norm*(hi-lo))
		}
	}
}

// erosionProxy stands in for a dedicated erosion simulation (out of scope):
// ridgeness combined with humidity approximates where water-driven erosion
// would be most active.
func erosionProxy(p terrain.Params) float64 {
	return math.Min(1, p.Ridgeness*0.6+p.Humidity*0.4)
}
