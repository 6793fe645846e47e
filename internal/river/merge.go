package river

import (
	"math"

	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// mergeTributaries implements the tributary merge: for every
// ordered pair (i<j), if tributary j's mouth lands within
// cfg.TributaryMergeDist of main river i, the tributary is tagged as merged
// (but never deleted), the main channel is widened downstream of the
// junction, and the tributary's final elevations are eased toward the main
// channel's elevation at the junction.
func mergeTributaries(features []Feature, cfg Config) {
	for i := range features {
		for j := i + 1; j < len(features); j++ {
			if features[j].Properties.MergedInto != "" {
				continue
			}
			main := &features[i]
			trib := &features[j]
			if len(trib.Path) == 0 || len(main.Path) == 0 {
				continue
			}

			mouth := trib.Path[len(trib.Path)-1]
			junction, dist := nearestIndex(main.Path, mouth)
			if dist >= cfg.TributaryMergeDist {
				continue
			}

			widenDownstream(main, junction, trib.Widths[len(trib.Widths)-1])
			easeElevations(trib, main.Elevations[junction])

			trib.Properties.MergedInto = main.ID
			jp := main.Path[junction]
			trib.Properties.JunctionPoint = &jp
		}
	}
}

func nearestIndex(path []worldtemplate.Point2, p worldtemplate.Point2) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for i, q := range path {
		d := math.Hypot(p.X-q.X, p.Z-q.Z)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}

// widenDownstream adds half the tributary's mouth width to the main channel
// at every index at or past the junction.
func widenDownstream(main *Feature, junction int, tribWidth float64) {
	add := tribWidth * 0.5
	for i := junction; i < len(main.Widths); i++ {
		main.Widths[i] += add
	}
}

// easeElevations blends the tributary's last min(5, len-1) elevations toward
// the main channel's elevation at the junction, with quadratic easing
// strongest right at the mouth.
func easeElevations(trib *Feature, junctionElevation float64) {
	n := len(trib.Elevations)
	count := 5
	if n-1 < count {
		count = n - 1
	}
	if count <= 0 {
		return
	}
	for k := 0; k < count; k++ {
		idx := n - 1 - k
		t := 1 - float64(k)/float64(count)
		ease := t * t
		trib.Elevations[idx] = trib.Elevations[idx]*(1-ease) + junctionElevation*ease
	}
}
