package sdf

import "math"

// edtContext holds the scratch buffers for one run of the separable
// Euclidean distance transform; each call allocates a fresh one.
type edtContext struct {
	v      []int
	z      []float64
	temp   []float64
	isEdge []bool
	rowBuf []float64
	colBuf []float64
}

func newEDTContext(maxDim int) *edtContext {
	return &edtContext{
		v:      make([]int, maxDim),
		z:      make([]float64, maxDim+1),
		temp:   make([]float64, maxDim*maxDim),
		isEdge: make([]bool, maxDim*maxDim),
		rowBuf: make([]float64, maxDim),
		colBuf: make([]float64, maxDim),
	}
}

// euclideanDistanceTransform computes, for every inside cell, the Euclidean
// distance in cells to the nearest inside cell that borders a non-inside
// cell or the grid edge (such boundary cells get 0), using the
// Felzenszwalb & Huttenlocher separable parabola lower-envelope method.
// Non-inside cells get 0. Distances are capped at maxDistance.
func euclideanDistanceTransform(inside []bool, width, height int, maxDistance float64) []float64 {
	ctx := newEDTContext(max(width, height))
	infinity := maxDistance * maxDistance * 2.0

	temp := ctx.temp
	isEdge := ctx.isEdge

	for i := range isEdge[:width*height] {
		isEdge[i] = false
	}

	at := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return inside[y*width+x]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !inside[y*width+x] {
				continue
			}
			if !at(x-1, y) || !at(x+1, y) || !at(x, y-1) || !at(x, y+1) {
				isEdge[y*width+x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			switch {
			case !inside[idx]:
				temp[idx] = infinity
			case isEdge[idx]:
				temp[idx] = 0
			default:
				temp[idx] = infinity
			}
		}
	}

	rowBuf := ctx.rowBuf
	colBuf := ctx.colBuf

	for y := 0; y < height; y++ {
		rowStart := y * width
		copy(rowBuf[:width], temp[rowStart:rowStart+width])
		distanceTransform1D(rowBuf[:width], rowBuf[:width], ctx.v, ctx.z)
		copy(temp[rowStart:rowStart+width], rowBuf[:width])
	}

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			colBuf[y] = temp[y*width+x]
		}
		distanceTransform1D(colBuf[:height], colBuf[:height], ctx.v, ctx.z)
		for y := 0; y < height; y++ {
			temp[y*width+x] = colBuf[y]
		}
	}

	out := make([]float64, width*height)
	maxDistSq := maxDistance * maxDistance
	for i := range out {
		if !inside[i] {
			out[i] = 0
			continue
		}
		distSq := temp[i]
		if distSq >= maxDistSq {
			out[i] = maxDistance
		} else {
			out[i] = math.Sqrt(distSq)
		}
	}
	return out
}

// distanceTransform1D is the one-dimensional parabola-envelope pass the 2D
// transform applies along rows then columns.
func distanceTransform1D(input, output []float64, v []int, z []float64) {
	n := len(input)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		for k >= 0 {
			s = ((input[q] + float64(q*q)) - (input[v[k]] + float64(v[k]*v[k]))) / (2.0 * float64(q-v[k]))
			if s <= z[k] {
				k--
			} else {
				break
			}
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		output[q] = dx*dx + input[v[k]]
	}
}
