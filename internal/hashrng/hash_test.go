package hashrng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash32Deterministic(t *testing.T) {
	a := Hash32(42, 10, -5, 7)
	b := Hash32(42, 10, -5, 7)
	assert.Equal(t, a, b)
}

func TestHash32VariesWithInputs(t *testing.T) {
	base := Hash32(42, 10, -5, 7)
	assert.NotEqual(t, base, Hash32(43, 10, -5, 7))
	assert.NotEqual(t, base, Hash32(42, 11, -5, 7))
	assert.NotEqual(t, base, Hash32(42, 10, -4, 7))
	assert.NotEqual(t, base, Hash32(42, 10, -5, 8))
}

func TestHashUnitRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := HashUnit(uint32(i), int32(i*3), int32(-i), uint32(i*7))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestDeriveSeedDependsOnSalt(t *testing.T) {
	a := DeriveSeed(1234, "spines")
	b := DeriveSeed(1234, "rivers")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, DeriveSeed(1234, "spines"))
}

func TestDeriveContinentSeedVariesById(t *testing.T) {
	a := DeriveContinentSeed(999, 1)
	b := DeriveContinentSeed(999, 2)
	assert.NotEqual(t, a, b)
}

func TestRNGSameSeedSameSequence(t *testing.T) {
	r1 := New(777)
	r2 := New(777)
	for i := 0; i < 50; i++ {
		assert.Equal(t, r1.Float64(), r2.Float64())
	}
}

func TestRNGFloat64Range(t *testing.T) {
	r := New(1)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestShuffleCommutesWithSeed(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	a := append([]int(nil), items...)
	Shuffle(New(55), a)

	b := append([]int(nil), items...)
	Shuffle(New(55), b)

	assert.Equal(t, a, b)
}

func TestSelectIsDeterministicAndDistinct(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	sel := Select(New(3), items, 3)
	assert.Len(t, sel, 3)
	assert.Equal(t, sel, Select(New(3), items, 3))

	seen := map[string]bool{}
	for _, s := range sel {
		assert.False(t, seen[s], "duplicate selection")
		seen[s] = true
	}
}

func TestWeightedSelectRespectsZeroWeights(t *testing.T) {
	weights := []float64{0, 0, 5}
	for i := 0; i < 20; i++ {
		idx := WeightedSelect(New(uint32(i)), weights)
		assert.Equal(t, 2, idx)
	}
}

func TestWeightedSelectEmpty(t *testing.T) {
	assert.Equal(t, -1, WeightedSelect(New(1), nil))
	assert.Equal(t, -1, WeightedSelect(New(1), []float64{0, -1}))
}

func TestSeededNormalIsFinite(t *testing.T) {
	r := New(2024)
	for i := 0; i < 1000; i++ {
		v := r.SeededNormal()
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "got non-finite value")
	}
}
