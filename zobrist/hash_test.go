package zobrist

import (
	"testing"

	"github.com/matryer/is"
)

func TestDeterministicAcrossInstances(t *testing.T) {
	is := is.New(t)
	a := &Zobrist{}
	a.Initialize(3, 4)
	b := &Zobrist{}
	b.Initialize(3, 4)
	for i := 0; i < 12; i++ {
		is.Equal(a.PlacementKey(i, false), b.PlacementKey(i, false))
		is.Equal(a.PlacementKey(i, true), b.PlacementKey(i, true))
	}
	is.Equal(a.SideToMoveKey(), b.SideToMoveKey())
}

func TestKeysNonzeroAndDistinct(t *testing.T) {
	is := is.New(t)
	z := For(5, 5)
	seen := map[uint64]bool{}
	for i := 0; i < 25; i++ {
		h := z.PlacementKey(i, false)
		v := z.PlacementKey(i, true)
		is.True(h != 0)
		is.True(v != 0)
		is.True(h != v)
		is.True(!seen[h])
		is.True(!seen[v])
		seen[h] = true
		seen[v] = true
	}
	is.True(z.SideToMoveKey() != 0)
}

func TestForCachesPerDimensions(t *testing.T) {
	is := is.New(t)
	is.Equal(For(3, 4), For(3, 4)) // same shared table
	is.True(For(3, 4) != For(4, 3))
	is.True(For(3, 4).PlacementKey(0, false) != For(4, 3).PlacementKey(0, false))
}
