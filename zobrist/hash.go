package zobrist

import (
	"encoding/binary"
	"sync"

	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// Zobrist holds the random keys for hashing a domineering position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Every occupied cell contributes one key, chosen by the orientation of
// the domino covering it, and an extra key is mixed in when the
// vertical side is to move. Keys are drawn from a ChaCha stream seeded
// by the board dimensions, so fingerprints for a given board size are
// identical across processes; table files written by one run stay
// valid in the next.
type Zobrist struct {
	vertToMove uint64
	posTable   [][2]uint64

	rows, cols int
}

func (z *Zobrist) Initialize(rows, cols int) {
	z.rows = rows
	z.cols = cols
	rng := frand.NewCustom(seedFor(rows, cols), 1024, 12)
	z.posTable = make([][2]uint64, rows*cols)
	for i := range z.posTable {
		z.posTable[i][0] = rng.Uint64n(bignum) + 1
		z.posTable[i][1] = rng.Uint64n(bignum) + 1
	}
	z.vertToMove = rng.Uint64n(bignum) + 1
}

// PlacementKey returns the key for one occupied cell, given the flat
// row-major cell index and the orientation of the domino covering it.
func (z *Zobrist) PlacementKey(idx int, vertical bool) uint64 {
	if vertical {
		return z.posTable[idx][1]
	}
	return z.posTable[idx][0]
}

// SideToMoveKey is XORed into a hash when the vertical side is to move.
func (z *Zobrist) SideToMoveKey() uint64 {
	return z.vertToMove
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func seedFor(rows, cols int) []byte {
	seed := make([]byte, 32)
	x := uint64(rows)<<32 | uint64(cols)
	for i := 0; i < 4; i++ {
		x = hashUint64(x)
		binary.LittleEndian.PutUint64(seed[8*i:], x)
		x++
	}
	return seed
}

var (
	mu     sync.Mutex
	tables = map[[2]int]*Zobrist{}
)

// For returns the shared key table for the given dimensions, building
// it on first use. Boards of different sizes hash through different
// tables, so their fingerprints never collide by construction.
func For(rows, cols int) *Zobrist {
	mu.Lock()
	defer mu.Unlock()
	key := [2]int{rows, cols}
	if z, ok := tables[key]; ok {
		return z
	}
	z := &Zobrist{}
	z.Initialize(rows, cols)
	tables[key] = z
	return z
}
