package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatsChoiceDeterministic(t *testing.T) {
	var a, b catsChoice
	a.initializeID(42, 0xdeadbeef)
	b.initializeID(42, 0xdeadbeef)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.next(), b.next(), "same seed must produce same stream at step %d", i)
	}
}

func TestCatsChoiceDifferentSeedsDiverge(t *testing.T) {
	var a, b catsChoice
	a.initializeID(1, 0xdeadbeef)
	b.initializeID(2, 0xdeadbeef)
	same := 0
	const n = 64
	for i := 0; i < n; i++ {
		if a.next() == b.next() {
			same++
		}
	}
	require.Less(t, same, n, "different ids should not produce an identical stream")
}

func TestNextPrime16(t *testing.T) {
	cases := []struct{ n uint32; want uint16 }{
		{0, 1}, {1, 1}, {2, 2}, {3, 3}, {4, 5}, {6, 7},
		{8, 11}, {9, 11}, {10, 11}, {11, 11},
		{100, 101}, {200, 211},
	}
	for _, c := range cases {
		got := nextPrime16(c.n)
		require.True(t, isPrimeOrOne(got), "nextPrime16(%d) = %d not prime", c.n, got)
		require.GreaterOrEqual(t, got, uint16(c.n))
		require.Equal(t, c.want, got, "nextPrime16(%d)", c.n)
	}
}

func isPrimeOrOne(n uint16) bool {
	if n <= 1 {
		return true
	}
	for p := uint16(2); uint32(p)*uint32(p) <= uint32(n); p++ {
		if n%p == 0 {
			return false
		}
	}
	return true
}

func TestGeneratePeelRowWeightClampsToMax(t *testing.T) {
	got := generatePeelRowWeight(0xfffff, 3)
	require.LessOrEqual(t, got, uint16(3))
}

func TestShuffleDeck16IsPermutation(t *testing.T) {
	var prng catsChoice
	prng.initialize(7)
	deck := make([]uint16, 20)
	shuffleDeck16(&prng, deck, 20)

	seen := make(map[uint16]bool, 20)
	for _, v := range deck {
		require.False(t, seen[v], "duplicate value %d in shuffled deck", v)
		seen[v] = true
		require.Less(t, v, uint16(20))
	}
	require.Len(t, seen, 20)
}

func TestAddInvertibleGF2MatrixIsUnitUpperTriangular(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17, 64, 255, 600} {
		m := newBitmatrix(n, n)
		addInvertibleGF2Matrix(m, 0, 0, n)
		for i := 0; i < n; i++ {
			require.True(t, m.bit(i, i), "n=%d: diagonal bit %d must be set", n, i)
			for j := 0; j < i; j++ {
				require.False(t, m.bit(i, j), "n=%d: below-diagonal bit (%d,%d) must be zero", n, i, j)
			}
		}
	}
}

func TestAddInvertibleGF2MatrixVariesAboveDiagonal(t *testing.T) {
	// With n large enough, the strictly-upper-triangular fill should not be
	// all-zero; otherwise this degenerates into a plain identity matrix.
	m := newBitmatrix(64, 64)
	addInvertibleGF2Matrix(m, 0, 0, 64)
	anySet := false
	for i := 0; i < 64; i++ {
		for j := i + 1; j < 64; j++ {
			if m.bit(i, j) {
				anySet = true
			}
		}
	}
	require.True(t, anySet, "expected at least one above-diagonal bit set across a 64x64 fill")
}

func TestAddInvertibleGF2MatrixOffsetPlacement(t *testing.T) {
	m := newBitmatrix(10, 10)
	addInvertibleGF2Matrix(m, 2, 3, 4)
	for i := 0; i < 4; i++ {
		require.True(t, m.bit(2+i, 3+i))
	}
}
