package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRowShapeDeterministic(t *testing.T) {
	a := generateRowShape(123, 0xabc, 1024, 30)
	b := generateRowShape(123, 0xabc, 1024, 30)
	require.Equal(t, a, b)
}

func TestPeelColumnIteratorStaysInRangeAndDistinct(t *testing.T) {
	shape := generateRowShape(7, 0x1234, 256, 19)
	p := nextPrime16(uint32(256 - 1))
	it := newPeelColumnIterator(shape, 256, p)

	seen := make(map[uint16]bool)
	n := 0
	for {
		col, ok := it.next()
		if !ok {
			break
		}
		require.Less(t, col, uint16(256))
		require.False(t, seen[col], "peel column iterator repeated column %d", col)
		seen[col] = true
		n++
	}
	require.Equal(t, int(shape.peelWeight), n)
}

func TestMixColumnIteratorAlwaysWeightThree(t *testing.T) {
	shape := generateRowShape(8, 0x1234, 256, 19)
	p := nextPrime16(uint32(19 - 1))
	it := newMixColumnIterator(shape, 19, p)

	n := 0
	for {
		col, ok := it.next()
		if !ok {
			break
		}
		require.Less(t, col, uint16(19))
		n++
	}
	require.Equal(t, mixWeight, n)
}

func TestIterateNextColumnWrapsWithinModulus(t *testing.T) {
	m := uint16(10)
	p := nextPrime16(uint32(m - 1))
	x := uint16(8)
	for i := 0; i < 50; i++ {
		x = iterateNextColumn(x, m, p, 3)
		require.Less(t, x, m)
	}
}
