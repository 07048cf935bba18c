package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmatrixSetClearFlip(t *testing.T) {
	m := newBitmatrix(4, 130) // exercises the multi-word pitch path
	require.False(t, m.bit(2, 65))
	m.setBit(2, 65)
	require.True(t, m.bit(2, 65))
	m.clearBit(2, 65)
	require.False(t, m.bit(2, 65))
	m.flipBit(2, 65)
	require.True(t, m.bit(2, 65))
	m.flipBit(2, 65)
	require.False(t, m.bit(2, 65))
}

func TestBitmatrixXorRowSelfInto(t *testing.T) {
	m := newBitmatrix(3, 70)
	m.setBit(0, 3)
	m.setBit(0, 69)
	m.setBit(1, 3)
	m.xorRowSelfInto(1, 0)
	require.False(t, m.bit(1, 3), "shared bit should cancel")
	require.True(t, m.bit(1, 69))
}

func TestBitmatrixSwapRows(t *testing.T) {
	m := newBitmatrix(2, 10)
	m.setBit(0, 1)
	m.setBit(1, 5)
	m.swapRows(0, 1)
	require.True(t, m.bit(0, 5))
	require.True(t, m.bit(1, 1))
}

func TestBitmatrixFirstSetBitFrom(t *testing.T) {
	m := newBitmatrix(1, 200)
	m.setBit(0, 150)
	require.Equal(t, 150, m.firstSetBitFrom(0, 0))
	require.Equal(t, 150, m.firstSetBitFrom(0, 100))
	require.Equal(t, -1, m.firstSetBitFrom(0, 151))
}

func TestBitmatrixClearRow(t *testing.T) {
	m := newBitmatrix(1, 70)
	m.setBit(0, 3)
	m.setBit(0, 68)
	m.clearRow(0)
	require.False(t, m.bit(0, 3))
	require.False(t, m.bit(0, 68))
}
