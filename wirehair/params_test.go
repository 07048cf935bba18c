package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupMatrixParamsKnownSizes(t *testing.T) {
	light, dense, ok := lookupMatrixParams(1024)
	require.True(t, ok)
	require.Equal(t, 18, light)
	require.Equal(t, 12, dense)
}

func TestLookupMatrixParamsUntabulated(t *testing.T) {
	_, _, ok := lookupMatrixParams(1023)
	require.False(t, ok)
}

func TestDerivedSeedsDeterministicAndDistinctAcrossN(t *testing.T) {
	p1, c1 := derivedSeeds(1024)
	p2, c2 := derivedSeeds(1024)
	require.Equal(t, p1, p2)
	require.Equal(t, c1, c2)

	p3, c3 := derivedSeeds(2048)
	require.NotEqual(t, p1, p3)
	require.NotEqual(t, c1, c3)
}
