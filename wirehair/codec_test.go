package wirehair

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomMessage(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	rng := rand.New(rand.NewSource(1))
	_, err := rng.Read(b)
	require.NoError(t, err)
	return b
}

func TestEncodeDecodeRoundTripNoLoss(t *testing.T) {
	const n, m = 16, 64
	message := randomMessage(t, n*m)

	enc, err := NewEncoder(Params{T: len(message), M: m})
	require.NoError(t, err)
	require.NoError(t, enc.EncodeFeed(message))

	dec, err := NewDecoder(Params{T: len(message), M: m})
	require.NoError(t, err)

	block := make([]byte, m)
	var solved bool
	for id := 0; id < n; id++ {
		enc.Encode(uint32(id), block)
		err := dec.DecodeFeed(uint32(id), block)
		if err == nil {
			solved = true
			break
		}
		require.ErrorIs(t, err, ErrMoreBlocks)
	}
	require.True(t, solved)

	out := make([]byte, len(message))
	require.NoError(t, dec.ReconstructOutput(out))
	require.True(t, bytes.Equal(out, message))
}

func TestEncodeDecodeRoundTripWithLossAndResume(t *testing.T) {
	const n, m = 16, 64
	message := randomMessage(t, n*m)

	enc, err := NewEncoder(Params{T: len(message), M: m})
	require.NoError(t, err)
	require.NoError(t, enc.EncodeFeed(message))

	dec, err := NewDecoder(Params{T: len(message), M: m})
	require.NoError(t, err)

	// Drop every third systematic block, rely on extra repair blocks to
	// fill the rank back up via ResumeSolveMatrix.
	block := make([]byte, m)
	var solved bool
	ids := make([]int, 0, n+8)
	for id := 0; id < n; id++ {
		if id%3 == 1 {
			continue
		}
		ids = append(ids, id)
	}
	for id := n; id < n+8; id++ {
		ids = append(ids, id)
	}

	for _, id := range ids {
		enc.Encode(uint32(id), block)
		err := dec.DecodeFeed(uint32(id), block)
		if err == nil {
			solved = true
			break
		}
		require.ErrorIs(t, err, ErrMoreBlocks)
	}
	require.True(t, solved, "decoder never reached a solved state")

	out := make([]byte, len(message))
	require.NoError(t, dec.ReconstructOutput(out))
	require.True(t, bytes.Equal(out, message))
}

func TestNewEncoderRejectsBadInput(t *testing.T) {
	_, err := NewEncoder(Params{T: 0, M: 10})
	require.ErrorIs(t, err, ErrBadInput)

	_, err = NewEncoder(Params{T: 100, M: 0})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestNewEncoderRejectsUntabulatedBlockCount(t *testing.T) {
	// T/M chosen so the resulting block count (3) is not in matrixParamTable.
	_, err := NewEncoder(Params{T: 30, M: 10})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestEncodeFeedRejectsWrongLength(t *testing.T) {
	enc, err := NewEncoder(Params{T: 16 * 64, M: 64})
	require.NoError(t, err)
	require.Error(t, enc.EncodeFeed(make([]byte, 10)))
}
