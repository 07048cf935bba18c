package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// debugAssertInvariants gates the invariant checks below, the Go-test
// equivalent of the reference's debug-build self-check mode (spec.md §9):
// compiled into the test binary and on by default; setting it to false
// turns the checks into no-ops.
var debugAssertInvariants = true

// assertColumnPartitionInvariant checks I3: every peel column is exactly one
// of {Peeled with one solving row, Deferred}, and the deferred column count
// matches the solver's own bookkeeping.
func assertColumnPartitionInvariant(t *testing.T, s *solver) {
	t.Helper()
	if !debugAssertInvariants {
		return
	}
	deferred := 0
	for c := range s.columns {
		switch s.columns[c].mark {
		case markPeel:
			require.GreaterOrEqual(t, s.columns[c].peelRow, 0, "peeled column %d has no solving row", c)
		case markDefer:
			deferred++
		default:
			t.Fatalf("column %d left markTodo after greedyDefer", c)
		}
	}
	require.Equal(t, deferred, s.deferredCount)
}

// assertPeelOrderInvariant walks the peeled list in order and checks that no
// two rows in it claim the same solved column. It does not check the
// topological order of I4.
func assertPeelOrderInvariant(t *testing.T, s *solver) {
	t.Helper()
	if !debugAssertInvariants {
		return
	}
	seen := make(map[int]bool)
	for r := s.peeledHead; r != listEnd; r = s.rows[r].next {
		col := s.rows[r].peelColumn
		require.False(t, seen[col], "column %d peeled by more than one row", col)
		seen[col] = true
	}
}

func TestInvariantsHoldAfterGreedyDeferOnRandomRows(t *testing.T) {
	const n, h, light = 64, 10, 8
	p := nextPrime16(uint32(n - 1))
	s := newSolver(n, h, light, p, p, p, n+16)

	for i := 0; i < n; i++ {
		shape := generateRowShape(uint32(i), 0x5eed, uint16(n), uint16(h))
		s.rows[i] = peelRow{shape: shape, peelColumn: -1}
		s.rowCount++
		require.NoError(t, s.opportunisticPeel(i))
	}
	s.greedyDefer()

	assertColumnPartitionInvariant(t, s)
	assertPeelOrderInvariant(t, s)
}
