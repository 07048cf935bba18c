package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// weight1Shape builds a row shape whose peel region is the single column
// col, using the iterator's own modulus/prime so rowColumns sees exactly one
// entry regardless of blockCount.
func weight1Shape(col uint16) rowShape {
	return rowShape{peelWeight: 1, peelA: 1, peelX0: col}
}

// weight2Shape builds a row shape covering exactly columns a and b (a != b),
// relying on iterateNextColumn stepping by 1 from a to reach b when b == a+1
// mod blockCount; tests below only use adjacent pairs to keep this exact.
func weight2Shape(a uint16) rowShape {
	return rowShape{peelWeight: 2, peelA: 1, peelX0: a}
}

func newTestSolver(n int) *solver {
	p := nextPrime16(uint32(n - 1))
	return newSolver(n, 4, 2, p, p, p, n+4)
}

func TestOpportunisticPeelWeightOneSolvesImmediately(t *testing.T) {
	s := newTestSolver(8)
	s.rows[0] = peelRow{shape: weight1Shape(3), peelColumn: -1}
	s.rowCount = 1

	require.NoError(t, s.opportunisticPeel(0))
	require.Equal(t, markPeel, s.columns[3].mark)
	require.Equal(t, 0, s.columns[3].peelRow)
	require.Equal(t, 0, s.peeledHead)
}

func TestOpportunisticPeelAvalanche(t *testing.T) {
	s := newTestSolver(8)
	// Build a genuine avalanche: row0={0,1}, row1={1} alone.
	s.rows[0] = peelRow{shape: weight2Shape(0), peelColumn: -1}
	s.rows[1] = peelRow{shape: weight1Shape(1), peelColumn: -1}
	s.rowCount = 2

	require.NoError(t, s.opportunisticPeel(0))
	require.Equal(t, markTodo, s.columns[0].mark)
	require.Equal(t, markTodo, s.columns[1].mark)

	require.NoError(t, s.opportunisticPeel(1))
	require.Equal(t, markPeel, s.columns[1].mark)
	// row 0 had columns {0,1}; column 1 just solved, so its avalanche should
	// have reduced row 0 to weight 1 and peeled column 0 with it.
	require.Equal(t, markPeel, s.columns[0].mark)
	require.Equal(t, 0, s.columns[0].peelRow)
}

func TestOpportunisticPeelTwoUnmarkedStaysTodo(t *testing.T) {
	s := newTestSolver(8)
	s.rows[0] = peelRow{shape: weight2Shape(5), peelColumn: -1}
	s.rows[1] = peelRow{shape: weight2Shape(5), peelColumn: -1}
	s.rowCount = 2

	require.NoError(t, s.opportunisticPeel(0))
	require.NoError(t, s.opportunisticPeel(1))
	// Neither row has a uniquely-unmarked column (both cover {5,6}), so both
	// stay Todo until greedyDefer forces a decision.
	require.Equal(t, markTodo, s.columns[5].mark)
	require.Equal(t, markTodo, s.columns[6].mark)
}

func TestGreedyDeferResolvesRemainingTodoColumns(t *testing.T) {
	s := newTestSolver(8)
	s.rows[0] = peelRow{shape: weight2Shape(5), peelColumn: -1}
	s.rows[1] = peelRow{shape: weight2Shape(5), peelColumn: -1}
	s.rowCount = 2
	require.NoError(t, s.opportunisticPeel(0))
	require.NoError(t, s.opportunisticPeel(1))

	s.greedyDefer()

	for c := range s.columns {
		require.NotEqual(t, markTodo, s.columns[c].mark, "column %d left unresolved after greedyDefer", c)
	}
}

func TestAssignDeferredGEColumnsIsContiguousFromZero(t *testing.T) {
	s := newTestSolver(8)
	s.deferColumn(2)
	s.deferColumn(5)
	s.deferColumn(1)

	s.assignDeferredGEColumns()
	seen := make(map[int]bool)
	for col := s.deferredColHead; col != listEnd; col = s.columns[col].next {
		seen[s.columns[col].geColumn] = true
	}
	require.Len(t, seen, 3)
	for i := 0; i < 3; i++ {
		require.True(t, seen[i], "ge column index %d missing", i)
	}
}
