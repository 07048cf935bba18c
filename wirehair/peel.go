package wirehair

// Peeling solver (spec.md §4.E), grounded on the reference's
// OpportunisticPeeling / Peel / PeelAvalanche / GreedyPeeling. Rows and
// columns are flat arrays indexed by small integer handles, threaded with
// intrusive next-links, per the index-arena design note in spec.md §9 —
// no owning back-edges, no per-node allocation once setup has sized the
// arenas.

const listEnd = -1

// refListMax bounds the number of rows that may reference a single peel
// column before opportunistic peeling gives up on the offending row. This
// only triggers with pathological parameters (see spec.md §7).
const refListMax = 64

type columnMark uint8

const (
	markTodo columnMark = iota
	markPeel
	markDefer
)

// peelRow mirrors the reference's PeelRow: shape generator output plus
// peeling state. Unmarked[0:2] is the weight-2 memo used by the avalanche;
// it is only meaningful while the row is still being peeled.
type peelRow struct {
	next          int // linkage in peeled-order or deferred-stack list
	id            uint32
	shape         rowShape
	unmarkedCount int
	unmarked      [2]int
	peelColumn    int  // solved column, or -1 while deferred/unsolved
	isCopied      bool // recovery slot has received this row's contribution
}

// peelColumn mirrors the reference's PeelColumn.
type peelColumn struct {
	next     int
	mark     columnMark
	w2Refs   int // valid while mark == markTodo
	peelRow  int // valid once mark == markPeel
	geColumn int // valid once mark == markDefer
}

// solver holds everything the peeling and compression phases need, indexed
// by row handle (0..rowCap) and peel-column handle (0..N).
type solver struct {
	blockCount      int // N
	addedCount      int // H = L + D
	blockNextPrime  uint16
	addedNextPrime  uint16
	lightCount      int
	lightNextPrime  uint16

	rows    []peelRow
	columns []peelColumn
	refs    [][]int // per peel-column list of referencing row handles

	peeledHead, peeledTail int // list of peeled rows, in peel order (I4)
	deferredRowHead        int // stack of deferred rows
	deferredColHead        int // list of deferred columns, discovery order
	deferredColTail        int
	deferredCount          int

	rowCount int // rows actually populated so far
}

func newSolver(blockCount, addedCount, lightCount int, blockNextPrime, addedNextPrime, lightNextPrime uint16, rowCapacity int) *solver {
	s := &solver{
		blockCount:     blockCount,
		addedCount:     addedCount,
		lightCount:     lightCount,
		blockNextPrime: blockNextPrime,
		addedNextPrime: addedNextPrime,
		lightNextPrime: lightNextPrime,
		rows:           make([]peelRow, rowCapacity),
		columns:        make([]peelColumn, blockCount),
		refs:           make([][]int, blockCount),
		peeledHead:      listEnd,
		peeledTail:      listEnd,
		deferredRowHead: listEnd,
		deferredColHead: listEnd,
		deferredColTail: listEnd,
	}
	for c := range s.columns {
		s.columns[c] = peelColumn{next: listEnd, mark: markTodo}
	}
	return s
}

// rowColumns materializes the w peel columns a row's shape covers.
func (s *solver) rowColumns(shape rowShape) []int {
	it := newPeelColumnIterator(shape, uint16(s.blockCount), s.blockNextPrime)
	cols := make([]int, 0, shape.peelWeight)
	for {
		c, ok := it.next()
		if !ok {
			break
		}
		cols = append(cols, int(c))
	}
	return cols
}

// opportunisticPeel processes one received row: row handle rowIdx must
// already hold a populated shape/id. Returns ErrBadInput if a column's
// reference list would overflow.
func (s *solver) opportunisticPeel(rowIdx int) error {
	row := &s.rows[rowIdx]
	cols := s.rowColumns(row.shape)

	row.unmarkedCount = 0
	row.unmarked = [2]int{-1, -1}

	for _, c := range cols {
		if len(s.refs[c]) >= refListMax {
			return ErrBadInput
		}
		s.refs[c] = append(s.refs[c], rowIdx)

		if s.columns[c].mark == markTodo {
			if row.unmarkedCount < 2 {
				row.unmarked[row.unmarkedCount] = c
			}
			row.unmarkedCount++
		}
	}

	switch {
	case row.unmarkedCount == 0:
		s.pushDeferredRow(rowIdx)
	case row.unmarkedCount == 1:
		s.peel(rowIdx, row.unmarked[0])
	default:
		// unmarkedCount >= 2: memoize the first two and bump w2Refs only
		// when exactly two are unmarked (the memo is meaningless above 2,
		// but bumping w2Refs only happens here per the reference).
		if row.unmarkedCount == 2 {
			s.columns[row.unmarked[0]].w2Refs++
			s.columns[row.unmarked[1]].w2Refs++
		}
	}
	return nil
}

func (s *solver) pushDeferredRow(rowIdx int) {
	s.rows[rowIdx].next = s.deferredRowHead
	s.deferredRowHead = rowIdx
}

func (s *solver) pushPeeledRow(rowIdx int) {
	s.rows[rowIdx].next = listEnd
	if s.peeledTail == listEnd {
		s.peeledHead = rowIdx
	} else {
		s.rows[s.peeledTail].next = rowIdx
	}
	s.peeledTail = rowIdx
}

// peel marks column c Peeled, solved by row rowIdx, appends rowIdx to the
// peeled list (preserving I4's topological order) and runs the avalanche.
func (s *solver) peel(rowIdx, c int) {
	s.columns[c].mark = markPeel
	s.columns[c].peelRow = rowIdx
	s.rows[rowIdx].peelColumn = c
	s.pushPeeledRow(rowIdx)
	s.peelAvalanche(c)
}

// peelAvalanche reduces unmarkedCount on every row referencing c, cascading
// further peels and refreshing the weight-2 memo exactly as the reference
// does (spec.md §4.E / §9's weight-2-memo open question).
func (s *solver) peelAvalanche(c int) {
	for _, r := range s.refs[c] {
		row := &s.rows[r]
		if row.peelColumn == c {
			// r is the row that just solved c; nothing to reduce on itself.
			continue
		}
		if row.unmarkedCount == 0 {
			// already deferred or peeled from another column
			continue
		}
		row.unmarkedCount--

		switch row.unmarkedCount {
		case 1:
			other := row.unmarked[0]
			if other == c {
				other = row.unmarked[1]
			}
			if other != -1 && s.columns[other].mark == markTodo {
				s.peel(r, other)
				continue
			}
			// memo stale: re-scan for the true unmarked column.
			if found, ok := s.rescanUnmarked(r, 1); ok {
				s.peel(r, found[0])
			}
		case 2:
			found, ok := s.rescanUnmarked(r, 2)
			if ok {
				row.unmarked = [2]int{found[0], found[1]}
				s.columns[found[0]].w2Refs++
				s.columns[found[1]].w2Refs++
			}
		case 0:
			s.pushDeferredRow(r)
		}
	}
}

// rescanUnmarked re-derives a row's Todo columns from its shape, used when
// the weight-2 memo has gone stale.
func (s *solver) rescanUnmarked(rowIdx, want int) ([2]int, bool) {
	row := &s.rows[rowIdx]
	var found [2]int
	n := 0
	for _, c := range s.rowColumns(row.shape) {
		if s.columns[c].mark == markTodo {
			if n < 2 {
				found[n] = c
			}
			n++
		}
	}
	if n != want {
		// shouldn't happen if unmarkedCount bookkeeping is consistent
		return found, n > 0
	}
	return found, true
}

// greedyDefer runs once after all rows have been fed: repeatedly defer the
// Todo column with the largest w2Refs (ties broken by most referencing
// rows), triggering avalanches, until no Todo columns remain.
func (s *solver) greedyDefer() {
	for {
		best := -1
		bestW2 := -1
		bestRows := -1
		for c := range s.columns {
			if s.columns[c].mark != markTodo {
				continue
			}
			w2 := s.columns[c].w2Refs
			rc := len(s.refs[c])
			if w2 > bestW2 || (w2 == bestW2 && rc > bestRows) {
				best, bestW2, bestRows = c, w2, rc
			}
		}
		if best == -1 {
			return
		}
		s.deferColumn(best)
	}
}

func (s *solver) deferColumn(c int) {
	s.columns[c].mark = markDefer
	s.columns[c].next = listEnd
	if s.deferredColTail == listEnd {
		s.deferredColHead = c
	} else {
		s.columns[s.deferredColTail].next = c
	}
	s.deferredColTail = c
	s.deferredCount++
	s.peelAvalanche(c)
}

// assignDeferredGEColumns walks the deferred-column list in discovery order
// and assigns each a GE-column index, per SetDeferredColumns (spec.md §4.F.1).
func (s *solver) assignDeferredGEColumns() {
	idx := 0
	for c := s.deferredColHead; c != listEnd; c = s.columns[c].next {
		s.columns[c].geColumn = idx
		idx++
	}
}
