package wirehair

// Substituter (spec.md §4.H), grounded on the reference's
// InitializeColumnValues / AddCheckValues / AddSubdiagonalValues /
// BackSubstituteAboveDiagonal / PeeledSubstitute. Runs once Triangle has
// fully triangulated the GE square (resumePivot == -1).
//
// CAT_REUSE_COMPRESS is intentionally not implemented: spec.md §9 licenses
// omitting it ("tested but unused, kept for reference"), and the windowed
// pass below draws its scratch from peeled recovery slots, documented at
// windowedSubstitute below, instead of a separate reuse path.

// windowThresholds mirrors CAT_WINDOW_THRESHOLD_4..7: rank below 24 uses
// the naive back-substitution; above each threshold, windows widen.
var windowThresholds = [...]struct {
	minRank int
	width   int
}{
	{135, 7},
	{70, 6},
	{45, 5},
	{24, 4},
}

func (c *Codec) substitute() error {
	c.initializeColumnValues()
	c.addCheckValues()
	c.addSubdiagonalValues()
	c.backSubstituteAboveDiagonal()
	c.peeledSubstitute()
	return nil
}

// pivotTarget returns the recovery-buffer slot pivot p's solved column
// writes into: a peel column's own slot if p is in the deferred region, or
// the mix column's slot if p is in the check region.
func (c *Codec) pivotTarget(p int) []byte {
	if p < c.solver.deferredCount {
		return c.recoveryBlock(c.deferredColByGE[p])
	}
	return c.mixRecoveryBlock(p - c.solver.deferredCount)
}

// initializeColumnValues seeds every pivot's recovery slot: zero for check
// rows (AddCheckValues fills them next), or the admitted row's input block
// already folded against every Peeled column it references (folded
// in-line at admission time by peelDiagonal or buildResumeGERow).
func (c *Codec) initializeColumnValues() {
	for p := 0; p < c.squareSize; p++ {
		row := c.pivotPerm[p]
		target := c.pivotTarget(p)
		if row < c.addedCount {
			for i := range target {
				target[i] = 0
			}
			continue
		}
		copy(target, c.geRowInput[row])
	}
}

// addCheckValues replays forEachCheckContribution in the byte domain: every
// Peeled column's raw block (its recovery slot, still holding just its
// solving row's input at this point) is XORed into the check rows it
// contributes to. Deferred columns contribute nothing here — their
// dependency is already captured structurally as a GE bit, not a value.
func (c *Codec) addCheckValues() {
	c.forEachCheckContribution(func(checkRow, col int) {
		if c.solver.columns[col].mark != markPeel {
			return
		}
		xorInto(c.mixRecoveryBlock(checkRow), c.recoveryBlock(col))
	})
}

// addSubdiagonalValues XORs into each pivot's recovery slot every earlier
// pivot's slot wherever the GE row has a set bit in that earlier pivot's
// column, making values consistent with the lower-triangular part of the
// matrix.
func (c *Codec) addSubdiagonalValues() {
	for p := 0; p < c.squareSize; p++ {
		row := c.pivotPerm[p]
		target := c.pivotTarget(p)
		for q := 0; q < p; q++ {
			if c.geMatrix.bit(row, q) {
				xorInto(target, c.pivotTarget(q))
			}
		}
	}
}

// backSubstituteAboveDiagonal diagonalizes the upper triangle, walking from
// the last pivot down: for pivot p, every earlier (lower-index) pivot whose
// row has bit p set absorbs p's value. Below
// windowThresholds' lowest bound this is the naive O(rank^2) sweep; above
// it, columns are processed w at a time using a precomputed XOR table.
func (c *Codec) backSubstituteAboveDiagonal() {
	n := c.squareSize
	p := n - 1
	for p >= 0 {
		width := c.windowWidthAt(p + 1)
		if width <= 1 || p+1 < width {
			c.naiveSubstituteOne(p)
			p--
			continue
		}
		lo := p + 1 - width
		c.windowedSubstitute(lo, width)
		p = lo - 1
	}
}

func (c *Codec) windowWidthAt(rank int) int {
	for _, t := range windowThresholds {
		if rank >= t.minRank {
			return t.width
		}
	}
	return 1
}

// naiveSubstituteOne absorbs pivot p's now-final value into every earlier
// (lower-index) pivot whose row still has bit p set: Triangle only zeroes a
// row's columns below its own pivot, so a row fixed at index q<p can still
// carry a nonzero bit at column p until this step clears it.
func (c *Codec) naiveSubstituteOne(p int) {
	target := c.pivotTarget(p)
	for q := 0; q < p; q++ {
		row := c.pivotPerm[q]
		if c.geMatrix.bit(row, p) {
			xorInto(c.pivotTarget(q), target)
		}
	}
}

// windowedSubstitute processes the w columns [lo, lo+width) together: it
// first triangulates that diagonal block naively (it is already upper
// triangular from Triangle(), so this absorbs only within the block), then
// builds a table of all 2^width XOR combinations of the block's recovery
// values, and for every row above the block XORs in the table entry
// matching that row's w-bit footprint in the block's columns.
//
// Table storage reuses the recovery slots of already-fully-solved peeled
// columns as scratch: every peeled column's final value is only produced
// later by peeledSubstitute, so at this point in the pipeline those slots
// hold no value anyone still needs (spec.md §5's documented lifetime
// invariant, and §9's note that this replaces CAT_REUSE_COMPRESS).
func (c *Codec) windowedSubstitute(lo, width int) {
	// Diagonalize within the block first (naive, width is small): each
	// pivot's value only needs folding into strictly earlier block members,
	// same direction as naiveSubstituteOne.
	for p := lo + width - 1; p > lo; p-- {
		target := c.pivotTarget(p)
		for q := lo; q < p; q++ {
			row := c.pivotPerm[q]
			if c.geMatrix.bit(row, p) {
				xorInto(c.pivotTarget(q), target)
			}
		}
	}

	tableSize := 1 << width
	table := c.windowScratch(tableSize, len(c.pivotTarget(lo)))
	for k := 1; k < tableSize; k++ {
		lowBit := k & (k - 1) ^ k // lowest set bit of k
		bit := 0
		for (1 << bit) != lowBit {
			bit++
		}
		xor3Into(table[k], table[k^lowBit], c.pivotTarget(lo+bit))
	}

	for q := 0; q < lo; q++ {
		row := c.pivotPerm[q]
		footprint := 0
		for b := 0; b < width; b++ {
			if c.geMatrix.bit(row, lo+b) {
				footprint |= 1 << b
			}
		}
		if footprint != 0 {
			xorInto(c.pivotTarget(q), table[footprint])
		}
	}
}

// windowScratch borrows `count` recovery-sized buffers from the recovery
// blocks of Peeled columns that have not yet been finalized by
// peeledSubstitute. It falls back to fresh buffers if there are not enough
// peeled columns to borrow from (small N, few peeled columns).
func (c *Codec) windowScratch(count, blockBytes int) [][]byte {
	table := make([][]byte, count)
	table[0] = make([]byte, blockBytes) // the empty combination is always zero
	borrowed := 0
	for col := 0; col < c.blockCount && borrowed < count-1; col++ {
		if c.solver.columns[col].mark == markPeel {
			table[borrowed+1] = c.recoveryBlock(col)
			borrowed++
		}
	}
	for i := borrowed + 1; i < count; i++ {
		table[i] = make([]byte, blockBytes)
	}
	for i := range table {
		if i != 0 {
			for b := range table[i] {
				table[i][b] = 0
			}
		}
	}
	return table
}

// peeledSubstitute reconstructs every peeled row's final recovery value:
// input block XOR its three mix blocks XOR its other peel-weight blocks
// (excluding the column it solves, whose value this call produces). It
// accumulates into a single scratch buffer reused across rows rather than
// allocating one per row, matching the reference's allocation-free
// substitution phase.
func (c *Codec) peeledSubstitute() {
	s := c.solver
	if c.substituteScratch == nil {
		c.substituteScratch = make([]byte, c.blockBytes)
	}
	out := c.substituteScratch
	for r := s.peeledHead; r != listEnd; r = s.rows[r].next {
		row := &s.rows[r]
		copy(out, c.inputBlockFor(r))

		mit := newMixColumnIterator(row.shape, uint16(c.addedCount), c.addedNextPrime)
		for {
			mc, ok := mit.next()
			if !ok {
				break
			}
			xorInto(out, c.mixRecoveryBlock(int(mc)))
		}

		it := newPeelColumnIterator(row.shape, uint16(c.blockCount), c.blockNextPrime)
		for {
			col, ok := it.next()
			if !ok {
				break
			}
			if int(col) == row.peelColumn {
				continue
			}
			xorInto(out, c.recoveryBlock(int(col)))
		}

		copy(c.recoveryBlock(row.peelColumn), out)
	}
}
