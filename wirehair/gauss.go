package wirehair

// Gaussian eliminator (spec.md §4.G), grounded on the reference's Triangle()
// and ResumeSolveMatrix(): a permutation-vector GE that swaps entries in
// pivotPerm instead of moving rows, so every row's contents stay put and
// only the mapping from pivot index to ge-row changes.

// triangle scans pivot columns left to right over the GE square, finding a
// pivot row for each and eliminating it out of every row below. On the
// first column with no available pivot it records resumePivot and returns,
// leaving pivotPerm's unfixed tail ready for ResumeSolveMatrix to continue
// from.
func (c *Codec) triangle() {
	c.runTriangleFrom(0)
}

// runTriangleFrom scans pivot columns [from, squareSize) left to right,
// eliminating each pivot out of the rows below it in the permutation.
func (c *Codec) runTriangleFrom(from int) {
	n := c.squareSize
	for p := from; p < n; p++ {
		found := -1
		for i := p; i < n; i++ {
			if c.geMatrix.bit(c.pivotPerm[i], p) {
				found = i
				break
			}
		}
		if found == -1 {
			c.resumePivot = p
			return
		}
		c.pivotPerm[p], c.pivotPerm[found] = c.pivotPerm[found], c.pivotPerm[p]
		pivotRow := c.pivotPerm[p]

		for i := p + 1; i < n; i++ {
			row := c.pivotPerm[i]
			if c.geMatrix.bit(row, p) {
				c.geMatrix.xorRowSelfInto(row, pivotRow)
			}
		}
	}
	c.resumePivot = -1
}

// resumeSolveMatrix admits one more row into a GE square that is waiting on
// resumePivot, per spec.md §4.G. It returns true if the new row supplied
// the missing pivot and triangulation is now complete (or ready to
// continue further, which this call also drives to completion).
func (c *Codec) resumeSolveMatrix(id uint32, block []byte) bool {
	geRow := c.chooseResumeSlot()

	c.geRowIDs[geRow] = id
	c.geRowUsed[geRow] = true
	buf := make([]byte, c.blockBytes)
	copy(buf, block)
	c.geRowInput[geRow] = buf

	c.buildResumeGERow(geRow, id)

	// Replay already-fixed pivots against the new row.
	for p := 0; p < c.resumePivot; p++ {
		pivotRow := c.pivotPerm[p]
		if c.geMatrix.bit(geRow, p) {
			c.geMatrix.xorRowSelfInto(geRow, pivotRow)
		}
	}

	if !c.geMatrix.bit(geRow, c.resumePivot) {
		return false
	}

	// Promote: place geRow at pivotPerm[resumePivot] and resume Triangle
	// from resumePivot+1 using the standard scan, now including this row in
	// the unfixed tail.
	tailPos := c.findPermPos(geRow)
	if tailPos == -1 {
		// geRow was not part of the permutation (came from a freshly
		// chosen extra slot); extend pivotPerm's tail with it in place of
		// the current resumePivot slot.
		c.pivotPerm[c.resumePivot] = geRow
	} else {
		c.pivotPerm[c.resumePivot], c.pivotPerm[tailPos] = c.pivotPerm[tailPos], c.pivotPerm[c.resumePivot]
	}

	resumeFrom := c.resumePivot
	c.resumePivot = -1
	c.continueTriangle(resumeFrom)
	return c.resumePivot == -1
}

// findPermPos returns the index of row in pivotPerm's unfixed tail, or -1.
func (c *Codec) findPermPos(row int) int {
	for i := range c.pivotPerm {
		if c.pivotPerm[i] == row {
			return i
		}
	}
	return -1
}

// continueTriangle eliminates the just-promoted pivot at column `from` out
// of the rows below it, then resumes the ordinary left-to-right scan.
func (c *Codec) continueTriangle(from int) {
	n := c.squareSize
	pivotRow := c.pivotPerm[from]
	for i := from + 1; i < n; i++ {
		row := c.pivotPerm[i]
		if c.geMatrix.bit(row, from) {
			c.geMatrix.xorRowSelfInto(row, pivotRow)
		}
	}
	c.runTriangleFrom(from + 1)
}

// chooseResumeSlot picks a ge-row to hold a newly admitted row: append into
// spare headroom while it lasts, otherwise recycle a non-check slot beyond
// resumePivot (check rows, ge-rows [0,H), are never recycled).
func (c *Codec) chooseResumeSlot() int {
	if c.nextExtraRow < c.geRowCount {
		slot := c.nextExtraRow
		c.nextExtraRow++
		return slot
	}
	for i := c.resumePivot; i < c.squareSize; i++ {
		row := c.pivotPerm[i]
		if row >= c.addedCount {
			return row
		}
	}
	// Degenerate fallback: reuse the last extra slot. Parameters strong
	// enough to need resume at all should never exhaust headroom this way.
	return c.geRowCount - 1
}

// buildResumeGERow constructs the GE row for a freshly admitted row: mix
// bits, then for each peel column either the solving row's compression row
// (if Peeled) or a single GE bit (if Deferred). It also folds every
// referenced Peeled column's current recovery value into geRowInput[geRow],
// the equivalent of the fold PeelDiagonal already performed in-line for
// rows that were deferred at initial compression (spec.md §4.F.3/§4.G.3).
func (c *Codec) buildResumeGERow(geRow int, id uint32) {
	c.geMatrix.clearRow(geRow)
	shape := generateRowShape(id, c.pSeed, uint16(c.blockCount), uint16(c.addedCount))

	mit := newMixColumnIterator(shape, uint16(c.addedCount), c.addedNextPrime)
	for {
		mc, ok := mit.next()
		if !ok {
			break
		}
		c.geMatrix.flipBit(geRow, c.solver.deferredCount+int(mc))
	}

	it := newPeelColumnIterator(shape, uint16(c.blockCount), c.blockNextPrime)
	for {
		col, ok := it.next()
		if !ok {
			break
		}
		c.columnImage(geRow, int(col))
		if c.solver.columns[col].mark == markPeel {
			xorInto(c.geRowInput[geRow], c.recoveryBlock(int(col)))
		}
	}
}
