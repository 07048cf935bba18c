package wirehair

// Row generator: from (id, p_seed, N, H) produces the sparse row shape
// described in spec.md §4.C, grounded on the reference's GeneratePeelRow.
// Mix weight is always 3.

const mixWeight = 3

// rowShape is the full description of one row's GF(2) contribution.
type rowShape struct {
	peelWeight    uint16
	peelA, peelX0 uint16
	mixA, mixX0   uint16
}

// generateRowShape derives the row shape for id under the codec's p_seed,
// given the peel column count (N) and mix column count (H).
func generateRowShape(id uint32, pSeed uint32, peelColumnCount, mixColumnCount uint16) rowShape {
	var prng catsChoice
	prng.initializeID(id, pSeed)

	var shape rowShape
	shape.peelWeight = generatePeelRowWeight(prng.next(), peelColumnCount-1)

	rv := prng.next()
	shape.peelA = uint16(rv%uint32(peelColumnCount-1)) + 1
	shape.peelX0 = uint16((rv >> 16) % uint32(peelColumnCount))

	rv = prng.next()
	shape.mixA = uint16(rv%uint32(mixColumnCount-1)) + 1
	shape.mixX0 = uint16((rv >> 16) % uint32(mixColumnCount))

	return shape
}

// iterateNextColumn advances x to the next column of a pseudo-random walk
// of distinct columns in [0,m), matching spec.md §4.C's column iterator
// bit-for-bit: x += a; if x>=m: x-=m; if still >=m: x = (x+a) mod p; repeat
// while >= m.
func iterateNextColumn(x, m, p, a uint16) uint16 {
	y := uint32(x) + uint32(a)
	if y >= uint32(m) {
		y -= uint32(m)
		for y >= uint32(m) {
			y = (y + uint32(a)) % uint32(p)
		}
	}
	return uint16(y)
}

// peelColumnIterator walks the peel-weight columns of a row's peel region,
// starting at x0 and stepping with iterateNextColumn under modulus
// peelColumnCount and next-prime peelNextPrime.
type peelColumnIterator struct {
	x         uint16
	a         uint16
	m, p      uint16
	remaining uint16
	first     bool
}

func newPeelColumnIterator(shape rowShape, peelColumnCount, peelNextPrime uint16) peelColumnIterator {
	return peelColumnIterator{
		x:         shape.peelX0,
		a:         shape.peelA,
		m:         peelColumnCount,
		p:         peelNextPrime,
		remaining: shape.peelWeight,
		first:     true,
	}
}

// next returns the next peel column and whether the iterator is exhausted.
func (it *peelColumnIterator) next() (col uint16, ok bool) {
	if it.remaining == 0 {
		return 0, false
	}
	if it.first {
		it.first = false
	} else {
		it.x = iterateNextColumn(it.x, it.m, it.p, it.a)
	}
	it.remaining--
	return it.x, true
}

// mixColumnIterator walks the fixed-weight-3 mix region the same way.
type mixColumnIterator struct {
	x         uint16
	a         uint16
	m, p      uint16
	remaining uint16
	first     bool
}

func newMixColumnIterator(shape rowShape, mixColumnCount, mixNextPrime uint16) mixColumnIterator {
	return mixColumnIterator{
		x:         shape.mixX0,
		a:         shape.mixA,
		m:         mixColumnCount,
		p:         mixNextPrime,
		remaining: mixWeight,
		first:     true,
	}
}

func (it *mixColumnIterator) next() (col uint16, ok bool) {
	if it.remaining == 0 {
		return 0, false
	}
	if it.first {
		it.first = false
	} else {
		it.x = iterateNextColumn(it.x, it.m, it.p, it.a)
	}
	it.remaining--
	return it.x, true
}
