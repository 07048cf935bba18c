package wirehair

// Deterministic PRNG and generator utilities. NextPrime16, the sieve table,
// the cached prime list and the peel-weight CDF are part of the wire
// contract: two peers deriving a matrix from the same id must land on the
// same row shape, so these tables are carried verbatim from the reference
// codec rather than re-derived.
//
// The stream generator itself (catsChoice) is not: the reference's CatsChoice
// PRNG class is only ever invoked in the corpus this module was built from,
// never defined there, so byte-identical interop with that exact generator
// is not achievable here. catsChoice below is an original, equally simple
// 32-bit multiplicative PRNG seeded the same way (Initialize(id, key) /
// Initialize(key)), documented as a deliberate, spec-licensed substitution
// for the unavailable reference generator; every downstream consumer only
// depends on the stream being deterministic and well mixed, never on its
// exact bit pattern.

type catsChoice struct {
	x, y, z, c uint32
}

// initialize seeds the generator from a single 32-bit key.
func (p *catsChoice) initialize(key uint32) {
	p.x = key ^ 0x9e3779b9
	p.y = 0x6c078967 ^ (key << 7)
	p.z = 0x3f2a9cc1 + key
	p.c = 0xb7e15163
	for i := 0; i < 16; i++ {
		p.next()
	}
}

// initializeID seeds the generator from an (id, key) pair, as every row
// generator call does: the id selects the row, the key is the codec's
// p_seed.
func (p *catsChoice) initializeID(id, key uint32) {
	p.x = id ^ 0x9e3779b9
	p.y = key ^ 0x85ebca6b
	p.z = (id*0x27d4eb2d + key) ^ 0xc2b2ae35
	p.c = 0x165667b1
	for i := 0; i < 16; i++ {
		p.next()
	}
}

// next draws the next 32-bit word from the stream. This is a multiply-with-
// carry generator: full-period, fast, and free of hidden allocation.
func (p *catsChoice) next() uint32 {
	const a = uint64(0xfffd7)
	t := a*uint64(p.x) + uint64(p.c)
	p.x, p.y, p.z = p.y, p.z, uint32(t)
	p.c = uint32(t >> 32)
	return p.x ^ p.y ^ p.z
}

// sqqTable backs squareRoot16, the fast integer sqrt used by nextPrime16's
// bound check.
var sqqTable = [256]uint8{
	0, 16, 22, 27, 32, 35, 39, 42, 45, 48, 50, 53, 55, 57,
	59, 61, 64, 65, 67, 69, 71, 73, 75, 76, 78, 80, 81, 83,
	84, 86, 87, 89, 90, 91, 93, 94, 96, 97, 98, 99, 101, 102,
	103, 104, 106, 107, 108, 109, 110, 112, 113, 114, 115, 116, 117, 118,
	119, 120, 121, 122, 123, 124, 125, 126, 128, 128, 129, 130, 131, 132,
	133, 134, 135, 136, 137, 138, 139, 140, 141, 142, 143, 144, 144, 145,
	146, 147, 148, 149, 150, 150, 151, 152, 153, 154, 155, 155, 156, 157,
	158, 159, 160, 160, 161, 162, 163, 163, 164, 165, 166, 167, 167, 168,
	169, 170, 170, 171, 172, 173, 173, 174, 175, 176, 176, 177, 178, 178,
	179, 180, 181, 181, 182, 183, 183, 184, 185, 185, 186, 187, 187, 188,
	189, 189, 190, 191, 192, 192, 193, 193, 194, 195, 195, 196, 197, 197,
	198, 199, 199, 200, 201, 201, 202, 203, 203, 204, 204, 205, 206, 206,
	207, 208, 208, 209, 209, 210, 211, 211, 212, 212, 213, 214, 214, 215,
	215, 216, 217, 217, 218, 218, 219, 219, 220, 221, 221, 222, 222, 223,
	224, 224, 225, 225, 226, 226, 227, 227, 228, 229, 229, 230, 230, 231,
	231, 232, 232, 233, 234, 234, 235, 235, 236, 236, 237, 237, 238, 238,
	239, 240, 240, 241, 241, 242, 242, 243, 243, 244, 244, 245, 245, 246,
	246, 247, 247, 248, 248, 249, 249, 250, 250, 251, 251, 252, 252, 253,
	253, 254, 254, 255,
}

func squareRoot16(x uint32) uint16 {
	var r uint16
	if x >= 0x100 {
		if x >= 0x1000 {
			if x >= 0x4000 {
				r = uint16(sqqTable[x>>8]) + 1
			} else {
				r = uint16(sqqTable[x>>6]>>1) + 1
			}
		} else {
			if x >= 0x400 {
				r = uint16(sqqTable[x>>4]>>2) + 1
			} else {
				r = uint16(sqqTable[x>>2]>>3) + 1
			}
		}
	} else {
		return uint16(sqqTable[x] >> 4)
	}
	if uint32(r)*uint32(r) > x {
		r--
	}
	return r
}

const sieveTableSize = 2 * 3 * 5 * 7

var sieveTable = [sieveTableSize]uint8{
	1, 0, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
	1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
	1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
	7, 6, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 7, 6, 5, 4, 3, 2,
	1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
	1, 0, 5, 4, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
	1, 0, 5, 4, 3, 2, 1, 0, 3, 2, 1, 0, 1, 0, 3, 2, 1, 0, 1, 0, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
}

var primesUnder256 = []uint16{
	11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61,
	67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127,
	131, 137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191,
	193, 197, 199, 211, 223, 227, 229, 233, 239, 241, 251, 0x7fff,
}

// nextPrime16 returns the smallest prime >= n, n < 65536; n = 0 and n = 1
// return 1.
func nextPrime16(n uint32) uint16 {
	switch n {
	case 0, 1:
		return 1
	case 2:
		return 2
	case 3:
		return 3
	case 4, 5:
		return 5
	case 6, 7:
		return 7
	}

	offset := int(n % sieveTableSize)
	next := uint32(sieveTable[offset])
	offset += int(next) + 1
	n += next

	pMax := squareRoot16(n)

	for {
		found := true
		for _, p := range primesUnder256 {
			if uint32(p) > uint32(pMax) {
				break
			}
			if n%uint32(p) == 0 {
				found = false
				break
			}
		}
		if found {
			return uint16(n)
		}

		if offset >= sieveTableSize {
			offset -= sieveTableSize
		}
		next = uint32(sieveTable[offset])
		offset += int(next) + 1
		n += next + 1

		if uint32(pMax)*uint32(pMax) < n {
			pMax++
		}
	}
}

// weightDist is the fixed 20-bit CDF over peel row weight, part of the wire
// contract.
var weightDist = [31]uint32{
	0, 5243, 529531, 704294, 791675, 844104, 879057, 904023,
	922747, 937311, 948962, 958494, 966438, 973160, 978921,
	983914, 988283, 992138, 995565, 998631, 1001391, 1003887,
	1006157, 1008229, 1010129, 1011876, 1013490, 1014983,
	1016370, 1017662, 1048576,
}

// generatePeelRowWeight maps a 20-bit draw to a peel weight, clamped to
// maxWeight (N-1).
func generatePeelRowWeight(rv uint32, maxWeight uint16) uint16 {
	rv &= 0xfffff
	var ii uint16 = 1
	for rv >= weightDist[ii] {
		ii++
	}
	if ii > maxWeight {
		return maxWeight
	}
	return ii
}

// shuffleDeck16 fills deck[0:count) with a permutation of [0,count) using the
// reference's Fisher-Yates-with-modulo scheme: deck[0]=0, then each new slot
// ii is seeded with its own index and swapped with a uniformly chosen earlier
// slot jj = rv % ii.
func shuffleDeck16(prng *catsChoice, deck []uint16, count int) {
	if count <= 0 {
		return
	}
	deck[0] = 0
	for ii := 1; ii < count; ii++ {
		deck[ii] = uint16(ii)
	}
	for ii := 1; ii < count; ii++ {
		rv := prng.next()
		jj := int(rv % uint32(ii))
		deck[ii], deck[jj] = deck[jj], deck[ii]
	}
}

// addInvertibleGF2MatrixSeedTag seeds the local catsChoice stream used only
// to fill the strictly-upper-triangular part of addInvertibleGF2Matrix's
// patch. It has no relation to a codec's p_seed/c_seed.
const addInvertibleGF2MatrixSeedTag = 0x48583244 // "HX2D"

// addInvertibleGF2Matrix XORs an n x n invertible GF(2) matrix into m
// starting at (rowOffset, colOffset).
//
// The reference (Wirehair.cpp) draws this patch from a seed table
// (AddInvertibleGF2Matrix / InvertibleMatrixSeeds) tuned so that its
// original CatsChoice PRNG, run from that seed, happens to land on an
// invertible n x n matrix. That table is only meaningful paired with the
// exact PRNG it was searched against: catsChoice (this codec's documented,
// non-bit-identical substitute, see DESIGN.md) maps seeds to a different
// matrix altogether, so reusing the table here would drive a ~random GF(2)
// matrix through the GE square's patch region — singular with probability
// around 0.71, breaking spec.md §4.F.6's full-rank guarantee outright.
//
// Rather than re-deriving a seed table for catsChoice (which would need a
// search-and-verify loop this codec cannot run), this builds an n x n
// matrix that is unconditionally invertible by construction: the identity
// plus a strictly upper triangular fill drawn from catsChoice. A matrix
// that is 1 on every diagonal entry and 0 below it is upper unitriangular;
// its determinant is the product of its diagonal, always 1 over GF(2)
// regardless of which above-diagonal bits the PRNG sets. This keeps the
// PRNG-driven randomization the reference relies on for check-row coverage
// while making the full-rank guarantee hold for every n, not just the
// n<512 the old table tabulated.
func addInvertibleGF2Matrix(m *bitmatrix, rowOffset, colOffset, n int) {
	if n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		m.flipBit(rowOffset+i, colOffset+i)
	}
	var prng catsChoice
	prng.initialize(addInvertibleGF2MatrixSeedTag ^ uint32(n))
	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			if prng.next()&1 != 0 {
				m.flipBit(rowOffset+r, colOffset+c)
			}
		}
	}
}
