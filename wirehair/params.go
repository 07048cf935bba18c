package wirehair

// Parameter table: N -> (light count L, dense count D). Carried verbatim
// from the reference's GenerateMatrixParameters switch, which only
// tabulates a fixed set of block counts (see the open question recorded in
// DESIGN.md about full coverage). p_seed/c_seed are derived per codec
// instance below rather than taken from the reference's now-removed
// process-wide g_p_seed/g_c_seed globals.
type matrixParams struct {
	light, dense int
}

var matrixParamTable = map[int]matrixParams{
	16:    {light: 6, dense: 2},
	64:    {light: 8, dense: 2},
	128:   {light: 11, dense: 2},
	256:   {light: 14, dense: 5},
	512:   {light: 14, dense: 5},
	1024:  {light: 18, dense: 12},
	2048:  {light: 45, dense: 8},
	4096:  {light: 55, dense: 14},
	8192:  {light: 100, dense: 16},
	10000: {light: 120, dense: 20},
	16384: {light: 180, dense: 26},
	32768: {light: 400, dense: 30},
	40000: {light: 460, dense: 29},
	50000: {light: 600, dense: 34},
	64000: {light: 6, dense: 750},
}

// lookupMatrixParams returns the (L, D) pair for a tabulated block count, or
// ok=false if N isn't one of the sizes the table covers. Non-tabulated N is
// BadInput, per the table's documented open question: we do not guess.
func lookupMatrixParams(blockCount int) (light, dense int, ok bool) {
	p, found := matrixParamTable[blockCount]
	if !found {
		return 0, 0, false
	}
	return p.light, p.dense, true
}

// derivedSeeds produces the per-codec p_seed/c_seed pair deterministically
// from N, so that nothing is process-wide at runtime.
func derivedSeeds(blockCount int) (pSeed, cSeed uint32) {
	const mix = 0x9e3779b9
	n := uint32(blockCount)
	pSeed = n*mix + 0x85ebca6b
	cSeed = (n^0xc2b2ae35)*mix + 0x27d4eb2d
	return pSeed, cSeed
}
