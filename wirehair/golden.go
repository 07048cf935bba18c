package wirehair

// Exported wrappers around the otherwise package-private row generator and
// parameter table, for cmd/wirehair-golden's interop vector dumps (spec.md
// §8 "Determinism / interop"). Nothing here is used by the codec itself.

// GoldenRow is one row's full shape, as dumped to a golden CSV.
type GoldenRow struct {
	ID            uint32
	PeelWeight    uint16
	PeelA, PeelX0 uint16
	MixA, MixX0   uint16
}

// GenerateGoldenRow derives the row shape for id exactly as the codec does.
func GenerateGoldenRow(id uint32, pSeed uint32, blockCount, addedCount int) GoldenRow {
	shape := generateRowShape(id, pSeed, uint16(blockCount), uint16(addedCount))
	return GoldenRow{
		ID:         id,
		PeelWeight: shape.peelWeight,
		PeelA:      shape.peelA,
		PeelX0:     shape.peelX0,
		MixA:       shape.mixA,
		MixX0:      shape.mixX0,
	}
}

// LookupMatrixParams exposes the parameter table lookup.
func LookupMatrixParams(blockCount int) (light, dense int, ok bool) {
	return lookupMatrixParams(blockCount)
}

// DerivedSeeds exposes the per-N seed derivation.
func DerivedSeeds(blockCount int) (pSeed, cSeed uint32) {
	return derivedSeeds(blockCount)
}
