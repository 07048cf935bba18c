package wirehair

// Allocator is the fallible-factory collaborator named in spec.md §6: the
// codec asks this interface for its recovery blocks at setup time and
// reports Oom if it is refused. The input-block arena, the solver tables and
// the GE/compression matrices are allocated with make, not through it.
// Callers embed this module by providing an Allocator; the zero value of
// Params uses defaultAllocator.
//
//go:generate mockgen -source=alloc.go -destination=../internal/mocks/alloc_mock.go -package=mocks
type Allocator interface {
	// Alloc returns a zeroed buffer of exactly n bytes, or nil if the
	// request cannot be satisfied.
	Alloc(n int) []byte
}

// defaultAllocator is a direct make([]byte, n) allocator; it never refuses.
type defaultAllocator struct{}

func (defaultAllocator) Alloc(n int) []byte {
	return make([]byte, n)
}

// allocOrOom is a small helper the codec setup path uses to turn an
// Allocator refusal into ErrOom without duplicating the nil check at every
// call site.
func allocOrOom(a Allocator, n int) ([]byte, error) {
	b := a.Alloc(n)
	if b == nil {
		return nil, ErrOom
	}
	return b, nil
}
