package wirehair

import "errors"

// Sentinel errors for the four facade-shaped results of spec.md §7. Ok is
// represented as a nil error, matching Go idiom rather than the reference's
// explicit Result enum.
var (
	// ErrMoreBlocks means the decoder needs another row; state is untouched.
	ErrMoreBlocks = errors.New("wirehair: more blocks needed")
	// ErrBadInput means input was rejected: N not tabulated, row-reference
	// cap exceeded, malformed sizes at setup or feed, or ReconstructOutput
	// called before decoding finished.
	ErrBadInput = errors.New("wirehair: bad input")
	// ErrOom means the allocator could not satisfy a setup-time request.
	ErrOom = errors.New("wirehair: out of memory")
)
