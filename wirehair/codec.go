package wirehair

import (
	"github.com/pkg/errors"
)

// Codec facade (spec.md §4.J / §6): Encoder and Decoder are thin wrappers
// that pin a Codec to one direction, but all state and all four solver
// phases live here, matching the reference's single Codec class with
// Encoder/Decoder-specific setup paths (InitializeEncoder/InitializeDecoder).

// mode distinguishes the handful of setup/feed behaviors that differ
// between encode and decode.
type mode uint8

const (
	modeEncoder mode = iota
	modeDecoder
)

// extraHeadroom is the epsilon of spare GE rows/slots kept for
// ResumeSolveMatrix, mirroring the reference's CAT_MAX_EXTRA_ROWS.
const extraHeadroom = 32

// Params configures codec setup, following the teacher's struct-of-fields
// convention (SendOptions/RXOptions) rather than a config file.
type Params struct {
	// T is the message length in bytes.
	T int
	// M is the block size in bytes.
	M int
	// Alloc supplies buffers at setup time; nil uses defaultAllocator.
	Alloc Allocator
}

// Codec is the shared engine behind Encoder and Decoder. It is
// single-threaded and non-reentrant: one goroutine, one call at a time, per
// spec.md §5.
type Codec struct {
	mode mode
	alloc Allocator

	messageBytes int
	blockBytes   int
	blockCount   int // N
	lightCount   int // L
	denseCount   int // D
	addedCount   int // H = L + D
	extraCount   int // epsilon headroom

	blockNextPrime uint16
	lightNextPrime uint16
	addedNextPrime uint16
	pSeed, cSeed   uint32

	inputFinalBytes  int
	outputFinalBytes int

	solver *solver

	compMatrix *bitmatrix
	geMatrix   *bitmatrix
	geRowCount int
	geRowIDs   []uint32
	geRowUsed  []bool
	geRowInput [][]byte

	deferredColByGE []int // ge-column -> owning peel column, for the deferred region

	pivotPerm    []int // permutation vector over the GE square's row indices
	squareSize   int   // geCols == addedCount + deferred row/column count
	resumePivot  int   // -1 once fully triangulated
	nextExtraRow int   // next unused ge-row beyond the square, for resume

	recoveryBlocks  [][]byte // E = N+H blocks
	inputBlocks     [][]byte // per-slot received/loaded input, indexed by row handle
	inputBlockArena []byte   // backing storage for inputBlocks, one make call for the whole run

	substituteScratch []byte // reused accumulator for peeledSubstitute

	usedCount int
	solved    bool
}

// NewEncoder sets up a codec for encoding a message of p.T bytes in blocks
// of p.M bytes.
func NewEncoder(p Params) (*Codec, error) {
	c, err := newCodec(modeEncoder, p)
	if err != nil {
		return nil, err
	}
	c.inputBlocks = make([][]byte, c.blockCount)
	c.inputBlockArena = make([]byte, c.blockCount*c.blockBytes)
	return c, nil
}

// NewDecoder sets up a codec for decoding, allocating slots for up to
// N+extraHeadroom received rows.
func NewDecoder(p Params) (*Codec, error) {
	c, err := newCodec(modeDecoder, p)
	if err != nil {
		return nil, err
	}
	slots := c.blockCount + extraHeadroom
	c.inputBlocks = make([][]byte, slots)
	c.inputBlockArena = make([]byte, slots*c.blockBytes)
	return c, nil
}

func newCodec(m mode, p Params) (*Codec, error) {
	if p.T <= 0 || p.M <= 0 {
		log.WithField("T", p.T).WithField("M", p.M).Error("bad codec parameters")
		return nil, errors.Wrap(ErrBadInput, "invalid message/block size")
	}
	alloc := p.Alloc
	if alloc == nil {
		alloc = defaultAllocator{}
	}

	blockCount := (p.T + p.M - 1) / p.M
	light, dense, ok := lookupMatrixParams(blockCount)
	if !ok {
		log.WithField("N", blockCount).Error("block count not in parameter table")
		return nil, errors.Wrapf(ErrBadInput, "block count %d not tabulated", blockCount)
	}
	pSeed, cSeed := derivedSeeds(blockCount)
	added := light + dense

	c := &Codec{
		mode:         m,
		alloc:        alloc,
		messageBytes: p.T,
		blockBytes:   p.M,
		blockCount:   blockCount,
		lightCount:   light,
		denseCount:   dense,
		addedCount:   added,
		extraCount:   extraHeadroom,
		pSeed:        pSeed,
		cSeed:        cSeed,
		resumePivot:  -1,
	}
	c.blockNextPrime = nextPrime16(uint32(blockCount - 1))
	c.lightNextPrime = nextPrime16(uint32(light - 1))
	c.addedNextPrime = nextPrime16(uint32(added - 1))

	partial := p.T % p.M
	if partial == 0 {
		partial = p.M
	}
	c.inputFinalBytes = partial
	c.outputFinalBytes = partial

	rowCapacity := blockCount + extraHeadroom
	c.solver = newSolver(blockCount, added, light, c.blockNextPrime, c.addedNextPrime, c.lightNextPrime, rowCapacity)
	for i := range c.solver.rows {
		c.solver.rows[i].peelColumn = -1
	}

	c.recoveryBlocks = make([][]byte, blockCount+added)
	for i := range c.recoveryBlocks {
		buf, err := allocOrOom(alloc, p.M)
		if err != nil {
			log.Error("out of memory allocating recovery blocks")
			return nil, err
		}
		c.recoveryBlocks[i] = buf
	}

	log.WithField("N", blockCount).WithField("L", light).WithField("D", dense).Debug("codec initialized")
	return c, nil
}

// recoveryBlock returns the recovery slot for peel column col ([0,N)) or
// mix column col-N ([N,N+H)).
func (c *Codec) recoveryBlock(col int) []byte {
	return c.recoveryBlocks[col]
}

// mixRecoveryBlock returns the recovery slot for mix/added column mc.
func (c *Codec) mixRecoveryBlock(mc int) []byte {
	return c.recoveryBlocks[c.blockCount+mc]
}

// inputBlockFor returns the stored input block for row handle rowIdx.
func (c *Codec) inputBlockFor(rowIdx int) []byte {
	return c.inputBlocks[rowIdx]
}

// arenaSlot returns the pre-carved byte range for row handle idx out of
// inputBlockArena, avoiding a make([]byte, ...) per admitted row.
func (c *Codec) arenaSlot(idx int) []byte {
	start := idx * c.blockBytes
	return c.inputBlockArena[start : start+c.blockBytes]
}

// newRow allocates the next row handle, populates its shape, and returns
// its index.
func (c *Codec) newRow(id uint32) int {
	idx := c.solver.rowCount
	c.solver.rowCount++
	row := &c.solver.rows[idx]
	row.id = id
	row.shape = generateRowShape(id, c.pSeed, uint16(c.blockCount), uint16(c.addedCount))
	row.peelColumn = -1
	row.isCopied = false
	return idx
}

// EncodeFeed loads a message and runs the full Peel -> Compress -> Triangle
// -> Substitute pipeline, treating it as N rows with id = row index.
func (c *Codec) EncodeFeed(message []byte) error {
	if len(message) != c.messageBytes {
		return errors.Wrapf(ErrBadInput, "message length %d != %d", len(message), c.messageBytes)
	}
	for id := 0; id < c.blockCount; id++ {
		idx := c.newRow(uint32(id))
		start := id * c.blockBytes
		end := start + c.blockBytes
		if id == c.blockCount-1 {
			end = len(message)
		}
		block := c.arenaSlot(idx)
		copy(block, message[start:end])
		c.inputBlocks[idx] = block

		if err := c.solver.opportunisticPeel(idx); err != nil {
			return errors.Wrap(err, "encoder opportunistic peel")
		}
	}
	return c.solveAndSubstitute()
}

// Encode writes the block for id into out. For id < N this is the
// systematic copy of the original input block; for id >= N it regenerates
// the row shape and XORs the recovery blocks it covers.
//
// This only does the right thing on an Encoder, where inputBlocks is indexed
// by id. On a Decoder, inputBlocks is indexed by arrival slot (see
// DecodeFeed), so calling Encode for an id<N the decoder never received
// would return an arbitrary received row, not the lost block; use
// combineRow with a freshly generated shape instead, as ReconstructOutput
// does.
func (c *Codec) Encode(id uint32, out []byte) {
	if int(id) < c.blockCount {
		copy(out, c.inputBlocks[id])
		return
	}
	shape := generateRowShape(id, c.pSeed, uint16(c.blockCount), uint16(c.addedCount))
	c.combineRow(shape, out)
}

// combineRow XORs the peel-weight and mix-weight recovery blocks a row
// shape covers into out, per spec.md §4.J's Encode description.
func (c *Codec) combineRow(shape rowShape, out []byte) {
	it := newPeelColumnIterator(shape, uint16(c.blockCount), c.blockNextPrime)
	first := true
	for {
		col, ok := it.next()
		if !ok {
			break
		}
		if first {
			copy(out, c.recoveryBlock(int(col)))
			first = false
		} else {
			xorInto(out, c.recoveryBlock(int(col)))
		}
	}
	mit := newMixColumnIterator(shape, uint16(c.addedCount), c.addedNextPrime)
	for {
		mc, ok := mit.next()
		if !ok {
			break
		}
		if first {
			copy(out, c.mixRecoveryBlock(int(mc)))
			first = false
		} else {
			xorInto(out, c.mixRecoveryBlock(int(mc)))
		}
	}
}

// DecodeFeed admits one received (id, block) row. It returns nil once the
// decoder has enough rank to reconstruct, ErrMoreBlocks while it needs more
// rows, or ErrBadInput on malformed input.
func (c *Codec) DecodeFeed(id uint32, block []byte) error {
	if len(block) != c.blockBytes {
		return errors.Wrapf(ErrBadInput, "block length %d != %d", len(block), c.blockBytes)
	}

	if c.usedCount < c.blockCount {
		idx := c.newRow(id)
		buf := c.arenaSlot(idx)
		copy(buf, block)
		c.inputBlocks[idx] = buf

		if err := c.solver.opportunisticPeel(idx); err != nil {
			return errors.Wrap(err, "decoder opportunistic peel")
		}
		c.usedCount++

		if c.usedCount == c.blockCount {
			if err := c.solveAndSubstitute(); err != nil {
				return err
			}
			return nil
		}
		return ErrMoreBlocks
	}

	if !c.resumeSolveMatrix(id, block) {
		return ErrMoreBlocks
	}
	if err := c.substitute(); err != nil {
		return err
	}
	c.solved = true
	return nil
}

// solveAndSubstitute runs greedy deferral, compression, triangulation and,
// if triangulation succeeded outright, substitution.
func (c *Codec) solveAndSubstitute() error {
	c.solver.greedyDefer()
	c.compress()
	c.triangle()
	if c.resumePivot == -1 {
		if err := c.substitute(); err != nil {
			return err
		}
		c.solved = true
		return nil
	}
	return ErrMoreBlocks
}

// ReconstructOutput writes the full message into out: received systematic
// rows are copied directly, lost ones are regenerated from the recovery
// blocks (mirrors the reference's ReconstructOutput, Wirehair.cpp:3489-3586).
//
// This deliberately does not call Encode for a lost id<N: Encode's id<N
// shortcut reads c.inputBlocks[id], which on a decoder is indexed by arrival
// slot, not by id (see DecodeFeed), so it would return whatever row happened
// to land in slot id rather than the lost block. combineRow with a freshly
// generated shape is the only correct way to recover a lost systematic block.
func (c *Codec) ReconstructOutput(out []byte) error {
	if !c.solved {
		return errors.Wrap(ErrBadInput, "reconstruct called before decode finished")
	}
	received := make(map[uint32][]byte, c.solver.rowCount)
	for i := 0; i < c.solver.rowCount; i++ {
		row := &c.solver.rows[i]
		if int(row.id) < c.blockCount {
			received[row.id] = c.inputBlocks[i]
		}
	}
	buf := make([]byte, c.blockBytes)
	for id := 0; id < c.blockCount; id++ {
		start := id * c.blockBytes
		n := c.blockBytes
		if id == c.blockCount-1 {
			n = c.outputFinalBytes
		}
		if block, ok := received[uint32(id)]; ok {
			copy(out[start:start+n], block[:n])
			continue
		}
		shape := generateRowShape(uint32(id), c.pSeed, uint16(c.blockCount), uint16(c.addedCount))
		c.combineRow(shape, buf)
		copy(out[start:start+n], buf[:n])
	}
	return nil
}
