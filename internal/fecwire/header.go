// Package fecwire frames a single (id, block) pair for transport. It is an
// external collaborator of the codec core (spec.md §6): the core never
// imports it, it exists so cmd/ tools and tests have a stable on-the-wire
// shape to pass blocks around without reaching into codec internals.
package fecwire

import (
	"encoding/binary"
	"errors"
)

// Header precedes the M-byte block payload on the wire.
type Header struct {
	Version uint8  // 1
	Flags   uint8  // reserved
	ID      uint32 // 32-bit block identifier, per spec.md §3
	Len     uint32 // payload length in bytes (== M, except possibly the final block)
}

const HeaderLen = 1 + 1 + 4 + 4

const CurrentVersion uint8 = 1

var ErrShortBuffer = errors.New("fecwire: buffer shorter than HeaderLen")

// Marshal writes h into b, growing b if it is too small to hold HeaderLen
// bytes, and returns the HeaderLen-byte prefix actually written.
func (h *Header) Marshal(b []byte) []byte {
	if len(b) < HeaderLen {
		b = make([]byte, HeaderLen)
	}
	b[0] = h.Version
	b[1] = h.Flags
	binary.LittleEndian.PutUint32(b[2:6], h.ID)
	binary.LittleEndian.PutUint32(b[6:10], h.Len)
	return b[:HeaderLen]
}

// Unmarshal parses a HeaderLen-byte prefix of b into h.
func (h *Header) Unmarshal(b []byte) error {
	if len(b) < HeaderLen {
		return ErrShortBuffer
	}
	h.Version = b[0]
	h.Flags = b[1]
	h.ID = binary.LittleEndian.Uint32(b[2:6])
	h.Len = binary.LittleEndian.Uint32(b[6:10])
	return nil
}
