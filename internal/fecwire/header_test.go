package fecwire

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Version: CurrentVersion, Flags: 0x5, ID: 0xdeadbeef, Len: 1200}
	buf := h.Marshal(nil)
	if len(buf) != HeaderLen {
		t.Fatalf("marshal length = %d, want %d", len(buf), HeaderLen)
	}
	var got Header
	if err := got.Unmarshal(buf); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderUnmarshalShort(t *testing.T) {
	var h Header
	if err := h.Unmarshal(make([]byte, HeaderLen-1)); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
