package jpeg

import (
	"bufio"
	"io"
)

// BitReader is a byte-and-bit cursor over an input stream with a
// special rule for byte-stuffed 0xFF bytes inside entropy-coded data.
//
// Segment headers are always read with skipFF=false; entropy-coded
// scan data is always read with skipFF=true. The two modes are never
// mixed within a single logical byte (see spec §9's open question on
// BitReader boundary behavior): every call site picks one mode for
// the whole read it is performing.
type BitReader struct {
	r        *bufio.Reader
	curByte  byte
	bitsLeft uint // unconsumed high-order bits of curByte, 0..8
}

// NewBitReader wraps r for bit-level reading.
func NewBitReader(r io.Reader) *BitReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 4096)
	}
	return &BitReader{r: br}
}

// fetchRaw pulls one byte directly from the underlying stream, honoring
// the byte-stuffing rule when skipFF is set: a 0xFF byte must be
// followed by 0x00, which is discarded. Any other byte following 0xFF
// in skipFF mode is a fatal BadEntropy error (baseline has no restart
// markers to legitimately follow).
func (r *BitReader) fetchRaw(skipFF bool) (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, newError(TruncatedStream, "unexpected end of stream")
	}
	if skipFF && b == 0xFF {
		next, err := r.r.ReadByte()
		if err != nil {
			return 0, newError(TruncatedStream, "unexpected end of stream after 0xFF")
		}
		if next != 0x00 {
			return 0, newError(BadEntropy, "0xFF in entropy data not followed by 0x00 (found 0x%02X)", next)
		}
	}
	return b, nil
}

// ReadBit consumes and returns the next bit, MSB-first within each
// byte. skipFF selects the byte-stuffing rule for the underlying byte
// fetch.
func (r *BitReader) ReadBit(skipFF bool) (uint8, error) {
	if r.bitsLeft == 0 {
		b, err := r.fetchRaw(skipFF)
		if err != nil {
			return 0, err
		}
		r.curByte = b
		r.bitsLeft = 8
	}
	r.bitsLeft--
	return (r.curByte >> r.bitsLeft) & 1, nil
}

// ReadBits reads n (0..32) bits MSB-first and returns them as an
// unsigned value.
func (r *BitReader) ReadBits(n int, skipFF bool) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := r.ReadBit(skipFF)
		if err != nil {
			return 0, err
		}
		v = (v << 1) | uint32(bit)
	}
	return v, nil
}

// ReadByte reads the next whole byte. Valid only when the cursor is
// byte-aligned (no bits of the current byte remain unconsumed) — true
// everywhere outside of entropy-coded bit reads.
func (r *BitReader) ReadByte(skipFF bool) (byte, error) {
	if r.bitsLeft != 0 {
		return 0, newError(BadSegment, "ReadByte called while bit cursor is not byte-aligned")
	}
	return r.fetchRaw(skipFF)
}

// AlignToByte discards any unconsumed bits of the current byte without
// reading a new one, so the next read starts a fresh byte. Used at the
// end of entropy-coded scan data, where leftover bits are padding.
func (r *BitReader) AlignToByte() {
	r.bitsLeft = 0
}

// PeekTwoBytes returns the next two bytes without advancing the
// stream or applying byte stuffing — markers are never stuffed, and
// this is only ever called once the bit cursor has been aligned.
func (r *BitReader) PeekTwoBytes() (byte, byte, error) {
	buf, err := r.r.Peek(2)
	if err != nil {
		return 0, 0, newError(TruncatedStream, "unexpected end of stream while peeking marker")
	}
	return buf[0], buf[1], nil
}
