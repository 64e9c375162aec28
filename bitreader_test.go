package jpeg

import (
	"bytes"
	"testing"
)

func TestBitReaderMSBFirst(t *testing.T) {
	// 0xB4 = 1011_0100
	r := NewBitReader(bytes.NewReader([]byte{0xB4}))
	want := []uint8{1, 0, 1, 1, 0, 1, 0, 0}
	for i, w := range want {
		bit, err := r.ReadBit(false)
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if bit != w {
			t.Errorf("bit %d = %d, want %d", i, bit, w)
		}
	}
}

func TestBitReaderReadBits(t *testing.T) {
	r := NewBitReader(bytes.NewReader([]byte{0b1010_1100, 0b1111_0000}))
	v, err := r.ReadBits(12, false)
	if err != nil {
		t.Fatal(err)
	}
	want := uint32(0b1010_1100_1111)
	if v != want {
		t.Errorf("ReadBits(12) = %012b, want %012b", v, want)
	}
}

func TestBitReaderByteStuffingDiscardsZero(t *testing.T) {
	// 0xFF 0x00 0xAB inside entropy data: the 0x00 is discarded, so
	// this reads as the two bytes 0xFF, 0xAB.
	r := NewBitReader(bytes.NewReader([]byte{0xFF, 0x00, 0xAB}))
	b1, err := r.ReadByte(true)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != 0xFF {
		t.Errorf("first byte = 0x%02X, want 0xFF", b1)
	}
	b2, err := r.ReadByte(true)
	if err != nil {
		t.Fatal(err)
	}
	if b2 != 0xAB {
		t.Errorf("second byte = 0x%02X, want 0xAB", b2)
	}
}

func TestBitReaderByteStuffingViolationIsFatal(t *testing.T) {
	// 0xFF followed by anything but 0x00 is a byte-stuffing violation
	// inside entropy data.
	r := NewBitReader(bytes.NewReader([]byte{0xFF, 0xD9}))
	_, err := r.ReadByte(true)
	if err == nil {
		t.Fatal("expected a byte-stuffing violation error")
	}
	de, ok := AsDecodeError(err)
	if !ok || de.Kind != BadEntropy {
		t.Fatalf("expected BadEntropy, got %v", err)
	}
}

func TestBitReaderNoStuffingOutsideEntropyData(t *testing.T) {
	// With skipFF=false (segment header reads), 0xFF is just a byte.
	r := NewBitReader(bytes.NewReader([]byte{0xFF, 0xD9}))
	b1, err := r.ReadByte(false)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != 0xFF {
		t.Errorf("first byte = 0x%02X, want 0xFF", b1)
	}
	b2, err := r.ReadByte(false)
	if err != nil {
		t.Fatal(err)
	}
	if b2 != 0xD9 {
		t.Errorf("second byte = 0x%02X, want 0xD9", b2)
	}
}

func TestBitReaderPeekTwoBytesDoesNotAdvance(t *testing.T) {
	r := NewBitReader(bytes.NewReader([]byte{0xFF, 0xD9, 0x01}))
	b0, b1, err := r.PeekTwoBytes()
	if err != nil {
		t.Fatal(err)
	}
	if b0 != 0xFF || b1 != 0xD9 {
		t.Fatalf("peeked (0x%02X, 0x%02X), want (0xFF, 0xD9)", b0, b1)
	}
	// The stream must still start at the same place.
	got, err := r.ReadByte(false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xFF {
		t.Errorf("after peek, ReadByte = 0x%02X, want 0xFF", got)
	}
}

func TestBitReaderTruncatedStreamIsFatal(t *testing.T) {
	r := NewBitReader(bytes.NewReader(nil))
	_, err := r.ReadBit(false)
	if err == nil {
		t.Fatal("expected a truncated-stream error")
	}
	de, ok := AsDecodeError(err)
	if !ok || de.Kind != TruncatedStream {
		t.Fatalf("expected TruncatedStream, got %v", err)
	}
}
