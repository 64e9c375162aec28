// Package jpeg decodes a baseline sequential JPEG bitstream into 8-bit
// RGB pixels plus an optional comment, against an abstract ImageSink.
package jpeg

// Marker byte values, each preceded by a 0xFF lead byte in the stream.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerCOM  = 0xFE
	markerDQT  = 0xDB
	markerDHT  = 0xC4
	markerSOF0 = 0xC0
	markerSOS  = 0xDA

	markerAPPFirst = 0xE0
	markerAPPLast  = 0xEF

	// Recognized but explicitly out of scope: rejected as Unsupported.
	markerSOF1   = 0xC1
	markerSOF2   = 0xC2
	markerSOF3   = 0xC3
	markerSOF5   = 0xC5
	markerSOF6   = 0xC6
	markerSOF7   = 0xC7
	markerSOF9   = 0xC9
	markerSOF10  = 0xCA
	markerSOF11  = 0xCB
	markerSOF13  = 0xCD
	markerSOF14  = 0xCE
	markerSOF15  = 0xCF
	markerDAC    = 0xCC
	markerDRI    = 0xDD
	markerDNL    = 0xDC
	markerRSTFst = 0xD0
	markerRSTLst = 0xD7
)

// maxTables is the number of DQT / DC-DHT / AC-DHT table slots.
const maxTables = 4

// zigZagOrder maps a zig-zag serialized coefficient position (0..63) to
// its natural row-major index (row*8+col) within an 8x8 block. This is
// the standard JPEG scan pattern (ITU-T T.81 Annex A, Figure A.6).
var zigZagOrder = [64]uint8{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}
