// Package ppmsink is a minimal jpeg.ImageSink that buffers decoded
// pixels and writes them out as a binary PPM (P6) file. It is not part
// of the decoding package: the decoder only knows about the ImageSink
// interface, and any container — this one, or something else entirely
// — can sit on the other side of it.
package ppmsink

import (
	"bufio"
	"fmt"
	"io"
)

// Sink buffers one decoded image.
type Sink struct {
	width, height int
	pixels        []uint8 // width*height*3, row-major RGB
	comment       []byte
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{}
}

// SetSize implements jpeg.ImageSink.
func (s *Sink) SetSize(width, height int) {
	s.width, s.height = width, height
	s.pixels = make([]uint8, width*height*3)
}

// SetComment implements jpeg.ImageSink.
func (s *Sink) SetComment(comment []byte) {
	s.comment = append(s.comment[:0], comment...)
}

// SetPixel implements jpeg.ImageSink.
func (s *Sink) SetPixel(y, x int, rgb [3]uint8) {
	off := (y*s.width + x) * 3
	s.pixels[off] = rgb[0]
	s.pixels[off+1] = rgb[1]
	s.pixels[off+2] = rgb[2]
}

// Comment returns the most recently set comment, if any.
func (s *Sink) Comment() []byte {
	return s.comment
}

// WriteTo writes the buffered image as a binary PPM (P6) file.
func (s *Sink) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", s.width, s.height); err != nil {
		return 0, err
	}
	n, err := bw.Write(s.pixels)
	if err != nil {
		return int64(n), err
	}
	return int64(n), bw.Flush()
}
