package jpeg

import "io"

// Decoder holds all per-stream state for a single decode: the bit
// cursor, tables, channel descriptors, and the image sink. A Decoder
// is single-use, synchronous, and not safe to share across goroutines
// during a decode.
type Decoder struct {
	src *BitReader

	quant  [maxTables]*QuantTable
	dcHuff [maxTables]*HuffmanTree
	acHuff [maxTables]*HuffmanTree

	channels    []channel
	channelByID map[uint8]int
	scan        []scanComponent

	maxH, maxV    int
	width, height int

	sawSOI bool
	sawSOF bool
	sawSOS bool

	sink ImageSink
	idct *DctCalculator
}

// NewDecoder returns a Decoder that will read a JPEG bitstream from r
// and drive sink.
func NewDecoder(r io.Reader, sink ImageSink) *Decoder {
	return &Decoder{
		src:         NewBitReader(r),
		channelByID: make(map[uint8]int),
		sink:        sink,
		idct:        NewDctCalculator(),
	}
}

// Decode drives the marker state machine to completion: SOI, then
// segments until SOS triggers entropy decoding and MCU assembly, then
// EOI. It returns a *DecodeError on any structural or entropy failure;
// there is no partial-image recovery.
func (d *Decoder) Decode() error {
	if err := d.expectSOI(); err != nil {
		return err
	}
	for {
		marker, err := d.nextMarker()
		if err != nil {
			return err
		}
		switch {
		case marker == markerSOI:
			return newError(BadMarker, "duplicate SOI")
		case marker == markerEOI:
			return newError(BadMarker, "EOI before SOS")
		case marker >= markerAPPFirst && marker <= markerAPPLast:
			if err := d.skipSegment(); err != nil {
				return err
			}
		case marker == markerCOM:
			if err := d.readCOM(); err != nil {
				return err
			}
		case marker == markerDQT:
			if err := d.readDQT(); err != nil {
				return err
			}
		case marker == markerDHT:
			if err := d.readDHT(); err != nil {
				return err
			}
		case marker == markerSOF0:
			if err := d.readSOF0(); err != nil {
				return err
			}
		case marker == markerSOS:
			if err := d.readSOS(); err != nil {
				return err
			}
			if err := d.decodeScan(); err != nil {
				return err
			}
			return d.expectEOI()
		case isOutOfScopeMarker(marker):
			return newError(Unsupported, "unsupported marker 0x%02X", marker)
		default:
			return newError(BadMarker, "unrecognized marker 0x%02X", marker)
		}
	}
}

func isOutOfScopeMarker(marker byte) bool {
	switch marker {
	case markerSOF1, markerSOF2, markerSOF3, markerSOF5, markerSOF6, markerSOF7,
		markerSOF9, markerSOF10, markerSOF11, markerSOF13, markerSOF14, markerSOF15,
		markerDAC, markerDRI, markerDNL:
		return true
	}
	return marker >= markerRSTFst && marker <= markerRSTLst
}

func (d *Decoder) expectSOI() error {
	b0, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	b1, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	if b0 != 0xFF || b1 != markerSOI {
		return newError(BadMarker, "stream does not start with SOI")
	}
	d.sawSOI = true
	return nil
}

func (d *Decoder) expectEOI() error {
	d.src.AlignToByte()
	b0, b1, err := d.src.PeekTwoBytes()
	if err != nil {
		return err
	}
	if b0 != 0xFF || b1 != markerEOI {
		return newError(BadMarker, "expected EOI after scan data, found 0x%02X 0x%02X", b0, b1)
	}
	if _, err := d.src.ReadByte(false); err != nil {
		return err
	}
	if _, err := d.src.ReadByte(false); err != nil {
		return err
	}
	return nil
}

// nextMarker reads a 0xFF lead byte followed by the marker byte.
func (d *Decoder) nextMarker() (byte, error) {
	lead, err := d.src.ReadByte(false)
	if err != nil {
		return 0, err
	}
	if lead != 0xFF {
		return 0, newError(BadMarker, "expected marker, found 0x%02X", lead)
	}
	marker, err := d.src.ReadByte(false)
	if err != nil {
		return 0, err
	}
	return marker, nil
}

// readSegmentLength reads the 16-bit big-endian length field every
// non-SOI/EOI segment begins with (inclusive of the two length bytes
// themselves) and returns the body length.
func (d *Decoder) readSegmentLength() (int, error) {
	hi, err := d.src.ReadByte(false)
	if err != nil {
		return 0, err
	}
	lo, err := d.src.ReadByte(false)
	if err != nil {
		return 0, err
	}
	length := int(hi)<<8 | int(lo)
	if length < 2 {
		return 0, newError(BadSegment, "segment length %d is too short to include itself", length)
	}
	return length - 2, nil
}

func (d *Decoder) skipSegment() error {
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := d.src.ReadByte(false); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readCOM() error {
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	comment := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		comment[i] = b
	}
	d.sink.SetComment(comment)
	return nil
}

func (d *Decoder) readDQT() error {
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	for n > 0 {
		pq, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		n--
		precision := pq >> 4
		tableID := int(pq & 0x0F)
		if tableID >= maxTables {
			return newError(BadTable, "DQT table id %d out of range", tableID)
		}
		var coeffs [64]uint16
		for z := 0; z < 64; z++ {
			if precision == 0 {
				b, err := d.src.ReadByte(false)
				if err != nil {
					return err
				}
				coeffs[z] = uint16(b)
				n--
			} else {
				hi, err := d.src.ReadByte(false)
				if err != nil {
					return err
				}
				lo, err := d.src.ReadByte(false)
				if err != nil {
					return err
				}
				coeffs[z] = uint16(hi)<<8 | uint16(lo)
				n -= 2
			}
		}
		table := &QuantTable{}
		table.setZigZag(coeffs)
		d.quant[tableID] = table
	}
	if n != 0 {
		return newError(BadSegment, "DQT segment length disagreed with its records")
	}
	return nil
}

func (d *Decoder) readDHT() error {
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	for n > 0 {
		tc, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		n--
		class := tc >> 4
		tableID := int(tc & 0x0F)
		if tableID >= maxTables {
			return newError(BadTable, "DHT table id %d out of range", tableID)
		}
		var counts [16]uint8
		total := 0
		for i := 0; i < 16; i++ {
			b, err := d.src.ReadByte(false)
			if err != nil {
				return err
			}
			counts[i] = b
			total += int(b)
			n--
		}
		values := make([]uint8, total)
		for i := 0; i < total; i++ {
			b, err := d.src.ReadByte(false)
			if err != nil {
				return err
			}
			values[i] = b
			n--
		}
		tree := NewHuffmanTree()
		if err := tree.Build(counts, values); err != nil {
			return err
		}
		if class == 0 {
			d.dcHuff[tableID] = tree
		} else {
			d.acHuff[tableID] = tree
		}
	}
	if n != 0 {
		return newError(BadSegment, "DHT segment length disagreed with its records")
	}
	return nil
}

func (d *Decoder) readSOF0() error {
	if d.sawSOF {
		return newError(BadSegment, "duplicate SOF0")
	}
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	precision, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	if precision != 8 {
		return newError(BadSegment, "SOF0 precision %d is not 8", precision)
	}
	heightHi, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	heightLo, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	widthHi, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	widthLo, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	height := int(heightHi)<<8 | int(heightLo)
	width := int(widthHi)<<8 | int(widthLo)

	nChannels, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	if n != 6+3*int(nChannels) {
		return newError(BadSegment, "SOF0 length disagreed with its channel count")
	}

	d.channels = make([]channel, 0, nChannels)
	d.maxH, d.maxV = 0, 0
	for i := 0; i < int(nChannels); i++ {
		id, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		hv, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		q, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		h, v := int(hv>>4), int(hv&0x0F)
		if h < 1 || h > 4 || v < 1 || v > 4 {
			return newError(BadSegment, "channel %d has invalid sampling factors %d x %d", id, h, v)
		}
		if int(q) >= maxTables {
			return newError(BadTable, "channel %d references quantization table %d out of range", id, q)
		}
		if _, dup := d.channelByID[id]; dup {
			return newError(BadSegment, "duplicate channel id %d in SOF0", id)
		}
		d.channelByID[id] = len(d.channels)
		d.channels = append(d.channels, channel{id: id, h: h, v: v, qTableIndex: int(q)})
		if h > d.maxH {
			d.maxH = h
		}
		if v > d.maxV {
			d.maxV = v
		}
	}

	d.width, d.height = width, height
	d.sink.SetSize(width, height)
	d.sawSOF = true
	return nil
}
