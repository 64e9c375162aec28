package jpeg

// scanComponent is one channel's entry in the SOS header: which dense
// channel it refers to and which Huffman tables it decodes with.
type scanComponent struct {
	channelIndex int
	dcTable      int
	acTable      int
}

// readSOS parses the SOS segment header, resolves each referenced
// component id through the tag -> dense index map built by SOF0, and
// resets the DC predictor of every channel it references to 0. It does not consume the
// entropy-coded data that follows; decodeScan does that.
func (d *Decoder) readSOS() error {
	if !d.sawSOF {
		return newError(BadMarker, "SOS before SOF0")
	}
	n, err := d.readSegmentLength()
	if err != nil {
		return err
	}
	nChannels, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	if n != 4+2*int(nChannels) {
		return newError(BadSegment, "SOS length disagreed with its channel count")
	}

	d.scan = make([]scanComponent, 0, nChannels)
	for i := 0; i < int(nChannels); i++ {
		id, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		tables, err := d.src.ReadByte(false)
		if err != nil {
			return err
		}
		idx, ok := d.channelByID[id]
		if !ok {
			return newError(BadTable, "SOS references undeclared channel id %d", id)
		}
		dcIdx, acIdx := int(tables>>4), int(tables&0x0F)
		if dcIdx >= maxTables || acIdx >= maxTables {
			return newError(BadTable, "SOS channel %d references huffman table out of range", id)
		}
		if d.dcHuff[dcIdx] == nil || d.acHuff[acIdx] == nil {
			return newError(BadTable, "SOS channel %d references an undefined huffman table", id)
		}
		d.channels[idx].dcTableIndex = dcIdx
		d.channels[idx].acTableIndex = acIdx
		d.channels[idx].dcPredictor = 0
		d.scan = append(d.scan, scanComponent{channelIndex: idx, dcTable: dcIdx, acTable: acIdx})
	}

	start, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	end, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	approx, err := d.src.ReadByte(false)
	if err != nil {
		return err
	}
	if start != 0 || end != 0x3F || approx != 0 {
		return newError(BadSegment, "SOS spectral selection/approximation fields are not baseline (Ss=%d Se=%d Ah/Al=%d)", start, end, approx)
	}

	for _, ch := range d.channels {
		if ch.qTableIndex >= 0 && d.quant[ch.qTableIndex] == nil {
			return newError(BadTable, "channel %d references an undefined quantization table", ch.id)
		}
	}

	d.sawSOS = true
	return nil
}

// decodeScan runs the entropy decoder and MCU assembler over the
// single baseline scan: one MCU at a time, row-major, each channel's
// blocks decoded in the order declared by SOS, each channel's blocks
// iterated row-major over its V x H grid. This interleaving is a
// sequential dependency (the DC predictor) and must not be reordered.
func (d *Decoder) decodeScan() error {
	if len(d.channels) != 1 && len(d.channels) != 3 {
		return newError(BadSegment, "unsupported channel count %d for color conversion", len(d.channels))
	}
	if len(d.scan) != len(d.channels) {
		return newError(BadSegment, "SOS declares %d channels, SOF0 declared %d", len(d.scan), len(d.channels))
	}

	mcuW := ceilDiv(d.width, 8*d.maxH)
	mcuH := ceilDiv(d.height, 8*d.maxV)

	blocks := make([][][64]float64, len(d.scan))
	for i, sc := range d.scan {
		ch := d.channels[sc.channelIndex]
		blocks[i] = make([][64]float64, ch.h*ch.v)
	}

	for my := 0; my < mcuH; my++ {
		for mx := 0; mx < mcuW; mx++ {
			for si, sc := range d.scan {
				ch := &d.channels[sc.channelIndex]
				for by := 0; by < ch.v; by++ {
					for bx := 0; bx < ch.h; bx++ {
						spatial, err := d.decodeBlock(ch)
						if err != nil {
							return err
						}
						blocks[si][by*ch.h+bx] = spatial
					}
				}
			}
			d.emitMCU(mx, my, blocks)
		}
	}
	return nil
}

// decodeBlock decodes one 8x8 block for channel ch: a DC difference
// (added to the channel's running predictor), a run-length/Huffman
// coded AC sequence terminated by EOB or 63 coefficients, de-zigzag,
// dequantize, then inverse DCT.
func (d *Decoder) decodeBlock(ch *channel) ([64]float64, error) {
	var zz [64]int32

	dcTable := d.dcHuff[ch.dcTableIndex]
	size, err := dcTable.Decode(d.src)
	if err != nil {
		return [64]float64{}, err
	}
	diff, err := d.decodeAmplitude(int(size))
	if err != nil {
		return [64]float64{}, err
	}
	ch.dcPredictor += diff
	zz[0] = ch.dcPredictor

	acTable := d.acHuff[ch.acTableIndex]
	idx := 1
	for idx < 64 {
		rs, err := acTable.Decode(d.src)
		if err != nil {
			return [64]float64{}, err
		}
		run, size := int(rs>>4), int(rs&0x0F)
		if rs == 0x00 { // EOB: remaining coefficients stay zero.
			break
		}
		idx += run
		if idx >= 64 {
			return [64]float64{}, newError(BadEntropy, "AC run overruns block")
		}
		val, err := d.decodeAmplitude(size)
		if err != nil {
			return [64]float64{}, err
		}
		zz[idx] = val
		idx++
	}

	natural := deZigZag(zz)
	quant := d.quant[ch.qTableIndex]
	var coeffs [64]float64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			coeffs[row*8+col] = float64(natural[row*8+col]) * float64(quant.At(row, col))
		}
	}
	d.idct.Inverse(&coeffs)
	return coeffs, nil
}

// decodeAmplitude reads size bits (size == 0 yields the value 0) and
// maps the unsigned bit pattern v to a signed JPEG amplitude: if v's
// top bit is 1, the value is v; otherwise it is v - (2^size - 1).
func (d *Decoder) decodeAmplitude(size int) (int32, error) {
	if size == 0 {
		return 0, nil
	}
	v, err := d.src.ReadBits(size, true)
	if err != nil {
		return 0, err
	}
	threshold := uint32(1) << (size - 1)
	if v >= threshold {
		return int32(v), nil
	}
	return int32(v) - (int32(1)<<uint(size) - 1), nil
}

// emitMCU upsamples each channel's decoded blocks to the MCU's full
// 8*maxH x 8*maxV pixel grid by nearest-neighbor replication, color
// converts, and writes in-bounds pixels to the sink. Out-of-bounds
// pixels on edge MCUs are discarded, never written.
func (d *Decoder) emitMCU(mx, my int, blocks [][][64]float64) {
	mcuPixelW := 8 * d.maxH
	mcuPixelH := 8 * d.maxV

	for i := 0; i < mcuPixelH; i++ {
		py := my*mcuPixelH + i
		if py >= d.height {
			continue
		}
		for j := 0; j < mcuPixelW; j++ {
			px := mx*mcuPixelW + j
			if px >= d.width {
				continue
			}

			var y, cb, cr float64
			y = d.sampleChannel(blocks[0], d.channels[d.scan[0].channelIndex], i, j)
			if len(d.scan) == 3 {
				cb = d.sampleChannel(blocks[1], d.channels[d.scan[1].channelIndex], i, j)
				cr = d.sampleChannel(blocks[2], d.channels[d.scan[2].channelIndex], i, j)
			}

			r, g, b := ycbcrToRGB(y, cb, cr)
			d.sink.SetPixel(py, px, [3]uint8{r, g, b})
		}
	}
}

// sampleChannel looks up the spatial sample at MCU-relative pixel
// (i, j) for ch, nearest-neighbor upsampling from ch's V x H block
// grid per spec: sample position (i*V/maxV, j*H/maxH) within the
// channel's own full-resolution grid for this MCU.
func (d *Decoder) sampleChannel(blocks [][64]float64, ch channel, i, j int) float64 {
	ip := i * ch.v / d.maxV
	jp := j * ch.h / d.maxH
	blockRow, blockCol := ip/8, jp/8
	pixelRow, pixelCol := ip%8, jp%8
	return blocks[blockRow*ch.h+blockCol][pixelRow*8+pixelCol]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
