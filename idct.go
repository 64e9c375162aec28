package jpeg

import "math"

// invSqrt2 is 1/sqrt(2), the DC-term normalization coefficient C(0) in
// the separable 2-D inverse DCT.
const invSqrt2 = 0.70710678118654752440

// idctCos[x][u] = cos((2x+1)*u*pi/16), precomputed once.
var idctCos [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			idctCos[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

// DctCalculator computes the fixed-size 8x8 inverse DCT-II that turns
// dequantized frequency coefficients back into spatial-domain samples.
// Its scratch buffer is owned by the calculator and reused across
// blocks (the decoder holds a single DctCalculator for the whole
// decode) to avoid per-block allocation.
type DctCalculator struct {
	row [64]float64
}

// NewDctCalculator returns a DctCalculator with its scratch buffer
// ready for reuse.
func NewDctCalculator() *DctCalculator {
	return &DctCalculator{}
}

// Inverse performs the 2-D inverse DCT-II of block in place. block
// holds 64 dequantized coefficients in natural (row, col) order on
// entry and 64 spatial samples, centered at zero, in the same order on
// return.
func (c *DctCalculator) Inverse(block *[64]float64) {
	for row := 0; row < 8; row++ {
		idct1D(block[row*8:row*8+8], c.row[row*8:row*8+8])
	}
	var col [8]float64
	var out [8]float64
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			col[y] = c.row[y*8+x]
		}
		idct1D(col[:], out[:])
		for y := 0; y < 8; y++ {
			block[y*8+x] = out[y]
		}
	}
}

// idct1D computes the 8-point inverse DCT-II of in into out:
//
//	out[x] = 1/2 * sum_{u=0}^{7} C(u) * in[u] * cos((2x+1)u*pi/16)
//
// with C(0) = 1/sqrt(2) and C(u) = 1 for u > 0. Applying this twice,
// once per axis, computes the separable 2-D transform; the combined
// 1/4 scale factor of the standard IDCT formula falls out of the two
// 1/2 passes.
func idct1D(in, out []float64) {
	for x := 0; x < 8; x++ {
		var sum float64
		for u := 0; u < 8; u++ {
			cu := 1.0
			if u == 0 {
				cu = invSqrt2
			}
			sum += cu * in[u] * idctCos[x][u]
		}
		out[x] = 0.5 * sum
	}
}
