package texture

import "math"

// MaxSize is the largest dimension a texture is uploaded with.
const MaxSize = 4096

// ScaledSize returns the power-of-two dimensions a w×h image is uploaded at.
// Each axis is rounded up to a power of two, then halved once when the
// result exceeds 64 and is more than 4/3 of the original, so a 200px axis
// becomes 256 but a 260px axis becomes 256 rather than 512.
func ScaledSize(width, height int) (int, int) {
	return scaledDim(width), scaledDim(height)
}

func scaledDim(n int) int {
	s := 1
	for s < n {
		s <<= 1
	}
	if s > 64 && s > n*4/3 {
		s >>= 1
	}
	for s > MaxSize {
		s >>= 1
	}
	if s < 1 {
		s = 1
	}
	return s
}

// Scale converts an RGBA8 image to its upload resolution. The returned
// buffer is always freshly allocated; when the size already matches it is a
// verbatim copy.
func Scale(pix []byte, width, height int) ([]byte, int, int) {
	sw, sh := ScaledSize(width, height)
	out := make([]byte, sw*sh*4)
	if sw == width && sh == height {
		copy(out, pix)
		return out, sw, sh
	}
	Resample(pix, width, height, out, sw, sh)
	return out, sw, sh
}

// Resample box-filters an RGBA8 image into out (outW×outH×4 bytes).
//
// Every output pixel reads four taps: two rows at 1/4 and 3/4 of the source
// step, and two columns at the same offsets. Color is averaged only over
// taps with non-zero alpha so transparent mattes do not bleed into edges;
// when all taps are transparent the color is black. Alpha is the plain
// average of all four taps.
func Resample(in []byte, inW, inH int, out []byte, outW, outH int) {
	var cols1, cols2 [MaxSize]int

	fracStep := uint32(inW<<16) / uint32(outW)
	frac := fracStep >> 2
	for i := 0; i < outW; i++ {
		cols1[i] = 4 * int(frac>>16)
		frac += fracStep
	}
	frac = 3 * (fracStep >> 2)
	for i := 0; i < outW; i++ {
		cols2[i] = 4 * int(frac>>16)
		frac += fracStep
	}

	rowStride := inW * 4
	f := float32(inH) / float32(outH)
	f1, f2 := 0.25*f, 0.75*f
	o := 0
	for i := 0; i < outH; i++ {
		row1 := in[rowStride*clampRow(f1, inH):]
		row2 := in[rowStride*clampRow(f2, inH):]
		for j := 0; j < outW; j++ {
			var n, r, g, b, a int
			for _, pix := range [4][]byte{
				row1[cols1[j]:], row1[cols2[j]:],
				row2[cols1[j]:], row2[cols2[j]:],
			} {
				a += int(pix[3])
				if pix[3] != 0 {
					n++
					r += int(pix[0])
					g += int(pix[1])
					b += int(pix[2])
				}
			}

			switch n {
			case 0:
				r, g, b = 0, 0, 0
			case 2:
				r, g, b = r>>1, g>>1, b>>1
			case 3:
				r, g, b = r/3, g/3, b/3
			case 4:
				r, g, b = r>>2, g>>2, b>>2
			}

			out[o] = uint8(r)
			out[o+1] = uint8(g)
			out[o+2] = uint8(b)
			out[o+3] = uint8(a >> 2)
			o += 4
		}
		f1 += f
		f2 += f
	}
}

func clampRow(f float32, height int) int {
	row := int(math.Floor(float64(f)))
	if row >= height {
		row = height - 1
	}
	return row
}
