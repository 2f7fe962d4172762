package texture

import (
	"fmt"
	"math"

	"github.com/galaco/dxt"
)

// Decompress converts any supported format to a tightly packed RGBA8 buffer.
// It does not touch the GPU and is safe to use from export tools.
func Decompress(d *Data) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	n := d.Width * d.Height
	switch d.Format {
	case FormatRGBA8:
		out := make([]byte, n*4)
		copy(out, d.Bytes)
		return out, nil

	case FormatBGRA8:
		out := make([]byte, n*4)
		for i := 0; i < n*4; i += 4 {
			out[i] = d.Bytes[i+2]
			out[i+1] = d.Bytes[i+1]
			out[i+2] = d.Bytes[i]
			out[i+3] = d.Bytes[i+3]
		}
		return out, nil

	case FormatG8:
		out := make([]byte, n*4)
		for i, v := range d.Bytes[:n] {
			out[i*4] = v
			out[i*4+1] = v
			out[i*4+2] = v
			out[i*4+3] = 255
		}
		return out, nil

	case FormatDXT1, FormatDXT3, FormatDXT5:
		return decodeDXT(d)

	case FormatBC5:
		return decodeBC5(d.Bytes, d.Width, d.Height), nil
	}

	return nil, fmt.Errorf("%w: no software decoder for %s", ErrUnsupportedFormat, d.Format)
}

func decodeDXT(d *Data) ([]byte, error) {
	kind := dxt.DXT1
	switch d.Format {
	case FormatDXT3:
		kind = dxt.DXT3
	case FormatDXT5:
		kind = dxt.DXT5
	}

	pix, err := dxt.Decode(d.Bytes, d.Width, d.Height, kind)
	if err != nil {
		return nil, fmt.Errorf("decoding %s %dx%d: %w", d.Format, d.Width, d.Height, err)
	}
	want := d.Width * d.Height * 4
	if len(pix) < want {
		return nil, fmt.Errorf("%w: %s decoder produced %d bytes, want %d", ErrTruncated, d.Format, len(pix), want)
	}
	return pix[:want], nil
}

// decodeBC5 expands RGTC2 blocks. Red and green come from two independent
// 8-value alpha-style ramps; blue is reconstructed as the Z of a unit
// normal, which is what two-channel tangent-space normal maps store.
func decodeBC5(data []byte, width, height int) []byte {
	out := make([]byte, width*height*4)
	bw, bh := (width+3)/4, (height+3)/4

	var red, green [16]uint8
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*16:]
			decodeRamp(block[0:8], &red)
			decodeRamp(block[8:16], &green)

			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= height {
					break
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= width {
						break
					}
					r, g := red[py*4+px], green[py*4+px]
					o := (y*width + x) * 4
					out[o] = r
					out[o+1] = g
					out[o+2] = normalZ(r, g)
					out[o+3] = 255
				}
			}
		}
	}
	return out
}

// decodeRamp decodes one 8-byte interpolated channel block (the DXT5 alpha
// layout) into 16 values.
func decodeRamp(block []byte, dst *[16]uint8) {
	var ramp [8]int
	c0, c1 := int(block[0]), int(block[1])
	ramp[0], ramp[1] = c0, c1
	if c0 > c1 {
		for i := 1; i <= 6; i++ {
			ramp[i+1] = ((7-i)*c0 + i*c1) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			ramp[i+1] = ((5-i)*c0 + i*c1) / 5
		}
		ramp[6], ramp[7] = 0, 255
	}

	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(block[2+i]) << (8 * i)
	}
	for i := 0; i < 16; i++ {
		dst[i] = uint8(ramp[bits&7])
		bits >>= 3
	}
}

func normalZ(r, g uint8) uint8 {
	x := float64(r)/127.5 - 1
	y := float64(g)/127.5 - 1
	z2 := 1 - x*x - y*y
	if z2 <= 0 {
		return 128
	}
	return uint8(clampUnit(math.Sqrt(z2))*127.5 + 127.5)
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
