package texture

// MipMap reduces an RGBA8 level in place to half its size (floored to 1).
// Each output pixel averages a 2x2 block. The destination alpha is
// (max + average) / 2 so edge-transparent textures keep some coverage at
// low resolutions; fully opaque and fully transparent blocks are unchanged.
// When an axis is already 1 the block's second tap repeats the first.
func MipMap(pix []byte, width, height int) {
	outW, outH := NextMipSize(width, height)
	stride := width * 4
	dx, dy := 4, stride
	if width == 1 {
		dx = 0
	}
	if height == 1 {
		dy = 0
	}

	o := 0
	for y := 0; y < outH; y++ {
		row := y * 2 * stride
		for x := 0; x < outW; x++ {
			i := row + x*8
			var n, r, g, b, a, am int
			for _, idx := range [4]int{i, i + dx, i + dy, i + dy + dx} {
				n++
				r += int(pix[idx])
				g += int(pix[idx+1])
				b += int(pix[idx+2])
				a += int(pix[idx+3])
				am = max(am, int(pix[idx+3]))
			}

			// n is always 4 here; the other cases keep a selective
			// sampling mode possible without touching the division.
			switch n {
			case 0:
				r, g, b = 0, 0, 0
			case 2:
				r, g, b, a = r>>1, g>>1, b>>1, a>>1
			case 3:
				r, g, b, a = r/3, g/3, b/3, a/3
			case 4:
				r, g, b, a = r>>2, g>>2, b>>2, a>>2
			}

			pix[o] = uint8(r)
			pix[o+1] = uint8(g)
			pix[o+2] = uint8(b)
			pix[o+3] = uint8((am + a) / 2)
			o += 4
		}
	}
}

// NextMipSize halves both dimensions, flooring each to 1.
func NextMipSize(width, height int) (int, int) {
	return max(width>>1, 1), max(height>>1, 1)
}

// MipLevels returns how many reductions take a width×height image to 1×1.
func MipLevels(width, height int) int {
	n := 0
	for width > 1 || height > 1 {
		width, height = NextMipSize(width, height)
		n++
	}
	return n
}

// Chain repeatedly reduces pix until both dimensions reach 1, calling emit
// after every reduction with the new level index and size. The slice passed
// to emit aliases pix and is only valid until the next call.
func Chain(pix []byte, width, height int, emit func(level, w, h int, pix []byte)) {
	level := 0
	for width > 1 || height > 1 {
		MipMap(pix, width, height)
		level++
		width, height = NextMipSize(width, height)
		emit(level, width, height, pix[:width*height*4])
	}
}
