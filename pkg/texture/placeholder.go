package texture

// PlaceholderSize is the edge length of the default checkerboard.
const PlaceholderSize = 64

// placeholderSaturation controls how colorful the quadrants are;
// 0 would give a gray checkerboard.
const placeholderSaturation = 96

// Placeholder builds the checkerboard bound when a material has no usable
// texture. Four tinted quadrants make UV orientation visible, and a nested
// 4-pixel checker shows filtering and scale.
func Placeholder() *Data {
	const n = placeholderSaturation
	quadrants := [4][4]uint8{
		{64, 64, 64 + n, 255},
		{48 + n, 48, 48, 255},
		{48, 48 + n, 48, 255},
		{64, 64 + n/2, 64 + n/2, 255},
	}

	pix := make([]byte, PlaceholderSize*PlaceholderSize*4)
	for y := 0; y < PlaceholderSize; y++ {
		for x := 0; x < PlaceholderSize; x++ {
			q := 0
			if x < PlaceholderSize/2 {
				q += 2
			}
			if y < PlaceholderSize/2 {
				q++
			}
			c := quadrants[q]
			corr := -4
			if (x^y)&4 != 0 {
				corr = 4
			}
			o := (y*PlaceholderSize + x) * 4
			pix[o] = uint8(int(c[0]) + corr)
			pix[o+1] = uint8(int(c[1]) + corr)
			pix[o+2] = uint8(int(c[2]) + corr)
			pix[o+3] = c[3]
		}
	}

	return &Data{
		Format: FormatRGBA8,
		Width:  PlaceholderSize,
		Height: PlaceholderSize,
		Bytes:  pix,
	}
}
