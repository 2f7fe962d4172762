package texture

import (
	"bytes"
	"testing"
)

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h   int
		sw, sh int
	}{
		{1, 1, 1, 1},
		{3, 5, 4, 8},
		{64, 64, 64, 64},
		{65, 65, 64, 64}, // 128 > 86, halved
		{100, 100, 128, 128},
		{96, 200, 128, 256},
		{260, 260, 256, 256},
		{512, 300, 512, 256},
		{4096, 4096, 4096, 4096},
		{5000, 8192, 4096, 4096},
		{16384, 1, 4096, 1},
	}
	for _, tt := range tests {
		sw, sh := ScaledSize(tt.w, tt.h)
		if sw != tt.sw || sh != tt.sh {
			t.Errorf("ScaledSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, sw, sh, tt.sw, tt.sh)
		}
	}
}

func TestScaledSize_Properties(t *testing.T) {
	for n := 1; n <= 9000; n++ {
		s := scaledDim(n)
		if !isPowerOfTwo(s) {
			t.Fatalf("scaledDim(%d) = %d, not a power of two", n, s)
		}
		if s > MaxSize || s < 1 {
			t.Fatalf("scaledDim(%d) = %d, out of range", n, s)
		}

		p := 1
		for p < n {
			p <<= 1
		}
		want := p
		if p > 64 && p > n*4/3 {
			want >>= 1
		}
		for want > MaxSize {
			want >>= 1
		}
		if s != want {
			t.Fatalf("scaledDim(%d) = %d, want %d", n, s, want)
		}
	}
}

func solidImage(w, h int, c [4]byte) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:], c[:])
	}
	return pix
}

func TestResample_UniformColor(t *testing.T) {
	c := [4]byte{200, 100, 50, 255}
	sizes := [][2]int{{3, 3}, {17, 5}, {100, 60}, {300, 129}, {1, 7}}
	targets := [][2]int{{1, 1}, {4, 8}, {64, 32}, {256, 256}}

	for _, src := range sizes {
		in := solidImage(src[0], src[1], c)
		for _, dst := range targets {
			out := make([]byte, dst[0]*dst[1]*4)
			Resample(in, src[0], src[1], out, dst[0], dst[1])
			for i := 0; i < len(out); i += 4 {
				if !bytes.Equal(out[i:i+4], c[:]) {
					t.Fatalf("%v -> %v: pixel %d = %v, want %v", src, dst, i/4, out[i:i+4], c)
				}
			}
		}
	}
}

func TestResample_TransparentTapsExcludedFromColor(t *testing.T) {
	// 2x1 source: opaque red next to transparent green, downsampled to 1x1.
	// Column taps at 1/4 and 3/4 of a 2px step land on both pixels.
	in := []byte{
		255, 0, 0, 255,
		0, 255, 0, 0,
	}
	out := make([]byte, 4)
	Resample(in, 2, 1, out, 1, 1)

	if out[0] != 255 || out[1] != 0 || out[2] != 0 {
		t.Errorf("color = %v, want pure red (transparent tap ignored)", out[:3])
	}
	if out[3] != 127 {
		t.Errorf("alpha = %d, want 127 (average of all taps)", out[3])
	}
}

func TestResample_AllTransparent(t *testing.T) {
	in := solidImage(4, 4, [4]byte{10, 20, 30, 0})
	out := make([]byte, 2*2*4)
	Resample(in, 4, 4, out, 2, 2)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestScale_CopiesWhenAlreadyScaled(t *testing.T) {
	in := make([]byte, 8*4*4)
	for i := range in {
		in[i] = byte(i)
	}
	out, w, h := Scale(in, 8, 4)
	if w != 8 || h != 4 {
		t.Fatalf("size = %dx%d, want 8x4", w, h)
	}
	if !bytes.Equal(in, out) {
		t.Error("expected verbatim copy")
	}
	out[0] = 0xFF
	if in[0] == 0xFF {
		t.Error("output aliases input")
	}
}

func TestScale_Resizes(t *testing.T) {
	in := solidImage(100, 30, [4]byte{1, 2, 3, 255})
	out, w, h := Scale(in, 100, 30)
	if w != 128 || h != 32 {
		t.Fatalf("size = %dx%d, want 128x32", w, h)
	}
	if len(out) != w*h*4 {
		t.Fatalf("len = %d, want %d", len(out), w*h*4)
	}
}
