package screenshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromPixels_Flips(t *testing.T) {
	// Bottom row red, top row blue.
	pix := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FromPixels(pix, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top pixel = %v, want blue", img.At(0, 0))
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r == 0 {
		t.Errorf("bottom pixel = %v, want red", img.At(0, 1))
	}

	if _, err := FromPixels(pix, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCapture_Filename(t *testing.T) {
	c := New("shots")
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC) }

	tests := []struct {
		name string
		want string
	}{
		{"Hero", filepath.Join("shots", "Hero_2024-03-01_12-30-05.png")},
		{"pkg/Hero Mat", filepath.Join("shots", "pkg_Hero_Mat_2024-03-01_12-30-05.png")},
		{"", filepath.Join("shots", "matview_2024-03-01_12-30-05.png")},
	}
	for _, tt := range tests {
		if got := c.Filename(tt.name); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCapture_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := New(dir)

	path, err := c.Save("Wall", make([]byte, 4*3*2), 3, 2)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("size = %dx%d, want 3x2", b.Dx(), b.Dy())
	}
}
