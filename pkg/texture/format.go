// Package texture holds decoded texture payloads and the CPU-side image
// processing used before GPU upload: power-of-two rescaling, mip generation,
// software block decompression and the default placeholder image.
package texture

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies the pixel layout of a Data buffer.
type Format uint8

// Texture formats produced by the asset decoders.
const (
	FormatUnknown Format = iota
	FormatRGBA8          // 4 bytes per pixel, R G B A
	FormatBGRA8          // 4 bytes per pixel, B G R A
	FormatG8             // 1 byte per pixel, grayscale
	FormatDXT1           // BC1, 8 bytes per 4x4 block
	FormatDXT3           // BC2, 16 bytes per 4x4 block
	FormatDXT5           // BC3, 16 bytes per 4x4 block
	FormatBC5            // RGTC2, two-channel, 16 bytes per 4x4 block
	FormatBC7            // BPTC, 16 bytes per 4x4 block
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatRGBA8:   "rgba8",
	FormatBGRA8:   "bgra8",
	FormatG8:      "g8",
	FormatDXT1:    "dxt1",
	FormatDXT3:    "dxt3",
	FormatDXT5:    "dxt5",
	FormatBC5:     "bc5",
	FormatBC7:     "bc7",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseFormat converts a case-insensitive format name to a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "rgba", "rgba8":
		return FormatRGBA8, nil
	case "bc1":
		return FormatDXT1, nil
	case "bc2":
		return FormatDXT3, nil
	case "bc3":
		return FormatDXT5, nil
	case "ati2", "3dc":
		return FormatBC5, nil
	}
	for f, name := range formatNames {
		if name == s && f != FormatUnknown {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// UnmarshalText lets formats be written by name in YAML documents.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// IsCompressed reports whether the format stores 4x4 blocks.
func (f Format) IsCompressed() bool {
	switch f {
	case FormatDXT1, FormatDXT3, FormatDXT5, FormatBC5, FormatBC7:
		return true
	}
	return false
}

// BlockSize returns the bytes per 4x4 block, or 0 for uncompressed formats.
func (f Format) BlockSize() int {
	switch f {
	case FormatDXT1:
		return 8
	case FormatDXT3, FormatDXT5, FormatBC5, FormatBC7:
		return 16
	}
	return 0
}

// ExpectedSize returns the number of bytes a w×h image of this format occupies.
func (f Format) ExpectedSize(w, h int) int {
	if bs := f.BlockSize(); bs > 0 {
		return ((w + 3) / 4) * ((h + 3) / 4) * bs
	}
	switch f {
	case FormatRGBA8, FormatBGRA8:
		return w * h * 4
	case FormatG8:
		return w * h
	}
	return 0
}

// Errors returned by texture operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	ErrTruncated         = errors.New("texture data truncated")
	ErrInvalidSize       = errors.New("invalid texture dimensions")
)

// Data is one decoded texture level as handed over by the asset decoder.
// It is treated as immutable once produced.
type Data struct {
	Format Format
	Width  int
	Height int
	Bytes  []byte
}

// DataSize returns the byte length of the payload.
func (d *Data) DataSize() int {
	return len(d.Bytes)
}

// Validate checks dimensions and payload length against the format.
func (d *Data) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: no data", ErrInvalidSize)
	}
	if d.Width < 1 || d.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.Width, d.Height)
	}
	want := d.Format.ExpectedSize(d.Width, d.Height)
	if want == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.Format)
	}
	if len(d.Bytes) < want {
		return fmt.Errorf("%w: %s %dx%d needs %d bytes, have %d",
			ErrTruncated, d.Format, d.Width, d.Height, want, len(d.Bytes))
	}
	return nil
}

// Source supplies texture data on demand. Asset decoders and the material
// library implement it; the GPU uploader calls it once per upload.
type Source interface {
	TextureData() (*Data, error)
}

// Static wraps already decoded data as a Source.
type Static struct {
	Data *Data
}

// TextureData implements Source.
func (s Static) TextureData() (*Data, error) {
	if s.Data == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidSize)
	}
	return s.Data, s.Data.Validate()
}
