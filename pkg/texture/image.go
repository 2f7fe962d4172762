package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// DecodeImage decodes an image file into RGBA8 Data. The file name selects
// the decoder: .tga and .bmp are handled explicitly, anything else goes
// through the registered image decoders (PNG, JPEG).
func DecodeImage(data []byte, name string) (*Data, error) {
	var img image.Image
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".tga":
		return DecodeTGA(data)
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image to RGBA8 Data.
func FromImage(img image.Image) *Data {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Data{
		Format: FormatRGBA8,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  rgba.Pix,
	}
}

// ToImage decompresses Data into a new image.RGBA.
func ToImage(d *Data) (*image.RGBA, error) {
	pix, err := Decompress(d)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}, nil
}

// TGA image types handled by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

// DecodeTGA decodes uncompressed or RLE true-color TGA files (24 or 32 bpp)
// into RGBA8 Data with the origin at the top-left corner.
func DecodeTGA(data []byte) (*Data, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: TGA header", ErrTruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topDown := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedFormat)
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: TGA depth %d", ErrUnsupportedFormat, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: TGA %dx%d", ErrInvalidSize, width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA id field", ErrTruncated)
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	d := &Data{
		Format: FormatRGBA8,
		Width:  width,
		Height: height,
		Bytes:  make([]byte, width*height*4),
	}
	put := func(idx int, px []byte) {
		x, y := idx%width, idx/width
		if !topDown {
			y = height - 1 - y
		}
		o := (y*width + x) * 4
		d.Bytes[o] = px[2]
		d.Bytes[o+1] = px[1]
		d.Bytes[o+2] = px[0]
		d.Bytes[o+3] = 255
		if bytesPerPixel == 4 {
			d.Bytes[o+3] = px[3]
		}
	}

	total := width * height
	if imageType == tgaTrueColor {
		if len(src) < total*bytesPerPixel {
			return nil, fmt.Errorf("%w: TGA pixels", ErrTruncated)
		}
		for i := 0; i < total; i++ {
			put(i, src[i*bytesPerPixel:])
		}
		return d, nil
	}

	pos, i := 0, 0
	for i < total {
		if pos >= len(src) {
			return nil, fmt.Errorf("%w: TGA RLE stream", ErrTruncated)
		}
		header := src[pos]
		pos++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("%w: TGA RLE packet", ErrTruncated)
			}
			px := src[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for ; count > 0 && i < total; count-- {
				put(i, px)
				i++
			}
			continue
		}

		for ; count > 0 && i < total; count-- {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("%w: TGA raw packet", ErrTruncated)
			}
			put(i, src[pos:])
			pos += bytesPerPixel
			i++
		}
	}
	return d, nil
}
