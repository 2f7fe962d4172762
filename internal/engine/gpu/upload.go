package gpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/texture"
)

// Compressed internal formats. Core profile headers lack the S3TC and BPTC
// enums, so they are spelled out here.
const (
	glCompressedRGBAS3TCDXT1 uint32 = 0x83F1
	glCompressedRGBAS3TCDXT3 uint32 = 0x83F2
	glCompressedRGBAS3TCDXT5 uint32 = 0x83F3
	glCompressedRGRGTC2      uint32 = 0x8DBD
	glCompressedRGBABPTC     uint32 = 0x8E8C
)

// compressedFormat maps a texture format to its GPU format and reports
// whether the driver supports it.
func compressedFormat(f texture.Format, caps Capabilities) (uint32, bool) {
	switch f {
	case texture.FormatDXT1:
		return glCompressedRGBAS3TCDXT1, caps.S3TC
	case texture.FormatDXT3:
		return glCompressedRGBAS3TCDXT3, caps.S3TC
	case texture.FormatDXT5:
		return glCompressedRGBAS3TCDXT5, caps.S3TC
	case texture.FormatBC5:
		return glCompressedRGRGTC2, caps.RGTC
	case texture.FormatBC7:
		return glCompressedRGBABPTC, caps.BPTC
	}
	return 0, false
}

// Options controls a single texture upload.
type Options struct {
	Mipmap bool
	ClampS bool
	ClampT bool
	// Nearest selects unfiltered sampling.
	Nearest bool
}

// Uploader moves texture data to the device. Compressed data is uploaded
// as is when the driver allows it; everything else goes through software
// decompression, power-of-two scaling and a software mip chain.
type Uploader struct {
	dev Device
	log *zap.Logger

	// ForceSoftware disables the compressed path.
	ForceSoftware bool
}

// NewUploader creates an uploader for dev.
func NewUploader(dev Device) *Uploader {
	return &Uploader{dev: dev, log: logger.Named("upload")}
}

// UploadCompressed uploads d without decompressing it. target receives the
// mip generation requests, image the level 0 data; they differ only for
// cube faces. It returns false without touching the device when the format
// or the driver rule the upload out, and false after the fact when the
// driver reports an error, so the caller can fall back to software.
func (u *Uploader) UploadCompressed(target, image Target, d *texture.Data, mipmap bool) bool {
	caps := u.dev.Capabilities()
	format, ok := compressedFormat(d.Format, caps)
	if !ok {
		return false
	}
	if mipmap && !caps.CanGenerateMipmaps() {
		return false
	}
	if len(d.Bytes) < d.Format.ExpectedSize(d.Width, d.Height) {
		return false
	}

	u.clearErrors()
	if mipmap && !caps.FramebufferObject {
		// Older drivers: the flag must be set before the upload.
		u.dev.SetAutoMipmap(target, true)
	}
	u.dev.CompressedTexImage2D(image, 0, format, d.Width, d.Height, d.Bytes)
	if mipmap && caps.FramebufferObject {
		u.dev.GenerateMipmap(target)
	}

	if code := u.dev.GetError(); code != 0 {
		u.log.Warn("compressed upload failed",
			zap.String("format", fmt.Sprintf("0x%04X", format)),
			zap.Stringer("source", d.Format),
			zap.Int("width", d.Width),
			zap.Int("height", d.Height),
			zap.String("error", fmt.Sprintf("0x%04X", code)),
		)
		u.clearErrors()
		return false
	}
	return true
}

// UploadRaw uploads RGBA8 pixels to image, scaled to a power-of-two size.
// With mipmap set the whole chain is generated in software.
func (u *Uploader) UploadRaw(image Target, pix []byte, width, height int, mipmap bool) {
	buf, sw, sh := texture.Scale(pix, width, height)
	u.dev.TexImage2D(image, 0, sw, sh, buf)
	if !mipmap {
		return
	}
	texture.Chain(buf, sw, sh, func(level, w, h int, p []byte) {
		u.dev.TexImage2D(image, level, w, h, p)
	})
}

// upload stores d into the bound texture, compressed when possible.
func (u *Uploader) upload(target, image Target, d *texture.Data, mipmap bool) bool {
	if d == nil {
		u.log.Warn("no texture data")
		return false
	}
	if !u.ForceSoftware && d.Format.IsCompressed() && u.UploadCompressed(target, image, d, mipmap) {
		return true
	}
	pix, err := texture.Decompress(d)
	if err != nil {
		u.log.Warn("cannot decompress texture", zap.Error(err))
		return false
	}
	u.UploadRaw(image, pix, d.Width, d.Height, mipmap)
	return true
}

// Upload2D creates a 2D texture object holding d. On failure the object is
// deleted and ok is false; callers bind the placeholder instead.
func (u *Uploader) Upload2D(d *texture.Data, opts Options) (id uint32, ok bool) {
	id = u.dev.GenTexture()
	u.dev.BindTexture(Texture2D, id)
	if !u.upload(Texture2D, Texture2D, d, opts.Mipmap) {
		u.dev.DeleteTexture(id)
		return 0, false
	}
	u.dev.SetSampler(Texture2D, Sampler{
		Mipmapped: opts.Mipmap,
		Nearest:   opts.Nearest,
		ClampS:    opts.ClampS,
		ClampT:    opts.ClampT,
	})
	return id, true
}

// UploadCubeFace stores d as face i of the bound cubemap. Faces never get
// their own mip chain; the caller generates mips once all faces are in.
func (u *Uploader) UploadCubeFace(i int, d *texture.Data) bool {
	return u.upload(TextureCubeMap, CubeFace(i), d, false)
}

// FinishCube generates mipmaps for the bound cubemap and sets its sampler.
// Drivers without mip generation get a non-mipmapped cube.
func (u *Uploader) FinishCube() {
	caps := u.dev.Capabilities()
	mipmapped := caps.FramebufferObject
	if mipmapped {
		u.dev.GenerateMipmap(TextureCubeMap)
	}
	u.clearErrors()
	u.dev.SetSampler(TextureCubeMap, Sampler{Mipmapped: mipmapped, ClampS: true, ClampT: true})
}

// clearErrors drains pending device errors.
func (u *Uploader) clearErrors() {
	for i := 0; i < 16 && u.dev.GetError() != 0; i++ {
	}
}
