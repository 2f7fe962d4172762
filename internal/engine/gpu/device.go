// Package gpu abstracts the graphics device used to upload textures and
// draw materials.
//
// All calls must come from the thread that owns the GL context; nothing in
// this package locks.
package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/texbind/pkg/material"
)

// Target is a texture binding or image target, using GL enum values.
type Target uint32

// Texture targets.
const (
	Texture2D      Target = 0x0DE1
	TextureCubeMap Target = 0x8513
	// CubeFacePosX is the first cube face image target; the other faces
	// follow in +X, -X, +Y, -Y, +Z, -Z order.
	CubeFacePosX Target = 0x8515
)

// CubeFace returns the image target of cube face i.
func CubeFace(i int) Target {
	return CubeFacePosX + Target(i)
}

// Capabilities describes what the driver supports. The windowing layer
// fills it after the context is created.
type Capabilities struct {
	// Block-compressed format families.
	S3TC bool
	RGTC bool
	BPTC bool

	// AutoMipmap is the legacy generate-on-upload texture flag.
	AutoMipmap bool
	// FramebufferObject implies an explicit GenerateMipmap call.
	FramebufferObject bool

	Shaders         bool
	MaxTextureUnits int
}

// CanGenerateMipmaps reports whether compressed uploads can get a mip chain
// without software help.
func (c Capabilities) CanGenerateMipmaps() bool {
	return c.AutoMipmap || c.FramebufferObject
}

// Sampler holds texture sampling parameters.
type Sampler struct {
	Mipmapped bool
	// Nearest disables filtering; used for the placeholder checkerboard.
	Nearest bool
	ClampS  bool
	ClampT  bool
}

// Device is the subset of the graphics API the uploader and binder need.
type Device interface {
	Capabilities() Capabilities

	GenTexture() uint32
	DeleteTexture(id uint32)
	BindTexture(target Target, id uint32)
	// ActiveTexture selects texture unit unit (0-based).
	ActiveTexture(unit int)
	// UnbindUnits clears texture bindings of every unit from first up.
	UnbindUnits(first int)

	// TexImage2D uploads RGBA8 pixels.
	TexImage2D(target Target, level, width, height int, pix []byte)
	CompressedTexImage2D(target Target, level int, format uint32, width, height int, data []byte)
	SetAutoMipmap(target Target, on bool)
	GenerateMipmap(target Target)
	SetSampler(target Target, s Sampler)
	// GetError returns and clears the oldest pending error; 0 means none.
	GetError() uint32

	ApplyState(s material.RenderState)

	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	UseProgram(program uint32)
	SetUniformInt(program uint32, name string, v int32)
	SetUniformFloat(program uint32, name string, v float32)
	SetUniformVec3(program uint32, name string, x, y, z float32)
	SetUniformMat4(program uint32, name string, m mgl32.Mat4)
}
