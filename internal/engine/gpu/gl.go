package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
)

// glGenerateMipmapHint is the legacy GL_GENERATE_MIPMAP texture parameter.
const glGenerateMipmapHint = 0x8191

// GLDevice implements Device on an OpenGL 4.1 core context.
type GLDevice struct {
	caps     Capabilities
	uniforms map[uint32]map[string]int32
}

// NewGLDevice initializes the GL bindings for the current context and
// probes its capabilities. The context must already be current.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	d := &GLDevice{}
	d.Reset()
	return d, nil
}

// Reset re-probes the current context and forgets cached uniform
// locations. Call it after the context was recreated.
func (d *GLDevice) Reset() {
	d.uniforms = make(map[uint32]map[string]int32)
	d.caps = probe()
	logger.Info("graphics device ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Bool("s3tc", d.caps.S3TC),
		zap.Bool("rgtc", d.caps.RGTC),
		zap.Bool("bptc", d.caps.BPTC),
		zap.Int("units", d.caps.MaxTextureUnits),
	)
}

func probe() Capabilities {
	ext := make(map[string]bool)
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		ext[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}

	var units int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &units)

	return Capabilities{
		S3TC: ext["GL_EXT_texture_compression_s3tc"],
		// RGTC is core since 3.0.
		RGTC: true,
		BPTC: ext["GL_ARB_texture_compression_bptc"],
		// Core profiles dropped the generate-on-upload flag but always
		// have framebuffer objects.
		AutoMipmap:        false,
		FramebufferObject: true,
		Shaders:           true,
		MaxTextureUnits:   int(units),
	}
}

// Capabilities implements Device.
func (d *GLDevice) Capabilities() Capabilities { return d.caps }

// GenTexture implements Device.
func (d *GLDevice) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

// DeleteTexture implements Device.
func (d *GLDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

// BindTexture implements Device.
func (d *GLDevice) BindTexture(target Target, id uint32) {
	gl.BindTexture(uint32(target), id)
}

// ActiveTexture implements Device.
func (d *GLDevice) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

// UnbindUnits implements Device.
func (d *GLDevice) UnbindUnits(first int) {
	for i := first; i < d.caps.MaxTextureUnits; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// TexImage2D implements Device.
func (d *GLDevice) TexImage2D(target Target, level, width, height int, pix []byte) {
	gl.TexImage2D(uint32(target), int32(level), gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}

// CompressedTexImage2D implements Device.
func (d *GLDevice) CompressedTexImage2D(target Target, level int, format uint32, width, height int, data []byte) {
	gl.CompressedTexImage2D(uint32(target), int32(level), format, int32(width), int32(height), 0,
		int32(len(data)), gl.Ptr(data))
}

// SetAutoMipmap implements Device. Core contexts reject the flag with
// INVALID_ENUM; the uploader only uses it when FramebufferObject is false.
func (d *GLDevice) SetAutoMipmap(target Target, on bool) {
	v := int32(gl.FALSE)
	if on {
		v = gl.TRUE
	}
	gl.TexParameteri(uint32(target), glGenerateMipmapHint, v)
}

// GenerateMipmap implements Device.
func (d *GLDevice) GenerateMipmap(target Target) {
	gl.GenerateMipmap(uint32(target))
}

// SetSampler implements Device.
func (d *GLDevice) SetSampler(target Target, s Sampler) {
	t := uint32(target)
	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	switch {
	case s.Nearest:
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	case s.Mipmapped:
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, wrapMode(s.ClampS))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, wrapMode(s.ClampT))
	if target == TextureCubeMap {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	}
}

func wrapMode(clamp bool) int32 {
	if clamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

// GetError implements Device.
func (d *GLDevice) GetError() uint32 {
	return gl.GetError()
}

// ApplyState implements Device. Alpha testing has no fixed-function
// counterpart in core profiles; programs discard fragments themselves.
func (d *GLDevice) ApplyState(s material.RenderState) {
	if s.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(blendFactor(s.BlendSrc), blendFactor(s.BlendDst))
	} else {
		gl.Disable(gl.BLEND)
	}
	if s.CullBack {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if s.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(s.DepthWrite)
}

func blendFactor(f material.BlendFactor) uint32 {
	switch f {
	case material.BlendOne:
		return gl.ONE
	case material.BlendSrcColor:
		return gl.SRC_COLOR
	case material.BlendOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case material.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case material.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case material.BlendDstColor:
		return gl.DST_COLOR
	}
	return gl.ZERO
}

// CompileProgram implements Device.
func (d *GLDevice) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	// Ids are recycled across contexts; drop locations of a dead program.
	delete(d.uniforms, program)
	return program, nil
}

// UseProgram implements Device.
func (d *GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// uniform returns the cached location of name in program; -1 when the
// program does not use it, which GL ignores on upload.
func (d *GLDevice) uniform(program uint32, name string) int32 {
	locs, ok := d.uniforms[program]
	if !ok {
		locs = make(map[string]int32)
		d.uniforms[program] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		locs[name] = loc
	}
	return loc
}

// SetUniformInt implements Device. The program must be in use.
func (d *GLDevice) SetUniformInt(program uint32, name string, v int32) {
	gl.Uniform1i(d.uniform(program, name), v)
}

// SetUniformFloat implements Device.
func (d *GLDevice) SetUniformFloat(program uint32, name string, v float32) {
	gl.Uniform1f(d.uniform(program, name), v)
}

// SetUniformVec3 implements Device.
func (d *GLDevice) SetUniformVec3(program uint32, name string, x, y, z float32) {
	gl.Uniform3f(d.uniform(program, name), x, y, z)
}

// SetUniformMat4 implements Device.
func (d *GLDevice) SetUniformMat4(program uint32, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(d.uniform(program, name), 1, false, &m[0])
}

// ReadPixels reads the RGBA contents of the current framebuffer, bottom row
// first.
func (d *GLDevice) ReadPixels(width, height int) []byte {
	pix := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}
