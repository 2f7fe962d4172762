// Package binder turns resolved material channels into GPU state: it
// uploads each texture once per context generation, picks or builds the
// program variant for the channel set and binds every input to its texture
// unit.
//
// A Binder is used from the render thread only; it does not lock.
package binder

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/engine/gpu"
	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
	"github.com/Faultbox/texbind/pkg/texture"
)

// DefaultShininess is the specular exponent used when a material has no
// specular power input.
const DefaultShininess = 32

// Defaults holds the fallback texture data shared by every Binder.
type Defaults struct {
	placeholder *texture.Data
}

// NewDefaults generates the fallback textures.
func NewDefaults() *Defaults {
	return &Defaults{placeholder: texture.Placeholder()}
}

// Placeholder returns the checkerboard shown for missing textures.
func (d *Defaults) Placeholder() *texture.Data { return d.placeholder }

// Options configures a Binder.
type Options struct {
	Profile material.Profile
	// UseShaders selects the material programs. Without it every material
	// draws its diffuse texture through the plain textured program.
	UseShaders bool
	Lighting   bool
	// Mipmaps allows mip chains for textures that ask for them.
	Mipmaps       bool
	ForceSoftware bool
}

// frame holds the per-frame uniforms applied to every program in use.
type frame struct {
	mvp      mgl32.Mat4
	model    mgl32.Mat4
	lightDir mgl32.Vec3
	eye      mgl32.Vec3
}

// Binder binds materials for drawing.
type Binder struct {
	dev      gpu.Device
	ctx      *gpu.Context
	uploader *gpu.Uploader
	programs *Registry
	defaults *Defaults
	wraps    *material.WrapRegistry
	resolver material.Resolver
	opts     Options
	log      *zap.Logger

	textures    map[material.Texture]*gpu.Handle
	placeholder gpu.Handle

	state   material.RenderState
	program uint32
	frame   frame
}

// New creates a Binder drawing through the device of progs. The caller
// owns the caches; binders on the same device may share them.
func New(progs *Registry, defaults *Defaults, wraps *material.WrapRegistry, opts Options) *Binder {
	dev := progs.Device()
	up := gpu.NewUploader(dev)
	up.ForceSoftware = opts.ForceSoftware
	return &Binder{
		dev:      dev,
		ctx:      progs.ctx,
		uploader: up,
		programs: progs,
		defaults: defaults,
		wraps:    wraps,
		resolver: material.Resolver{Profile: opts.Profile},
		opts:     opts,
		log:      logger.Named("binder"),
		textures: make(map[material.Texture]*gpu.Handle),
		state:    material.OpaqueState,
		frame: frame{
			mvp:      mgl32.Ident4(),
			model:    mgl32.Ident4(),
			lightDir: mgl32.Vec3{-0.3, -1, -0.5}.Normalize(),
		},
	}
}

// Programs returns the program cache.
func (b *Binder) Programs() *Registry { return b.programs }

// Program returns the program selected by the last bind, 0 if none.
func (b *Binder) Program() uint32 { return b.program }

// SetTransform sets the matrices used by subsequent draws and updates the
// current program.
func (b *Binder) SetTransform(mvp, model mgl32.Mat4) {
	b.frame.mvp, b.frame.model = mvp, model
	if b.program != 0 {
		b.dev.SetUniformMat4(b.program, "uMVP", mvp)
		b.dev.SetUniformMat4(b.program, "uModel", model)
	}
}

// SetLight sets the light direction and the eye position.
func (b *Binder) SetLight(dir, eye mgl32.Vec3) {
	b.frame.lightDir, b.frame.eye = dir, eye
}

// Bind prepares the device to draw m: render state, program, uniforms and
// texture units. Missing or broken textures are replaced by the
// placeholder; Bind never fails.
func (b *Binder) Bind(m material.Material) {
	b.state = material.StateOf(m)
	b.dev.ApplyState(b.state)

	ch := b.resolver.Resolve(m)
	if ch.IsNull() {
		b.BindDefault(false)
		return
	}

	if !b.useShaders() || ch.DiffuseOnly() {
		if ch.Diffuse == nil {
			b.BindDefault(false)
			return
		}
		b.dev.UnbindUnits(1)
		if !b.use(Signature{Flavor: FlavorTextured}) {
			return
		}
		b.bindUnit(unitDiffuse, ch.Diffuse)
		return
	}

	b.bindNormalMap(&ch)
}

// useShaders reports whether materials get their own programs: the options
// must ask for them and the device must run them.
func (b *Binder) useShaders() bool {
	return b.opts.UseShaders && b.dev.Capabilities().Shaders
}

// BindFlags binds m with surface flags applied. Wrappers come from the
// shared registry, so repeated calls do not allocate.
func (b *Binder) BindFlags(m material.Material, flags material.PolyFlags) {
	b.Bind(b.wraps.Wrap(m, flags))
}

// BindDefault unbinds every unit but the first and selects a generic
// program: white draws untextured, otherwise the checkerboard placeholder
// is bound to unit 0.
func (b *Binder) BindDefault(white bool) {
	b.dev.UnbindUnits(1)

	sig := Signature{Flavor: FlavorTextured}
	if white {
		sig.Flavor = FlavorWhite
	}
	if !b.use(sig) || white {
		return
	}
	b.dev.ActiveTexture(unitDiffuse)
	b.dev.BindTexture(gpu.Texture2D, b.placeholderID())
}

func (b *Binder) bindNormalMap(ch *material.Channels) {
	if ch.Cube != nil && !cubeUsable(ch.Cube) {
		b.log.Warn("incomplete cubemap ignored", zap.String("texture", ch.Cube.ObjectName()))
		ch.Cube = nil
	}

	sig := NormalMapSignature(ch)
	b.dev.UnbindUnits(1)
	if !b.use(sig) {
		return
	}

	c := ch.EmissiveColor
	b.dev.SetUniformVec3(b.program, "emissiveColor", c.R, c.G, c.B)
	b.dev.SetUniformFloat(b.program, "shininess", DefaultShininess)
	b.dev.SetUniformFloat(b.program, "mobileSpecPower", ch.MobileSpecularPower)

	switch {
	case ch.Diffuse != nil:
		b.bindUnit(unitDiffuse, ch.Diffuse)
	case sig.DefaultDiffuse:
		b.dev.ActiveTexture(unitDiffuse)
		b.dev.BindTexture(gpu.Texture2D, b.placeholderID())
	}
	b.bindUnit(unitNormal, ch.Normal)
	b.bindUnit(unitSpecular, ch.Specular)
	b.bindUnit(unitSpecularPower, ch.SpecularPower)
	b.bindUnit(unitOpacity, ch.Opacity)
	b.bindUnit(unitEmissive, ch.Emissive)
	b.bindUnit(unitCube, ch.Cube)
	b.bindUnit(unitMask, ch.Mask)
	b.dev.ActiveTexture(unitDiffuse)
}

// use selects the program for sig and loads the per-draw uniforms. On
// failure it falls back to the textured program, then gives up.
func (b *Binder) use(sig Signature) bool {
	id, err := b.programs.Program(sig)
	if err != nil && sig.Flavor != FlavorTextured {
		sig = Signature{Flavor: FlavorTextured}
		id, err = b.programs.Program(sig)
	}
	if err != nil {
		b.program = 0
		return false
	}

	b.program = id
	b.dev.UseProgram(id)
	b.dev.SetUniformMat4(id, "uMVP", b.frame.mvp)
	b.dev.SetUniformMat4(id, "uModel", b.frame.model)
	b.dev.SetUniformVec3(id, "lightDir", b.frame.lightDir[0], b.frame.lightDir[1], b.frame.lightDir[2])
	b.dev.SetUniformVec3(id, "viewPos", b.frame.eye[0], b.frame.eye[1], b.frame.eye[2])
	b.dev.SetUniformInt(id, "useLighting", boolInt(b.opts.Lighting))
	b.dev.SetUniformInt(id, "alphaTest", boolInt(b.state.AlphaTest))
	b.dev.SetUniformFloat(id, "alphaRef", b.state.AlphaRef)
	return true
}

func boolInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

func cubeUsable(t material.Texture) bool {
	c, ok := t.(*material.TextureCube)
	return ok && c.Complete()
}

// bindUnit binds t to a texture unit, uploading it first when it has no
// object in the current context. A nil t leaves the unit alone.
func (b *Binder) bindUnit(unit int, t material.Texture) {
	if t == nil {
		return
	}
	b.dev.ActiveTexture(unit)
	switch t := t.(type) {
	case *material.Texture2D:
		b.dev.BindTexture(gpu.Texture2D, b.texture2D(t))
	case *material.TextureCube:
		b.dev.BindTexture(gpu.TextureCubeMap, b.textureCube(t))
	}
}

func (b *Binder) handle(t material.Texture) *gpu.Handle {
	h, ok := b.textures[t]
	if !ok {
		h = &gpu.Handle{}
		b.textures[t] = h
	}
	return h
}

func (b *Binder) texture2D(t *material.Texture2D) uint32 {
	h := b.handle(t)
	if b.ctx.Touch(h) {
		return h.ID
	}

	if d := b.load(t); d != nil {
		id, ok := b.uploader.Upload2D(d, gpu.Options{
			Mipmap: t.Mipmapped && b.opts.Mipmaps,
			ClampS: t.ClampU,
			ClampT: t.ClampV,
		})
		if ok {
			h.ID = id
			b.log.Debug("texture uploaded",
				zap.String("texture", t.Name),
				zap.Stringer("format", d.Format),
				zap.Int("width", d.Width),
				zap.Int("height", d.Height),
			)
			return h.ID
		}
		b.log.Warn("texture upload failed, using placeholder", zap.String("texture", t.Name))
	}
	h.ID = b.placeholderID()
	return h.ID
}

// textureCube uploads the six faces of t into one cubemap. A face that
// cannot be uploaded leaves the cube unbound for this context.
func (b *Binder) textureCube(t *material.TextureCube) uint32 {
	h := b.handle(t)
	if b.ctx.Touch(h) {
		return h.ID
	}

	h.ID = b.dev.GenTexture()
	b.dev.BindTexture(gpu.TextureCubeMap, h.ID)
	for i, face := range t.Faces {
		d := b.load(face)
		if d == nil || !b.uploader.UploadCubeFace(i, d) {
			b.log.Warn("cubemap face upload failed",
				zap.String("texture", t.Name),
				zap.Int("face", i),
			)
			b.dev.DeleteTexture(h.ID)
			h.ID = 0
			return 0
		}
	}
	b.uploader.FinishCube()
	return h.ID
}

// load fetches the data of t, logging why it is unusable when it is.
func (b *Binder) load(t *material.Texture2D) *texture.Data {
	if t == nil || t.Source == nil {
		b.log.Warn("texture has no data", zap.String("texture", nameOf(t)))
		return nil
	}
	d, err := t.Source.TextureData()
	if err != nil {
		b.log.Warn("cannot load texture", zap.String("texture", t.Name), zap.Error(err))
		return nil
	}
	return d
}

func nameOf(t *material.Texture2D) string {
	if t == nil {
		return "None"
	}
	return t.Name
}

func (b *Binder) placeholderID() uint32 {
	if b.ctx.Touch(&b.placeholder) {
		return b.placeholder.ID
	}
	id, ok := b.uploader.Upload2D(b.defaults.Placeholder(), gpu.Options{Nearest: true})
	if !ok {
		b.log.Error("cannot upload placeholder texture")
	}
	b.placeholder.ID = id
	return id
}

// Release deletes the GPU object of t. The placeholder is shared and never
// deleted.
func (b *Binder) Release(t material.Texture) {
	h, ok := b.textures[t]
	if !ok {
		return
	}
	delete(b.textures, t)
	if !b.ctx.IsValid(h) || h.ID == 0 {
		return
	}
	if b.ctx.IsValid(&b.placeholder) && h.ID == b.placeholder.ID {
		return
	}
	b.dev.DeleteTexture(h.ID)
}

// ResetContext forgets every GPU object, e.g. after the window recreated
// its GL context. The next Bind uploads and compiles everything again.
// Binders sharing the Registry are reset along with b.
func (b *Binder) ResetContext() {
	b.programs.Reset()
	b.program = 0
}

// Uploaded reports whether t has an object in the current context.
func (b *Binder) Uploaded(t material.Texture) bool {
	h, ok := b.textures[t]
	return ok && b.ctx.IsValid(h)
}
