package binder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/engine/binder/shaders"
	"github.com/Faultbox/texbind/internal/engine/gpu"
	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
)

// Flavor selects the program family.
type Flavor uint8

// Program families.
const (
	// FlavorTextured draws the texture bound to unit 0.
	FlavorTextured Flavor = iota
	// FlavorWhite draws untextured white.
	FlavorWhite
	// FlavorNormalMap is the full material program; the rest of the
	// Signature selects its variant.
	FlavorNormalMap
)

func (f Flavor) String() string {
	switch f {
	case FlavorTextured:
		return "textured"
	case FlavorWhite:
		return "white"
	case FlavorNormalMap:
		return "normalmap"
	}
	return fmt.Sprintf("flavor(%d)", uint8(f))
}

// Signature identifies one compiled program variant. Two materials with the
// same Signature share a program; per-material values such as the emissive
// color are uniforms.
type Signature struct {
	Flavor Flavor

	Diffuse bool
	// DefaultDiffuse marks the placeholder standing in for a missing
	// diffuse texture.
	DefaultDiffuse bool
	Normal         bool
	Specular       bool
	SpecularPower  bool
	Opacity        bool
	Emissive       bool
	Cube           bool
	Mask           bool

	SpecularFromAlpha bool
	OpacityFromAlpha  bool

	EmissiveChannel      material.TextureChannel
	SpecularMaskChannel  material.TextureChannel
	SpecularPowerChannel material.TextureChannel
	CubemapMaskChannel   material.TextureChannel

	MobileSpecular     bool
	MobileSpecularMask material.MobileSpecularMask
}

// NormalMapSignature returns the program variant for ch. Selectors that
// cannot affect the generated code are zeroed so equivalent channel sets
// share a program.
func NormalMapSignature(ch *material.Channels) Signature {
	s := Signature{
		Flavor:        FlavorNormalMap,
		Diffuse:       ch.Diffuse != nil,
		Normal:        ch.Normal != nil,
		Specular:      ch.Specular != nil,
		SpecularPower: ch.SpecularPower != nil,
		Opacity:       ch.Opacity != nil,
		Emissive:      ch.Emissive != nil,
		Cube:          ch.Cube != nil,
		Mask:          ch.Mask != nil,
	}
	s.DefaultDiffuse = !s.Diffuse && !s.Normal && !s.Cube
	s.SpecularFromAlpha = s.Specular && ch.SpecularFromAlpha
	s.OpacityFromAlpha = s.Opacity && ch.OpacityFromAlpha
	if s.Mask {
		s.EmissiveChannel = ch.EmissiveChannel
		s.SpecularMaskChannel = ch.SpecularMaskChannel
		s.SpecularPowerChannel = ch.SpecularPowerChannel
		s.CubemapMaskChannel = ch.CubemapMaskChannel
	}
	if ch.UseMobileSpecular {
		s.MobileSpecular = true
		s.MobileSpecularMask = ch.MobileSpecularMask
		if s.MobileSpecularMask >= material.NumMobileSpecularMasks {
			s.MobileSpecularMask = material.MobileSpecConstant
		}
	}
	return s
}

// source returns the shader sources of the variant.
func (s Signature) source() (vert, frag string, err error) {
	switch s.Flavor {
	case FlavorTextured:
		return shaders.VertexShader, shaders.GenericFragmentShader, nil
	case FlavorWhite:
		return shaders.VertexShader, withDefines(shaders.GenericFragmentShader, "TEXTURING 0"), nil
	case FlavorNormalMap:
		frag, err := normalMapSource(s)
		if err != nil {
			return "", "", err
		}
		return shaders.VertexShader, frag, nil
	}
	return "", "", fmt.Errorf("unknown program flavor %s", s.Flavor)
}

type program struct {
	handle gpu.Handle
	err    error
}

// Registry caches compiled programs by Signature. It also owns the context
// generation of its device, so every Binder sharing a Registry sees the
// same resets. Programs belong to the generation they were compiled in and
// are rebuilt after a reset. A failed compilation is remembered for the
// generation so it is not retried every frame.
type Registry struct {
	dev      gpu.Device
	ctx      *gpu.Context
	log      *zap.Logger
	programs map[Signature]*program
}

// NewRegistry creates an empty program cache for dev.
func NewRegistry(dev gpu.Device) *Registry {
	return &Registry{
		dev:      dev,
		ctx:      gpu.NewContext(),
		log:      logger.Named("programs"),
		programs: make(map[Signature]*program),
	}
}

// Program returns the program for sig, compiling it on first use in the
// current context generation.
func (r *Registry) Program(sig Signature) (uint32, error) {
	p, ok := r.programs[sig]
	if !ok {
		p = &program{}
		r.programs[sig] = p
	}
	if r.ctx.Touch(&p.handle) {
		return p.handle.ID, p.err
	}

	p.handle.ID, p.err = r.compile(sig)
	if p.err != nil {
		r.log.Warn("cannot build program",
			zap.Stringer("flavor", sig.Flavor),
			zap.Error(p.err),
		)
		return 0, p.err
	}
	r.log.Debug("program built",
		zap.Stringer("flavor", sig.Flavor),
		zap.Uint32("id", p.handle.ID),
	)
	return p.handle.ID, nil
}

func (r *Registry) compile(sig Signature) (uint32, error) {
	vert, frag, err := sig.source()
	if err != nil {
		return 0, err
	}
	id, err := r.dev.CompileProgram(vert, frag)
	if err != nil {
		return 0, fmt.Errorf("compiling %s program: %w", sig.Flavor, err)
	}

	// Sampler units never change, so they are set once per program.
	r.dev.UseProgram(id)
	for _, s := range samplers {
		r.dev.SetUniformInt(id, s.name, s.unit)
	}
	return id, nil
}

// Len returns the number of cached variants.
func (r *Registry) Len() int { return len(r.programs) }

// Device returns the device programs are compiled on.
func (r *Registry) Device() gpu.Device { return r.dev }

// Reset starts a new context generation. Programs and every texture handle
// stamped with the old generation are recreated on next use.
func (r *Registry) Reset() { r.ctx.Reset() }
