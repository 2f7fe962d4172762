// Package material models the material kinds found in game packages and
// resolves each of them into a uniform set of shading channels.
//
// Legacy kinds carry explicitly typed references and resolve by simple
// delegation. Modern kinds (Material3, MaterialInstance) only carry named
// textures, so the channel of each texture is inferred from its name by
// weighted rule tables, optionally extended per game Profile.
package material

import "github.com/Faultbox/texbind/pkg/texture"

// Material is the closed set of material kinds understood by the resolver.
type Material interface {
	ObjectName() string
	isMaterial()
}

// Texture is a material kind that can occupy a channel slot.
type Texture interface {
	Material
	IsCube() bool
}

// Object carries the fields shared by every material kind.
type Object struct {
	Name string
}

// ObjectName returns the object name.
func (o *Object) ObjectName() string { return o.Name }

func (*Object) isMaterial() {}

// Texture2D is a plain 2D texture. It resolves to itself as diffuse.
type Texture2D struct {
	Object
	Source texture.Source

	// Format is the declared storage format, known before the data is loaded.
	Format    texture.Format
	Mipmapped bool
	ClampU    bool
	ClampV    bool

	// Legacy draw flags.
	TwoSided     bool
	Masked       bool
	AlphaTexture bool
}

// IsCube implements Texture.
func (*Texture2D) IsCube() bool { return false }

// Cube face order: +X, -X, +Y, -Y, +Z, -Z.
const NumCubeFaces = 6

// TextureCube is a cubemap assembled from six 2D faces.
type TextureCube struct {
	Object
	Faces [NumCubeFaces]*Texture2D
}

// IsCube implements Texture.
func (*TextureCube) IsCube() bool { return true }

// Complete reports whether all six faces are present.
func (c *TextureCube) Complete() bool {
	for _, f := range c.Faces {
		if f == nil {
			return false
		}
	}
	return true
}

// OutputBlending is the blending mode of a legacy Shader.
type OutputBlending uint8

// Shader output blending modes.
const (
	OutputNormal OutputBlending = iota
	OutputMasked
	OutputModulate
	OutputTranslucent
	OutputInvisible
	OutputBrighten
	OutputDarken
)

// Shader is a legacy shader material with explicit slots.
type Shader struct {
	Object
	Diffuse         Material
	SpecularityMask Material
	Opacity         Material
	NormalMap       Material

	TwoSided       bool
	OutputBlending OutputBlending
}

// Modifier wraps another material; EnvMap marks environment-map modifiers,
// which combiners treat as a specular layer.
type Modifier struct {
	Object
	Material Material
	EnvMap   bool
}

// FrameBufferBlending is the blending mode of FinalBlend and FacingShader.
type FrameBufferBlending uint8

// Frame buffer blending modes.
const (
	FBOverwrite FrameBufferBlending = iota
	FBModulate
	FBAlphaBlend
	FBAlphaModulate
	FBTranslucent
	FBDarken
	FBBrighten
	FBInvisible
)

// FinalBlend is a modifier that overrides the draw state of its material.
type FinalBlend struct {
	Object
	Material            Material
	FrameBufferBlending FrameBufferBlending
	TwoSided            bool
	AlphaTest           bool
	AlphaRef            uint8
}

// CombineOp selects how a Combiner picks its color source.
type CombineOp uint8

// Combiner operations.
const (
	CombineUseMaterial1 CombineOp = iota
	CombineUseMaterial2
	CombineMultiply
	CombineAdd
	CombineSubtract
	CombineAlphaBlendWithMask
	CombineAddWithMaskModulation
	CombineUseMask
)

// Combiner mixes two materials. Only the dominant texture is kept.
type Combiner struct {
	Object
	Material1 Material
	Material2 Material
	Mask      Material
	Operation CombineOp
}

// FacingShader is a typed shader with facing-dependent layers.
type FacingShader struct {
	Object
	FacingDiffuse          Material
	NormalMap              Material
	FacingSpecularColorMap Material
	FacingEmissive         Material

	TwoSided       bool
	OutputBlending FrameBufferBlending
}

// Unreal3BlendMode is the blending mode of Unreal3Material.
type Unreal3BlendMode uint8

// Unreal3Material blending modes.
const (
	U3Opaque Unreal3BlendMode = iota
	U3Translucent
	U3TranslucentNoDistortion
	U3Additive
	U3Masked
)

// Unreal3Material carries an untyped texture list whose roles are given by
// _d/_n/_m suffixes; the mask green channel is the specular intensity.
type Unreal3Material struct {
	Object
	Textures     []Texture
	DoubleSided  bool
	BlendingMode Unreal3BlendMode
}

// SpecularSource selects the mask component of SCXBasicMaterial.
type SpecularSource uint8

// Specular sources.
const (
	SpecSourceNone SpecularSource = iota
	SpecSourceRed
	SpecSourceGreen
	SpecSourceBlue
	SpecSourceNormalAlpha
)

// SCXBasicMaterial is a typed material with a single-channel specular mask.
type SCXBasicMaterial struct {
	Object
	Base           Texture
	Normal         Texture
	SpecularMask   Texture
	Environment    Texture
	SpecularSource SpecularSource
}

// MobileParams are the explicitly typed mobile inputs shared by Material3
// and MaterialInstance.
type MobileParams struct {
	FlattenedTexture    Texture
	MobileBaseTexture   Texture
	MobileNormalTexture Texture
	MobileMaskTexture   Texture
	UseMobileSpecular   bool
	MobileSpecularPower float32
	MobileSpecularMask  MobileSpecularMask
}

// BlendMode is the blending mode of Material3.
type BlendMode uint8

// Material3 blend modes.
const (
	BlendOpaque BlendMode = iota
	BlendMasked
	BlendTranslucent
	BlendAdditive
	BlendModulate
)

// Material3 is a modern material: a list of referenced textures with no
// type information.
type Material3 struct {
	Object
	MobileParams
	Textures []Texture

	TwoSided             bool
	DisableDepthTest     bool
	IsMasked             bool
	OpacityMaskClipValue float32
	BlendMode            BlendMode
}

// TextureParam is a named texture parameter of a material instance.
type TextureParam struct {
	Name    string
	Texture Texture
}

// VectorParam is a named vector parameter of a material instance.
type VectorParam struct {
	Name  string
	Value Color
}

// MaterialInstance overrides parameters of its parent material.
type MaterialInstance struct {
	Object
	MobileParams
	Parent        Material
	TextureParams []TextureParam
	VectorParams  []VectorParam
}

// PolyFlags are legacy mesh surface flags applied on top of a material.
type PolyFlags uint32

// Surface flags.
const (
	PolyMasked      PolyFlags = 0x00000002
	PolyTranslucent PolyFlags = 0x00000004
	PolyModulated   PolyFlags = 0x00000040
	PolyTwoSided    PolyFlags = 0x00000100
)

// PolyFlagsMaterial applies surface flags to a material. Create instances
// with WrapRegistry.Wrap so equal wrappings are shared.
type PolyFlagsMaterial struct {
	Object
	Material Material
	Flags    PolyFlags
}
