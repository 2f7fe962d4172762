package material

import "fmt"

// Slot names one semantic input of the shading model.
type Slot uint8

// Channel slots. SlotEmissiveColor is the only non-texture slot; it is
// filled from vector parameters.
const (
	SlotDiffuse Slot = iota
	SlotNormal
	SlotSpecular
	SlotSpecularPower
	SlotOpacity
	SlotEmissive
	SlotCube
	SlotMask
	SlotEmissiveColor

	numSlots
)

var slotNames = [numSlots]string{
	"diffuse", "normal", "specular", "specular_power",
	"opacity", "emissive", "cube", "mask", "emissive_color",
}

func (s Slot) String() string {
	if s < numSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

// TextureSlots lists the slots that hold textures, in binding order.
var TextureSlots = []Slot{
	SlotDiffuse, SlotNormal, SlotSpecular, SlotSpecularPower,
	SlotOpacity, SlotEmissive, SlotCube, SlotMask,
}

// TextureChannel selects one component of a packed mask texture.
type TextureChannel uint8

// Mask texture components. ChannelInvAlpha reads 1 - alpha.
const (
	ChannelNone TextureChannel = iota
	ChannelR
	ChannelG
	ChannelB
	ChannelA
	ChannelInvAlpha
)

func (c TextureChannel) String() string {
	switch c {
	case ChannelNone:
		return "none"
	case ChannelR:
		return "r"
	case ChannelG:
		return "g"
	case ChannelB:
		return "b"
	case ChannelA:
		return "a"
	case ChannelInvAlpha:
		return "1-a"
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// MobileSpecularMask picks where the simplified mobile specular model reads
// its intensity from.
type MobileSpecularMask uint8

// Mobile specular sources.
const (
	MobileSpecConstant MobileSpecularMask = iota
	MobileSpecLuminance
	MobileSpecDiffuseRed
	MobileSpecDiffuseGreen
	MobileSpecDiffuseBlue
	MobileSpecDiffuseAlpha
	MobileSpecMaskTextureRGB
	MobileSpecMaskTextureRed
	MobileSpecMaskTextureGreen
	MobileSpecMaskTextureBlue
	MobileSpecMaskTextureAlpha

	NumMobileSpecularMasks
)

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// DefaultEmissiveColor is the emissive color of materials that do not set
// one. Emissive expressions double the color, so a masked emissive texture
// shows at its own intensity.
var DefaultEmissiveColor = Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

// Channels is the result of resolving a material: at most one texture per
// slot plus the sub-selectors the shader needs to read them. A Channels
// value is built fresh by Resolve and treated as read-only afterwards.
type Channels struct {
	Diffuse       Texture
	Normal        Texture
	Specular      Texture
	SpecularPower Texture
	Opacity       Texture
	Emissive      Texture
	Cube          Texture
	Mask          Texture

	SpecularFromAlpha bool
	OpacityFromAlpha  bool

	// Components of Mask used in place of dedicated textures.
	EmissiveChannel      TextureChannel
	SpecularMaskChannel  TextureChannel
	SpecularPowerChannel TextureChannel
	CubemapMaskChannel   TextureChannel

	// EmissiveColor scales the emissive input; DefaultEmissiveColor unless
	// the material sets one.
	EmissiveColor Color

	UseMobileSpecular   bool
	MobileSpecularPower float32
	MobileSpecularMask  MobileSpecularMask
}

// Texture returns the texture assigned to a slot.
func (c *Channels) Texture(s Slot) Texture {
	switch s {
	case SlotDiffuse:
		return c.Diffuse
	case SlotNormal:
		return c.Normal
	case SlotSpecular:
		return c.Specular
	case SlotSpecularPower:
		return c.SpecularPower
	case SlotOpacity:
		return c.Opacity
	case SlotEmissive:
		return c.Emissive
	case SlotCube:
		return c.Cube
	case SlotMask:
		return c.Mask
	}
	return nil
}

func (c *Channels) setTexture(s Slot, t Texture) {
	switch s {
	case SlotDiffuse:
		c.Diffuse = t
	case SlotNormal:
		c.Normal = t
	case SlotSpecular:
		c.Specular = t
	case SlotSpecularPower:
		c.SpecularPower = t
	case SlotOpacity:
		c.Opacity = t
	case SlotEmissive:
		c.Emissive = t
	case SlotCube:
		c.Cube = t
	case SlotMask:
		c.Mask = t
	}
}

// IsNull reports whether no texture slot is set.
func (c *Channels) IsNull() bool {
	for _, s := range TextureSlots {
		if c.Texture(s) != nil {
			return false
		}
	}
	return true
}

// DiffuseOnly reports whether the diffuse slot is the only input, so a
// plain textured program can draw the material.
func (c *Channels) DiffuseOnly() bool {
	if c.Diffuse == nil || c.UseMobileSpecular {
		return false
	}
	for _, s := range TextureSlots[1:] {
		if c.Texture(s) != nil {
			return false
		}
	}
	return true
}

// Textures returns the distinct textures referenced by the channels in
// slot order.
func (c *Channels) Textures() []Texture {
	var out []Texture
	seen := make(map[Texture]bool)
	for _, s := range TextureSlots {
		t := c.Texture(s)
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
