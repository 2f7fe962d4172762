package material

import "github.com/Faultbox/texbind/pkg/texture"

// BlendFactor is a frame buffer blend factor.
type BlendFactor uint8

// Blend factors.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
)

// RenderState is the fixed pipeline state a material draws with.
type RenderState struct {
	Blend    bool
	BlendSrc BlendFactor
	BlendDst BlendFactor

	// Fragments with alpha not greater than AlphaRef are discarded.
	AlphaTest bool
	AlphaRef  float32

	CullBack   bool
	DepthTest  bool
	DepthWrite bool
}

// OpaqueState is the state of a plain one-sided opaque surface.
var OpaqueState = RenderState{CullBack: true, DepthTest: true, DepthWrite: true}

func (s *RenderState) blend(src, dst BlendFactor) {
	s.Blend = true
	s.BlendSrc, s.BlendDst = src, dst
}

func (s *RenderState) alphaTest(ref float32) {
	s.AlphaTest = true
	s.AlphaRef = ref
}

// StateOf returns the render state of m. Wrappers delegate to the wrapped
// material and then apply their own overrides.
func StateOf(m Material) RenderState {
	return stateOf(m, 0)
}

func stateOf(m Material, depth int) RenderState {
	s := OpaqueState
	if m == nil || depth > maxDepth {
		return s
	}
	switch m := m.(type) {
	case *Texture2D:
		s.CullBack = !m.TwoSided
		switch {
		case m.Masked || (m.AlphaTexture && m.Format == texture.FormatDXT1):
			// Masked or 1-bit alpha.
			s.alphaTest(0.8)
		case m.AlphaTexture:
			s.alphaTest(0.1)
		}
		if m.AlphaTexture || m.Masked {
			s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		}
	case *Modifier:
		return stateOf(m.Material, depth+1)
	case *MaterialInstance:
		return stateOf(m.Parent, depth+1)
	case *FinalBlend:
		s = stateOf(m.Material, depth+1)
		s.DepthTest = true
		s.CullBack = !m.TwoSided
		s.AlphaTest = m.AlphaTest
		s.AlphaRef = float32(m.AlphaRef) / 255
		frameBufferBlend(&s, m.FrameBufferBlending)
	case *FacingShader:
		s.CullBack = !m.TwoSided
		frameBufferBlend(&s, m.OutputBlending)
	case *Shader:
		s.CullBack = !m.TwoSided
		shaderBlend(&s, m.OutputBlending, m.Opacity != nil)
	case *Unreal3Material:
		s.CullBack = !m.DoubleSided
		switch m.BlendingMode {
		case U3Translucent, U3TranslucentNoDistortion:
			s.blend(BlendOne, BlendOneMinusSrcColor)
		case U3Additive:
			s.blend(BlendOne, BlendOne)
		case U3Masked:
			s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
			s.alphaTest(0)
		}
	case *Material3:
		s.CullBack = !m.TwoSided
		s.DepthTest = !m.DisableDepthTest
		if m.IsMasked {
			s.alphaTest(m.OpacityMaskClipValue)
		}
		s.DepthWrite = m.BlendMode != BlendTranslucent
		switch m.BlendMode {
		case BlendTranslucent:
			s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		case BlendAdditive:
			s.blend(BlendOne, BlendOne)
		case BlendModulate:
			s.blend(BlendDstColor, BlendZero)
		}
	case *PolyFlagsMaterial:
		s = stateOf(m.Material, depth+1)
		if m.Flags&PolyTwoSided != 0 {
			s.CullBack = false
		}
		switch {
		case m.Flags&PolyTranslucent != 0:
			s.blend(BlendOne, BlendOneMinusSrcColor)
		case m.Flags&PolyModulated != 0:
			s.blend(BlendDstColor, BlendSrcColor)
		case m.Flags&PolyMasked != 0:
			s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
			s.alphaTest(0.1)
		}
	}
	return s
}

func frameBufferBlend(s *RenderState, b FrameBufferBlending) {
	s.Blend, s.BlendSrc, s.BlendDst = false, BlendZero, BlendZero
	switch b {
	case FBModulate:
		s.blend(BlendDstColor, BlendSrcColor)
	case FBAlphaBlend, FBAlphaModulate:
		s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
	case FBTranslucent:
		s.blend(BlendOne, BlendOneMinusSrcColor)
	case FBDarken:
		s.blend(BlendZero, BlendOneMinusSrcColor)
	case FBBrighten:
		s.blend(BlendSrcAlpha, BlendOne)
	case FBInvisible:
		s.blend(BlendZero, BlendOne)
	}
}

func shaderBlend(s *RenderState, b OutputBlending, hasOpacity bool) {
	switch b {
	case OutputNormal:
		if hasOpacity {
			s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		}
	case OutputMasked:
		s.blend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		s.alphaTest(0)
	case OutputModulate:
		s.blend(BlendDstColor, BlendSrcColor)
	case OutputTranslucent:
		s.blend(BlendOne, BlendOneMinusSrcColor)
	case OutputInvisible:
		s.blend(BlendZero, BlendOne)
	case OutputBrighten:
		s.blend(BlendSrcAlpha, BlendOne)
	case OutputDarken:
		s.blend(BlendZero, BlendOneMinusSrcColor)
	}
}

// IsTranslucent reports whether m needs to be drawn after opaque geometry.
func IsTranslucent(m Material) bool {
	return isTranslucent(m, 0)
}

func isTranslucent(m Material, depth int) bool {
	if m == nil || depth > maxDepth {
		return false
	}
	switch m := m.(type) {
	case *Texture2D:
		return m.AlphaTexture || m.Masked
	case *Modifier:
		return isTranslucent(m.Material, depth+1)
	case *MaterialInstance:
		return isTranslucent(m.Parent, depth+1)
	case *FinalBlend:
		return m.FrameBufferBlending != FBOverwrite || m.AlphaTest
	case *Shader:
		return m.OutputBlending != OutputNormal
	case *FacingShader:
		return m.OutputBlending != FBOverwrite
	case *Unreal3Material:
		return m.BlendingMode != U3Opaque
	case *Material3:
		return m.BlendMode != BlendOpaque
	case *PolyFlagsMaterial:
		if m.Flags&(PolyTranslucent|PolyModulated|PolyMasked) != 0 {
			return true
		}
		return isTranslucent(m.Material, depth+1)
	}
	return false
}
