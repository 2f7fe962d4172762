package material

import (
	"testing"

	"github.com/Faultbox/texbind/pkg/texture"
)

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		m    Material
		want RenderState
	}{
		{"nil", nil, OpaqueState},
		{"plain texture", tex("T"), OpaqueState},
		{
			"one-bit alpha texture",
			&Texture2D{Format: texture.FormatDXT1, AlphaTexture: true, TwoSided: true},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				AlphaTest: true, AlphaRef: 0.8, DepthTest: true, DepthWrite: true},
		},
		{
			"alpha texture",
			&Texture2D{Format: texture.FormatDXT5, AlphaTexture: true},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				AlphaTest: true, AlphaRef: 0.1, CullBack: true, DepthTest: true, DepthWrite: true},
		},
		{
			"translucent material3",
			&Material3{BlendMode: BlendTranslucent, TwoSided: true},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				DepthTest: true},
		},
		{
			"masked material3",
			&Material3{BlendMode: BlendMasked, IsMasked: true, OpacityMaskClipValue: 0.3, DisableDepthTest: true},
			RenderState{AlphaTest: true, AlphaRef: 0.3, CullBack: true, DepthWrite: true},
		},
		{
			"instance follows parent",
			&MaterialInstance{Parent: &Material3{BlendMode: BlendAdditive}},
			RenderState{Blend: true, BlendSrc: BlendOne, BlendDst: BlendOne,
				CullBack: true, DepthTest: true, DepthWrite: true},
		},
		{
			"shader with opacity",
			&Shader{Opacity: tex("O")},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				CullBack: true, DepthTest: true, DepthWrite: true},
		},
		{
			"final blend overrides",
			&FinalBlend{Material: &Texture2D{AlphaTexture: true}, FrameBufferBlending: FBOverwrite, TwoSided: true},
			RenderState{DepthTest: true, DepthWrite: true},
		},
		{
			"final blend brighten",
			&FinalBlend{Material: tex("T"), FrameBufferBlending: FBBrighten, AlphaTest: true, AlphaRef: 255},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOne,
				AlphaTest: true, AlphaRef: 1, CullBack: true, DepthTest: true, DepthWrite: true},
		},
		{
			"unreal3 masked",
			&Unreal3Material{BlendingMode: U3Masked, DoubleSided: true},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				AlphaTest: true, DepthTest: true, DepthWrite: true},
		},
		{
			"poly flags",
			&PolyFlagsMaterial{Material: tex("T"), Flags: PolyMasked | PolyTwoSided},
			RenderState{Blend: true, BlendSrc: BlendSrcAlpha, BlendDst: BlendOneMinusSrcAlpha,
				AlphaTest: true, AlphaRef: 0.1, DepthTest: true, DepthWrite: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.m); got != tt.want {
				t.Errorf("StateOf = %+v\nwant      %+v", got, tt.want)
			}
		})
	}
}

func TestIsTranslucent(t *testing.T) {
	tests := []struct {
		name string
		m    Material
		want bool
	}{
		{"opaque texture", tex("T"), false},
		{"masked texture", &Texture2D{Masked: true}, true},
		{"modifier", &Modifier{Material: &Texture2D{AlphaTexture: true}}, true},
		{"shader normal", &Shader{}, false},
		{"shader brighten", &Shader{OutputBlending: OutputBrighten}, true},
		{"final blend alpha test", &FinalBlend{AlphaTest: true}, true},
		{"material3 opaque", &Material3{}, false},
		{"instance of translucent", &MaterialInstance{Parent: &Material3{BlendMode: BlendModulate}}, true},
		{"scx", &SCXBasicMaterial{}, false},
		{"poly translucent", &PolyFlagsMaterial{Material: tex("T"), Flags: PolyTranslucent}, true},
		{"poly two-sided", &PolyFlagsMaterial{Material: tex("T"), Flags: PolyTwoSided}, false},
	}
	for _, tt := range tests {
		if got := IsTranslucent(tt.m); got != tt.want {
			t.Errorf("%s: IsTranslucent = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWrapRegistry(t *testing.T) {
	reg := NewWrapRegistry()
	m := tex("Wall")

	if got := reg.Wrap(m, 0); got != Material(m) {
		t.Error("zero flags must return the material itself")
	}
	w1 := reg.Wrap(m, PolyTwoSided)
	w2 := reg.Wrap(m, PolyTwoSided)
	if w1 != w2 {
		t.Error("equal wrappings must be shared")
	}
	if w3 := reg.Wrap(m, PolyTranslucent); w3 == w1 {
		t.Error("different flags must produce a new wrapper")
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
	if w1.ObjectName() != "Wall" {
		t.Errorf("wrapper name = %q", w1.ObjectName())
	}

	ch := Resolver{}.Resolve(w1)
	if nameOf(ch.Diffuse) != "Wall" {
		t.Errorf("wrapped material resolves to %q", nameOf(ch.Diffuse))
	}
	if n := reg.Wrap(nil, PolyMasked).ObjectName(); n != "None" {
		t.Errorf("nil material wrapper name = %q", n)
	}
}
