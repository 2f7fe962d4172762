package binder

import (
	"strings"
	"testing"

	"github.com/Faultbox/texbind/pkg/material"
)

func TestBuildExpressions(t *testing.T) {
	tests := []struct {
		name  string
		sig   Signature
		check func(e expressions) bool
	}{
		{
			name:  "absent inputs are constants",
			sig:   Signature{Flavor: FlavorNormalMap, DefaultDiffuse: true},
			check: func(e expressions) bool { return e.Normal == "vec3(0.0, 0.0, 1.0)" && e.Opacity == "1.0" && e.SpecularPower == "shininess" },
		},
		{
			name:  "opacity from diffuse alpha",
			sig:   Signature{Diffuse: true},
			check: func(e expressions) bool { return e.Opacity == "texture(diffTex, TexCoord).a" },
		},
		{
			name:  "placeholder diffuse keeps full opacity",
			sig:   Signature{DefaultDiffuse: true},
			check: func(e expressions) bool { return e.Opacity == "1.0" },
		},
		{
			name:  "opacity texture green",
			sig:   Signature{Diffuse: true, Opacity: true},
			check: func(e expressions) bool { return e.Opacity == "texture(opacTex, TexCoord).g" },
		},
		{
			name:  "opacity texture alpha",
			sig:   Signature{Opacity: true, OpacityFromAlpha: true},
			check: func(e expressions) bool { return e.Opacity == "texture(opacTex, TexCoord).a" },
		},
		{
			name:  "specular power texture",
			sig:   Signature{SpecularPower: true},
			check: func(e expressions) bool { return e.SpecularPower == "texture(spPowTex, TexCoord).g * 100.0 + 5.0" },
		},
		{
			name: "emissive doubles as cube mask",
			sig:  Signature{Cube: true, Emissive: true},
			check: func(e expressions) bool {
				return e.CubeMask == "texture(emisTex, TexCoord).g" && e.Emissive == "vec3(0.0)" && e.Cube == "texture(cubeTex, R).rgb"
			},
		},
		{
			name:  "emissive without cube",
			sig:   Signature{Emissive: true},
			check: func(e expressions) bool { return e.Emissive == "emissiveColor * texture(emisTex, TexCoord).g * 2.0" },
		},
		{
			name: "mask channels",
			sig: Signature{
				Mask:                 true,
				EmissiveChannel:      material.ChannelInvAlpha,
				SpecularMaskChannel:  material.ChannelG,
				SpecularPowerChannel: material.ChannelB,
				CubemapMaskChannel:   material.ChannelR,
			},
			check: func(e expressions) bool {
				return e.Emissive == "emissiveColor * (1.0 - texture(maskTex, TexCoord).a) * 2.0" &&
					e.Specular == "vec3(texture(maskTex, TexCoord).g)" &&
					e.SpecularPower == "texture(maskTex, TexCoord).b * 100.0 + 5.0" &&
					e.CubeMask == "texture(maskTex, TexCoord).r"
			},
		},
		{
			name: "mobile specular overrides",
			sig:  Signature{Specular: true, MobileSpecular: true, MobileSpecularMask: material.MobileSpecMaskTextureGreen},
			check: func(e expressions) bool {
				return e.Specular == "texture(opacTex, TexCoord).g * vec3(2.0)" && e.SpecularPower == "mobileSpecPower"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e := buildExpressions(tt.sig); !tt.check(e) {
				t.Errorf("buildExpressions(%+v) = %+v", tt.sig, e)
			}
		})
	}
}

func TestBuildExpressionsDefines(t *testing.T) {
	tests := []struct {
		sig  Signature
		want []string
	}{
		{Signature{}, nil},
		{Signature{Diffuse: true}, []string{"DIFFUSE 1"}},
		{Signature{DefaultDiffuse: true}, []string{"DIFFUSE 1"}},
		{Signature{Emissive: true, Cube: true}, []string{"EMISSIVE 1", "CUBE 1"}},
		{Signature{Mask: true, EmissiveChannel: material.ChannelA}, []string{"EMISSIVE 1"}},
	}
	for _, tt := range tests {
		got := buildExpressions(tt.sig).Defines
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("defines(%+v) = %v, want %v", tt.sig, got, tt.want)
		}
	}
}

func TestMobileSpecularTable(t *testing.T) {
	for m := material.MobileSpecularMask(0); m < material.NumMobileSpecularMasks; m++ {
		if mobileSpecular[m] == "" {
			t.Errorf("no expression for mobile specular mask %d", m)
		}
	}
}

func TestNormalMapSignature(t *testing.T) {
	d, n, mask := &material.Texture2D{}, &material.Texture2D{}, &material.Texture2D{}

	t.Run("selectors without inputs are dropped", func(t *testing.T) {
		ch := material.Channels{
			Diffuse:             d,
			SpecularFromAlpha:   true,
			OpacityFromAlpha:    true,
			EmissiveChannel:     material.ChannelR,
			SpecularMaskChannel: material.ChannelG,
			MobileSpecularMask:  material.MobileSpecLuminance,
		}
		want := Signature{Flavor: FlavorNormalMap, Diffuse: true}
		if got := NormalMapSignature(&ch); got != want {
			t.Errorf("NormalMapSignature() = %+v, want %+v", got, want)
		}
	})

	t.Run("placeholder only without normal or cube", func(t *testing.T) {
		ch := material.Channels{Normal: n}
		if NormalMapSignature(&ch).DefaultDiffuse {
			t.Error("DefaultDiffuse set with a normal map")
		}
		ch = material.Channels{Mask: mask}
		if !NormalMapSignature(&ch).DefaultDiffuse {
			t.Error("DefaultDiffuse not set")
		}
	})

	t.Run("mask selectors kept", func(t *testing.T) {
		ch := material.Channels{Mask: mask, SpecularPowerChannel: material.ChannelG}
		if got := NormalMapSignature(&ch).SpecularPowerChannel; got != material.ChannelG {
			t.Errorf("SpecularPowerChannel = %v, want g", got)
		}
	})

	t.Run("out of range mobile mask", func(t *testing.T) {
		ch := material.Channels{Diffuse: d, UseMobileSpecular: true, MobileSpecularMask: 200}
		if got := NormalMapSignature(&ch).MobileSpecularMask; got != material.MobileSpecConstant {
			t.Errorf("MobileSpecularMask = %d, want constant", got)
		}
	})
}

func TestNormalMapSource(t *testing.T) {
	src, err := normalMapSource(Signature{Flavor: FlavorNormalMap, Diffuse: true, Normal: true})
	if err != nil {
		t.Fatalf("normalMapSource() error = %v", err)
	}
	if !strings.HasPrefix(src, "#version 410 core\n") {
		t.Error("source does not start with #version")
	}
	for _, want := range []string{"#define DIFFUSE 1", "TBN * (texture(normTex, TexCoord).rgb * 2.0 - 1.0)"} {
		if !strings.Contains(src, want) {
			t.Errorf("source lacks %q", want)
		}
	}
	if strings.Contains(src, "{{") {
		t.Error("unexpanded template action in source")
	}
}

func TestWithDefines(t *testing.T) {
	got := withDefines("#version 410 core\nvoid main() {}\n", "A 1", "B 0")
	want := "#version 410 core\n#define A 1\n#define B 0\nvoid main() {}\n"
	if got != want {
		t.Errorf("withDefines() = %q, want %q", got, want)
	}
	if got := withDefines("x\n"); got != "x\n" {
		t.Errorf("withDefines() without defines = %q", got)
	}
}
