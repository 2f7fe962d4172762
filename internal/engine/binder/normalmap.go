package binder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Faultbox/texbind/internal/engine/binder/shaders"
	"github.com/Faultbox/texbind/pkg/material"
)

// Texture units of the normal-mapped program.
const (
	unitDiffuse = iota
	unitNormal
	unitSpecular
	unitSpecularPower
	unitOpacity
	unitEmissive
	unitCube
	unitMask
)

// samplers maps sampler uniforms to their texture units.
var samplers = []struct {
	name string
	unit int32
}{
	{"diffTex", unitDiffuse},
	{"normTex", unitNormal},
	{"specTex", unitSpecular},
	{"spPowTex", unitSpecularPower},
	{"opacTex", unitOpacity},
	{"emisTex", unitEmissive},
	{"cubeTex", unitCube},
	{"maskTex", unitMask},
}

// maskChannel reads one component of the packed mask texture.
var maskChannel = [...]string{
	material.ChannelNone:     "0.0",
	material.ChannelR:        "texture(maskTex, TexCoord).r",
	material.ChannelG:        "texture(maskTex, TexCoord).g",
	material.ChannelB:        "texture(maskTex, TexCoord).b",
	material.ChannelA:        "texture(maskTex, TexCoord).a",
	material.ChannelInvAlpha: "(1.0 - texture(maskTex, TexCoord).a)",
}

// mobileSpecular is indexed by material.MobileSpecularMask.
var mobileSpecular = [material.NumMobileSpecularMasks]string{
	"vec3(1.0)",
	"texture(diffTex, TexCoord).rgb * 2.0",
	"texture(diffTex, TexCoord).r * vec3(2.0)",
	"texture(diffTex, TexCoord).g * vec3(2.0)",
	"texture(diffTex, TexCoord).b * vec3(2.0)",
	"texture(diffTex, TexCoord).a * vec3(2.0)",
	"texture(opacTex, TexCoord).rgb * 2.0",
	"texture(opacTex, TexCoord).r * vec3(2.0)",
	"texture(opacTex, TexCoord).g * vec3(2.0)",
	"texture(opacTex, TexCoord).b * vec3(2.0)",
	"texture(opacTex, TexCoord).a * vec3(2.0)",
}

// expressions are the GLSL snippets substituted into the normal-map
// template.
type expressions struct {
	Defines       []string
	Normal        string
	Specular      string
	SpecularPower string
	Opacity       string
	Emissive      string
	Cube          string
	CubeMask      string
}

func channelExpr(c material.TextureChannel) string {
	if int(c) < len(maskChannel) {
		return maskChannel[c]
	}
	return maskChannel[material.ChannelNone]
}

// buildExpressions derives the shader inputs of a normal-mapped program.
// Absent inputs fall back to constants: a flat normal, no emission, full
// opacity and the default shininess.
func buildExpressions(sig Signature) expressions {
	e := expressions{
		Normal:        "vec3(0.0, 0.0, 1.0)",
		Specular:      "vec3(0.0)",
		SpecularPower: "shininess",
		Opacity:       "1.0",
		Emissive:      "vec3(0.0)",
		Cube:          "vec3(0.0)",
		CubeMask:      "1.0",
	}

	if sig.Diffuse || sig.DefaultDiffuse {
		e.Defines = append(e.Defines, "DIFFUSE 1")
	}
	if sig.Normal {
		e.Normal = "texture(normTex, TexCoord).rgb * 2.0 - 1.0"
	}
	if sig.Specular {
		comp := "rgb"
		if sig.SpecularFromAlpha {
			comp = "a"
		}
		e.Specular = fmt.Sprintf("texture(specTex, TexCoord).%s * 1.5", comp)
	}
	if sig.SpecularPower {
		e.SpecularPower = "texture(spPowTex, TexCoord).g * 100.0 + 5.0"
	}
	switch {
	case sig.Opacity:
		comp := "g"
		if sig.OpacityFromAlpha {
			comp = "a"
		}
		e.Opacity = "texture(opacTex, TexCoord)." + comp
	case sig.Diffuse:
		e.Opacity = "texture(diffTex, TexCoord).a"
	}
	if sig.Emissive {
		e.Emissive = "emissiveColor * texture(emisTex, TexCoord).g * 2.0"
		e.Defines = append(e.Defines, "EMISSIVE 1")
	}
	if sig.Cube {
		e.Cube = "texture(cubeTex, R).rgb"
		e.Defines = append(e.Defines, "CUBE 1")
		if sig.Emissive {
			// The emissive texture doubles as the reflection mask.
			e.CubeMask = "texture(emisTex, TexCoord).g"
			e.Emissive = "vec3(0.0)"
		}
	}
	if sig.Mask {
		if sig.EmissiveChannel != material.ChannelNone {
			e.Emissive = fmt.Sprintf("emissiveColor * %s * 2.0", channelExpr(sig.EmissiveChannel))
			if !sig.Emissive {
				e.Defines = append(e.Defines, "EMISSIVE 1")
			}
		}
		if sig.SpecularMaskChannel != material.ChannelNone {
			e.Specular = fmt.Sprintf("vec3(%s)", channelExpr(sig.SpecularMaskChannel))
		}
		if sig.SpecularPowerChannel != material.ChannelNone {
			e.SpecularPower = fmt.Sprintf("%s * 100.0 + 5.0", channelExpr(sig.SpecularPowerChannel))
		}
		if sig.CubemapMaskChannel != material.ChannelNone {
			e.CubeMask = channelExpr(sig.CubemapMaskChannel)
		}
	}
	if sig.MobileSpecular {
		e.Specular = mobileSpecular[sig.MobileSpecularMask]
		e.SpecularPower = "mobileSpecPower"
	}
	return e
}

var normalMapTemplate = template.Must(template.New("normalmap").Parse(shaders.NormalMapFragmentShader))

// normalMapSource expands the normal-map fragment template for sig.
func normalMapSource(sig Signature) (string, error) {
	var sb strings.Builder
	if err := normalMapTemplate.Execute(&sb, buildExpressions(sig)); err != nil {
		return "", fmt.Errorf("expanding normal map shader: %w", err)
	}
	return sb.String(), nil
}

// withDefines inserts #define lines right after the #version line of src.
func withDefines(src string, defines ...string) string {
	if len(defines) == 0 {
		return src
	}
	var sb strings.Builder
	head, rest, _ := strings.Cut(src, "\n")
	sb.WriteString(head)
	sb.WriteByte('\n')
	for _, d := range defines {
		sb.WriteString("#define ")
		sb.WriteString(d)
		sb.WriteByte('\n')
	}
	sb.WriteString(rest)
	return sb.String()
}
