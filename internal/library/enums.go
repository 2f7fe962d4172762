package library

import (
	"fmt"
	"strings"

	"github.com/Faultbox/texbind/pkg/material"
)

func lookup[T any](table map[string]T, field, s string) (T, error) {
	var zero T
	if s == "" {
		return zero, nil
	}
	v, ok := table[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return zero, fmt.Errorf("%w: %s %q", ErrInvalidValue, field, s)
	}
	return v, nil
}

var blendModes = map[string]material.BlendMode{
	"opaque":      material.BlendOpaque,
	"masked":      material.BlendMasked,
	"translucent": material.BlendTranslucent,
	"additive":    material.BlendAdditive,
	"modulate":    material.BlendModulate,
}

var outputBlendings = map[string]material.OutputBlending{
	"normal":      material.OutputNormal,
	"masked":      material.OutputMasked,
	"modulate":    material.OutputModulate,
	"translucent": material.OutputTranslucent,
	"invisible":   material.OutputInvisible,
	"brighten":    material.OutputBrighten,
	"darken":      material.OutputDarken,
}

var frameBufferBlendings = map[string]material.FrameBufferBlending{
	"overwrite":      material.FBOverwrite,
	"modulate":       material.FBModulate,
	"alpha_blend":    material.FBAlphaBlend,
	"alpha_modulate": material.FBAlphaModulate,
	"translucent":    material.FBTranslucent,
	"darken":         material.FBDarken,
	"brighten":       material.FBBrighten,
	"invisible":      material.FBInvisible,
}

var combineOps = map[string]material.CombineOp{
	"use_material1":            material.CombineUseMaterial1,
	"use_material2":            material.CombineUseMaterial2,
	"multiply":                 material.CombineMultiply,
	"add":                      material.CombineAdd,
	"subtract":                 material.CombineSubtract,
	"alpha_blend_with_mask":    material.CombineAlphaBlendWithMask,
	"add_with_mask_modulation": material.CombineAddWithMaskModulation,
	"use_mask":                 material.CombineUseMask,
}

var unreal3Blendings = map[string]material.Unreal3BlendMode{
	"opaque":                    material.U3Opaque,
	"translucent":               material.U3Translucent,
	"translucent_no_distortion": material.U3TranslucentNoDistortion,
	"additive":                  material.U3Additive,
	"masked":                    material.U3Masked,
}

var specularSources = map[string]material.SpecularSource{
	"none":         material.SpecSourceNone,
	"red":          material.SpecSourceRed,
	"green":        material.SpecSourceGreen,
	"blue":         material.SpecSourceBlue,
	"normal_alpha": material.SpecSourceNormalAlpha,
}

var mobileSpecularMasks = map[string]material.MobileSpecularMask{
	"constant":           material.MobileSpecConstant,
	"luminance":          material.MobileSpecLuminance,
	"diffuse_red":        material.MobileSpecDiffuseRed,
	"diffuse_green":      material.MobileSpecDiffuseGreen,
	"diffuse_blue":       material.MobileSpecDiffuseBlue,
	"diffuse_alpha":      material.MobileSpecDiffuseAlpha,
	"mask_texture_rgb":   material.MobileSpecMaskTextureRGB,
	"mask_texture_red":   material.MobileSpecMaskTextureRed,
	"mask_texture_green": material.MobileSpecMaskTextureGreen,
	"mask_texture_blue":  material.MobileSpecMaskTextureBlue,
	"mask_texture_alpha": material.MobileSpecMaskTextureAlpha,
}

var polyFlags = map[string]material.PolyFlags{
	"masked":      material.PolyMasked,
	"translucent": material.PolyTranslucent,
	"modulated":   material.PolyModulated,
	"two_sided":   material.PolyTwoSided,
}

func parsePolyFlags(names []string) (material.PolyFlags, error) {
	var flags material.PolyFlags
	for _, n := range names {
		f, err := lookup(polyFlags, "poly flag", n)
		if err != nil {
			return 0, err
		}
		flags |= f
	}
	return flags, nil
}
