package material

// maxDepth bounds delegation chains. Content with reference cycles exists
// in the wild (a shader naming itself as its own normal map).
const maxDepth = 32

// Resolver turns materials into Channels. It holds no state besides the
// profile, so one value may be shared freely.
type Resolver struct {
	Profile Profile
}

// Resolve computes the channel assignment of m. A nil material yields an
// empty (null) result.
func (r Resolver) Resolve(m Material) Channels {
	ch := Channels{EmissiveColor: DefaultEmissiveColor}
	r.resolve(m, &ch, 0)
	return ch
}

// sub resolves m into a fresh result, for variants that pick single slots
// out of a sub-material.
func (r Resolver) sub(m Material, depth int) Channels {
	var ch Channels
	r.resolve(m, &ch, depth+1)
	return ch
}

func (r Resolver) resolve(m Material, ch *Channels, depth int) {
	if m == nil || depth > maxDepth {
		return
	}
	switch m := m.(type) {
	case *Texture2D:
		if m != nil {
			ch.Diffuse = m
		}
	case *TextureCube:
		if m != nil {
			ch.Cube = m
		}
	case *Modifier:
		r.resolve(m.Material, ch, depth+1)
	case *FinalBlend:
		r.resolve(m.Material, ch, depth+1)
	case *PolyFlagsMaterial:
		r.resolve(m.Material, ch, depth+1)
	case *Shader:
		r.resolveShader(m, ch, depth)
	case *Combiner:
		r.resolveCombiner(m, ch, depth)
	case *FacingShader:
		r.resolveFacing(m, ch, depth)
	case *Unreal3Material:
		resolveUnreal3(m, ch)
	case *SCXBasicMaterial:
		resolveSCX(m, ch)
	case *Material3:
		r.resolveMaterial3(m, ch)
	case *MaterialInstance:
		r.resolveInstance(m, ch, depth)
	}
}

func (r Resolver) resolveShader(m *Shader, ch *Channels, depth int) {
	if m.Diffuse != nil {
		r.resolve(m.Diffuse, ch, depth+1)
	}
	if m.NormalMap != nil && m.NormalMap != Material(m) {
		sub := r.sub(m.NormalMap, depth)
		ch.Normal = sub.Diffuse
	}
	if m.SpecularityMask != nil {
		sub := r.sub(m.SpecularityMask, depth)
		ch.Specular = sub.Diffuse
		ch.SpecularFromAlpha = true
	}
	if m.Opacity != nil {
		sub := r.sub(m.Opacity, depth)
		ch.Opacity = sub.Diffuse
		ch.OpacityFromAlpha = true
	}
}

func (r Resolver) resolveFacing(m *FacingShader, ch *Channels, depth int) {
	pick := func(src Material) Texture {
		if src == nil {
			return nil
		}
		sub := r.sub(src, depth)
		return sub.Diffuse
	}
	if m.FacingDiffuse != nil {
		ch.Diffuse = pick(m.FacingDiffuse)
	}
	if m.NormalMap != nil {
		ch.Normal = pick(m.NormalMap)
	}
	if m.FacingSpecularColorMap != nil {
		ch.Specular = pick(m.FacingSpecularColorMap)
	}
	if m.FacingEmissive != nil {
		ch.Emissive = pick(m.FacingEmissive)
	}
}

func isEnvMap(m Material) bool {
	mod, ok := m.(*Modifier)
	return ok && mod.EnvMap
}

// resolveCombiner keeps only the dominant color source. When one input is
// an environment map the other one also feeds specular, read from alpha.
func (r Resolver) resolveCombiner(m *Combiner, ch *Channels, depth int) {
	var src Channels
	switch m.Operation {
	case CombineUseMaterial1:
		src = r.sub(m.Material1, depth)
	case CombineUseMaterial2:
		src = r.sub(m.Material2, depth)
	case CombineUseMask:
		src = r.sub(m.Mask, depth)
	default:
		switch {
		case m.Material1 != nil && m.Material2 != nil:
			var envSource Material
			if isEnvMap(m.Material2) {
				envSource = m.Material1
			} else if isEnvMap(m.Material1) {
				envSource = m.Material2
			}
			if envSource != nil {
				src = r.sub(envSource, depth)
				ch.Specular = src.Diffuse
				ch.SpecularFromAlpha = true
				break
			}
			// The second input usually carries the significant texture.
			src = r.sub(m.Material2, depth)
			if src.Diffuse == nil {
				src = r.sub(m.Material1, depth)
			}
		case m.Material1 != nil:
			src = r.sub(m.Material1, depth)
		case m.Material2 != nil:
			src = r.sub(m.Material2, depth)
		}
	}
	ch.Diffuse = src.Diffuse
}

// resolveUnreal3 tags textures by suffix; the packed mask carries specular
// intensity in green.
func resolveUnreal3(m *Unreal3Material, ch *Channels) {
	var sb scoreboard
	for i, tex := range m.Textures {
		if tex == nil {
			continue
		}
		sb.classify(tex.ObjectName(), i, false, unreal3Rules, nil, func(s Slot) {
			ch.setTexture(s, tex)
		})
	}
	ch.SpecularMaskChannel = ChannelG
}

func resolveSCX(m *SCXBasicMaterial, ch *Channels) {
	ch.Diffuse = m.Base
	ch.Normal = m.Normal
	ch.Mask = m.SpecularMask
	ch.Cube = m.Environment
	switch m.SpecularSource {
	case SpecSourceRed:
		ch.SpecularMaskChannel = ChannelR
	case SpecSourceGreen:
		ch.SpecularMaskChannel = ChannelG
	case SpecSourceBlue:
		ch.SpecularMaskChannel = ChannelB
	case SpecSourceNormalAlpha:
		ch.SpecularMaskChannel = ChannelInvAlpha
	}
}

// applyMobile copies the explicitly typed mobile inputs. They seed the
// slots with weight zero, so any name match replaces them.
func applyMobile(p *MobileParams, ch *Channels) {
	if p.FlattenedTexture != nil {
		ch.Diffuse = p.FlattenedTexture
	}
	if p.MobileBaseTexture != nil {
		ch.Diffuse = p.MobileBaseTexture
	}
	if p.MobileNormalTexture != nil {
		ch.Normal = p.MobileNormalTexture
	}
	if p.MobileMaskTexture != nil {
		ch.Opacity = p.MobileMaskTexture
	}
	ch.UseMobileSpecular = p.UseMobileSpecular
	ch.MobileSpecularPower = p.MobileSpecularPower
	ch.MobileSpecularMask = p.MobileSpecularMask
}

func (r Resolver) resolveMaterial3(m *Material3, ch *Channels) {
	applyMobile(&m.MobileParams, ch)
	extra := profileRules[r.Profile]

	var sb scoreboard
	for i, tex := range m.Textures {
		if tex == nil {
			continue
		}
		name := tex.ObjectName()
		if skipped(name, material3Skip) {
			continue
		}
		sb.classify(name, i, m.IsMasked, material3Rules, extra.material3, func(s Slot) {
			ch.setTexture(s, tex)
		})
	}
	fixCollisions(ch, &sb)
}

// resolveInstance resolves the parent chain first, then lets local
// parameters override it. Local weights start from zero, so any local
// match replaces an inherited assignment.
func (r Resolver) resolveInstance(m *MaterialInstance, ch *Channels, depth int) {
	r.resolve(m.Parent, ch, depth+1)
	applyMobile(&m.MobileParams, ch)
	extra := profileRules[r.Profile]

	// Local texture parameters mean the appearance is overridden; an
	// inherited opacity mask rarely fits the new textures.
	if len(m.TextureParams) > 0 {
		ch.Opacity = nil
	}

	var sb scoreboard
	for i, p := range m.TextureParams {
		if p.Texture == nil {
			continue
		}
		tex := p.Texture
		sb.classify(p.Name, i, false, instanceRules, extra.instance, func(s Slot) {
			ch.setTexture(s, tex)
		})
	}
	for i, p := range m.VectorParams {
		value := p.Value
		sb.classify(p.Name, i, false, vectorRules, extra.vector, func(Slot) {
			ch.EmissiveColor = value
		})
	}

	if extra.mask != nil {
		extra.mask.apply(ch)
	}
	fixCollisions(ch, &sb)

	// Single anonymous parameter: most likely the diffuse.
	if ch.Diffuse == nil && len(m.TextureParams) == 1 {
		if t := m.TextureParams[0].Texture; t != nil && !t.IsCube() && t != ch.Normal {
			ch.Diffuse = t
		}
	}
}

// fixCollisions keeps a texture out of both Diffuse and Normal, and keeps
// cubemaps out of Diffuse. Assignments made with weight zero come from
// explicit inputs: they beat any inferred one, and two of them are left
// alone.
func fixCollisions(ch *Channels, sb *scoreboard) {
	if ch.Diffuse != nil && ch.Diffuse == ch.Normal {
		dw, nw := sb.weight[SlotDiffuse], sb.weight[SlotNormal]
		switch {
		case dw == 0 && nw == 0:
		case dw == 0:
			ch.Normal = nil
		case nw == 0:
			ch.Diffuse = nil
		case nw > dw:
			ch.Diffuse = nil
		default:
			ch.Normal = nil
		}
	}
	if ch.Diffuse != nil && ch.Diffuse.IsCube() {
		ch.Diffuse = nil
	}
}
