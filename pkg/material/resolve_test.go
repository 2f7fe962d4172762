package material

import "testing"

func tex(name string) *Texture2D {
	return &Texture2D{Object: Object{Name: name}}
}

func cube(name string) *TextureCube {
	return &TextureCube{Object: Object{Name: name}}
}

func material3(names ...string) *Material3 {
	m := &Material3{Object: Object{Name: "M"}}
	for _, n := range names {
		m.Textures = append(m.Textures, tex(n))
	}
	return m
}

// nameOf returns the object name of t, or "" for an empty slot.
func nameOf(t Texture) string {
	if t == nil {
		return ""
	}
	return t.ObjectName()
}

type slotWant map[Slot]string

func checkSlots(t *testing.T, ch Channels, want slotWant) {
	t.Helper()
	for _, s := range TextureSlots {
		if got := nameOf(ch.Texture(s)); got != want[s] {
			t.Errorf("%s = %q, want %q", s, got, want[s])
		}
	}
}

func TestResolveMaterial3(t *testing.T) {
	tests := []struct {
		name    string
		m       *Material3
		profile Profile
		want    slotWant
	}{
		{
			name: "suffix conventions",
			m:    material3("Hero_D", "Hero_N", "Hero_S"),
			want: slotWant{SlotDiffuse: "Hero_D", SlotNormal: "Hero_N", SlotSpecular: "Hero_S"},
		},
		{
			name: "single unmatched texture",
			m:    material3("Rock"),
			want: slotWant{SlotDiffuse: "Rock"},
		},
		{
			name: "normal evidence beats diffuse suffix",
			m:    material3("Brick_Norm_D"),
			want: slotWant{SlotNormal: "Brick_Norm_D"},
		},
		{
			name: "first of equal weight keeps the slot",
			m:    material3("A_D", "B_D"),
			want: slotWant{SlotDiffuse: "A_D"},
		},
		{
			name: "noise textures are ignored",
			m:    material3("Noise_D", "Rock"),
			want: slotWant{},
		},
		{
			name: "prefix conventions",
			m:    material3("df_wall", "no_wall", "sp_wall"),
			want: slotWant{SlotDiffuse: "df_wall", SlotNormal: "no_wall", SlotSpecular: "sp_wall"},
		},
		{
			name: "long names",
			m:    material3("BodyDiffuse", "BodyNormal", "BodySpecular", "BodyEmissive", "BodyOpacity"),
			want: slotWant{
				SlotDiffuse: "BodyDiffuse", SlotNormal: "BodyNormal", SlotSpecular: "BodySpecular",
				SlotEmissive: "BodyEmissive", SlotOpacity: "BodyOpacity",
			},
		},
		{
			name: "spec power and emissive suffixes",
			m:    material3("Gun_D", "Gun_SP", "Gun_EM", "Gun_A"),
			want: slotWant{
				SlotDiffuse: "Gun_D", SlotSpecularPower: "Gun_SP",
				SlotEmissive: "Gun_EM", SlotOpacity: "Gun_A",
			},
		},
		{
			name: "generic: first texture stays diffuse and collides with normal",
			m:    material3("Gun_N", "Gun_C01"),
			want: slotWant{SlotNormal: "Gun_N"},
		},
		{
			name:    "bulletstorm color infix",
			m:       material3("Gun_N", "Gun_C01"),
			profile: ProfileBulletstorm,
			want:    slotWant{SlotDiffuse: "Gun_C01", SlotNormal: "Gun_N"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := Resolver{Profile: tt.profile}.Resolve(tt.m)
			checkSlots(t, ch, tt.want)
		})
	}
}

func TestResolveMaterial3_MaskedOnlyRule(t *testing.T) {
	m := material3("Leaf_D", "Leaf_Mask")
	ch := Resolver{}.Resolve(m)
	if ch.Opacity != nil {
		t.Errorf("unmasked material: opacity = %q", nameOf(ch.Opacity))
	}

	m.IsMasked = true
	ch = Resolver{}.Resolve(m)
	if nameOf(ch.Opacity) != "Leaf_Mask" {
		t.Errorf("masked material: opacity = %q, want Leaf_Mask", nameOf(ch.Opacity))
	}
}

func TestResolveMaterial3_CubeNeverDiffuse(t *testing.T) {
	m := &Material3{Textures: []Texture{cube("Sky_D")}}
	ch := Resolver{}.Resolve(m)
	if ch.Diffuse != nil {
		t.Errorf("diffuse = %q, want empty", nameOf(ch.Diffuse))
	}
}

func TestResolveMaterial3_MobileParams(t *testing.T) {
	base := tex("Flat")
	m := material3("Rock_N")
	m.MobileBaseTexture = base
	m.UseMobileSpecular = true
	m.MobileSpecularPower = 16
	m.MobileSpecularMask = MobileSpecDiffuseAlpha

	ch := Resolver{}.Resolve(m)
	// Rock_N takes diffuse by first-entry weight, then loses it to the
	// stronger normal evidence; the mobile base is not restored.
	if ch.Diffuse != nil || nameOf(ch.Normal) != "Rock_N" {
		t.Errorf("diffuse = %q normal = %q", nameOf(ch.Diffuse), nameOf(ch.Normal))
	}
	if !ch.UseMobileSpecular || ch.MobileSpecularPower != 16 || ch.MobileSpecularMask != MobileSpecDiffuseAlpha {
		t.Errorf("mobile specular not copied: %+v", ch)
	}

	only := &Material3{MobileParams: MobileParams{MobileBaseTexture: base, MobileNormalTexture: base}}
	ch = Resolver{}.Resolve(only)
	if ch.Diffuse != Texture(base) || ch.Normal != Texture(base) {
		t.Error("explicit mobile inputs must survive the collision pass")
	}

	// An explicit normal beats a name-inferred diffuse on the same texture.
	rock := tex("Rock_D")
	explicit := &Material3{
		Textures:     []Texture{rock},
		MobileParams: MobileParams{MobileNormalTexture: rock},
	}
	ch = Resolver{}.Resolve(explicit)
	if ch.Normal != Texture(rock) || ch.Diffuse != nil {
		t.Errorf("explicit normal: diffuse = %q normal = %q, want normal only",
			nameOf(ch.Diffuse), nameOf(ch.Normal))
	}
}

func instance(parent Material, params ...TextureParam) *MaterialInstance {
	return &MaterialInstance{Object: Object{Name: "MI"}, Parent: parent, TextureParams: params}
}

func param(name string, t Texture) TextureParam {
	return TextureParam{Name: name, Texture: t}
}

func TestResolveInstance_OverridesParent(t *testing.T) {
	parent := material3("Base_D", "Base_N", "Base_A")
	mi := instance(parent, param("DiffuseTexture", tex("Skin_D")))

	ch := Resolver{}.Resolve(mi)
	checkSlots(t, ch, slotWant{SlotDiffuse: "Skin_D", SlotNormal: "Base_N"})

	// Without local texture parameters the parent opacity survives.
	ch = Resolver{}.Resolve(instance(parent))
	if nameOf(ch.Opacity) != "Base_A" {
		t.Errorf("opacity = %q, want Base_A", nameOf(ch.Opacity))
	}
}

func TestResolveInstance_NestedParents(t *testing.T) {
	root := material3("Base_D")
	mid := instance(root, param("NormalMap", tex("Mid_N")))
	leaf := instance(mid, param("SpecularMap", tex("Leaf_S")))

	ch := Resolver{}.Resolve(leaf)
	checkSlots(t, ch, slotWant{SlotDiffuse: "Base_D", SlotNormal: "Mid_N", SlotSpecular: "Leaf_S"})
}

func TestResolveInstance_Rules(t *testing.T) {
	tests := []struct {
		param string
		want  Slot
	}{
		{"Diffuse", SlotDiffuse},
		{"BaseColor", SlotDiffuse},
		{"NormalMap", SlotNormal},
		{"SpecPower", SlotSpecularPower},
		{"Specular", SlotSpecular},
		{"EmissiveMap", SlotEmissive},
		{"CubeMap", SlotCube},
		{"Reflection", SlotCube},
		{"Opacity", SlotOpacity},
		{"Translucency", SlotOpacity},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			// A second parameter disables the single-parameter fallback.
			mi := instance(nil, param(tt.param, tex("T")), param("Unused", tex("U")))
			ch := Resolver{}.Resolve(mi)
			if nameOf(ch.Texture(tt.want)) != "T" {
				t.Errorf("%s not assigned to %s", tt.param, tt.want)
			}
		})
	}
}

func TestResolveInstance_Exclusions(t *testing.T) {
	mi := instance(nil,
		param("NormalFX", tex("FX")),
		param("Transmission", tex("TR")),
	)
	ch := Resolver{}.Resolve(mi)
	if ch.Normal != nil || ch.Opacity != nil {
		t.Errorf("normal = %q opacity = %q, want both empty", nameOf(ch.Normal), nameOf(ch.Opacity))
	}
}

func TestResolveInstance_SingleParamFallback(t *testing.T) {
	ch := Resolver{}.Resolve(instance(nil, param("Layer0", tex("Rock"))))
	checkSlots(t, ch, slotWant{SlotDiffuse: "Rock"})

	ch = Resolver{}.Resolve(instance(nil, param("Layer0", cube("Sky"))))
	if !ch.IsNull() {
		t.Errorf("cube must not become diffuse: %q", nameOf(ch.Diffuse))
	}
}

func TestResolveInstance_DishonoredTie(t *testing.T) {
	a, b, c := tex("EnvA"), cube("EnvB"), tex("EnvMask")
	mi := instance(nil,
		param("Env_cube", a),
		param("cubemap_tex", b),
		param("cubemap_mask", c),
	)

	ch := Resolver{}.Resolve(mi)
	if nameOf(ch.Cube) != "EnvA" || ch.Emissive != nil {
		t.Errorf("generic: cube = %q emissive = %q", nameOf(ch.Cube), nameOf(ch.Emissive))
	}

	ch = Resolver{Profile: ProfileDishonored}.Resolve(mi)
	if nameOf(ch.Cube) != "EnvB" {
		t.Errorf("dishonored: cube = %q, want EnvB", nameOf(ch.Cube))
	}
	if nameOf(ch.Emissive) != "EnvMask" {
		t.Errorf("dishonored: emissive = %q, want EnvMask", nameOf(ch.Emissive))
	}
}

func TestResolveInstance_TronMask(t *testing.T) {
	full := instance(nil,
		param("Diffuse", tex("D")),
		param("SPPW", tex("P")),
		param("Emss", tex("E")),
		param("Mask", tex("M")),
	)
	ch := Resolver{Profile: ProfileTron}.Resolve(full)
	if ch.Mask != nil {
		t.Errorf("mask = %q, want dropped", nameOf(ch.Mask))
	}
	if ch.EmissiveChannel != ChannelNone {
		t.Errorf("emissive channel = %s, want none", ch.EmissiveChannel)
	}

	packed := instance(nil, param("Diffuse", tex("D")), param("Mask", tex("M")))
	ch = Resolver{Profile: ProfileTron}.Resolve(packed)
	if nameOf(ch.Mask) != "M" {
		t.Fatalf("mask = %q, want M", nameOf(ch.Mask))
	}
	if ch.EmissiveChannel != ChannelInvAlpha || ch.SpecularMaskChannel != ChannelG ||
		ch.SpecularPowerChannel != ChannelB || ch.CubemapMaskChannel != ChannelR {
		t.Errorf("channels = %s %s %s %s", ch.EmissiveChannel, ch.SpecularMaskChannel,
			ch.SpecularPowerChannel, ch.CubemapMaskChannel)
	}

	// Without the profile the mask parameter is not recognized.
	ch = Resolver{}.Resolve(packed)
	if ch.Mask != nil {
		t.Errorf("generic mask = %q", nameOf(ch.Mask))
	}
}

func TestResolveInstance_MaskLayouts(t *testing.T) {
	ch := Resolver{Profile: ProfileBatman2}.Resolve(instance(nil,
		param("Material_Attributes", tex("Attr")),
		param("Material_Attributes_Extra", tex("Other")),
	))
	if nameOf(ch.Mask) != "Attr" {
		t.Fatalf("batman2 mask = %q, want Attr", nameOf(ch.Mask))
	}
	if ch.SpecularMaskChannel != ChannelR || ch.SpecularPowerChannel != ChannelG {
		t.Errorf("batman2 channels = %s %s", ch.SpecularMaskChannel, ch.SpecularPowerChannel)
	}

	ch = Resolver{Profile: ProfileBladeNSoul}.Resolve(instance(nil,
		param("Diffuse", tex("D")),
		param("Body_mask_RGB", tex("Body")),
	))
	if nameOf(ch.Mask) != "Body" || ch.CubemapMaskChannel != ChannelB || ch.SpecularPowerChannel != ChannelG {
		t.Errorf("bladensoul: mask = %q cube %s power %s", nameOf(ch.Mask), ch.CubemapMaskChannel, ch.SpecularPowerChannel)
	}
}

func TestResolveInstance_EmissiveColor(t *testing.T) {
	mi := instance(nil)
	mi.VectorParams = []VectorParam{
		{Name: "PipingColour", Value: Color{R: 1}},
		{Name: "EmissiveColor", Value: Color{G: 1}},
	}
	ch := Resolver{Profile: ProfileTron}.Resolve(mi)
	if ch.EmissiveColor != (Color{G: 1}) {
		t.Errorf("emissive color = %+v, want green", ch.EmissiveColor)
	}

	mi.VectorParams = mi.VectorParams[:1]
	ch = Resolver{Profile: ProfileTron}.Resolve(mi)
	if ch.EmissiveColor != (Color{R: 1}) {
		t.Errorf("tron piping color = %+v, want red", ch.EmissiveColor)
	}
	ch = Resolver{}.Resolve(mi)
	if ch.EmissiveColor != DefaultEmissiveColor {
		t.Errorf("generic piping color = %+v, want default", ch.EmissiveColor)
	}
}

func TestResolve_DefaultEmissiveColor(t *testing.T) {
	tests := []struct {
		name string
		m    Material
	}{
		{"material3", &Material3{Textures: []Texture{tex("Neon_D"), tex("Neon_E")}}},
		{"facing", &FacingShader{FacingDiffuse: tex("Glow_D"), FacingEmissive: tex("Glow_E")}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := Resolver{}.Resolve(tt.m)
			if ch.EmissiveColor != DefaultEmissiveColor {
				t.Errorf("EmissiveColor = %+v, want %+v", ch.EmissiveColor, DefaultEmissiveColor)
			}
		})
	}
}

func TestResolveLegacy(t *testing.T) {
	d, s, o, n := tex("D"), tex("S"), tex("O"), tex("N")

	sh := &Shader{Diffuse: d, SpecularityMask: s, Opacity: o, NormalMap: n}
	ch := Resolver{}.Resolve(sh)
	checkSlots(t, ch, slotWant{SlotDiffuse: "D", SlotSpecular: "S", SlotOpacity: "O", SlotNormal: "N"})
	if !ch.SpecularFromAlpha || !ch.OpacityFromAlpha {
		t.Error("shader masks must read alpha")
	}

	self := &Shader{Diffuse: d}
	self.NormalMap = self
	ch = Resolver{}.Resolve(self)
	if ch.Normal != nil || nameOf(ch.Diffuse) != "D" {
		t.Errorf("self-referencing shader: %+v", ch)
	}

	fs := &FacingShader{FacingDiffuse: d, NormalMap: n, FacingSpecularColorMap: s, FacingEmissive: &Modifier{Material: o}}
	ch = Resolver{}.Resolve(fs)
	checkSlots(t, ch, slotWant{SlotDiffuse: "D", SlotNormal: "N", SlotSpecular: "S", SlotEmissive: "O"})

	ch = Resolver{}.Resolve(&FinalBlend{Material: &Modifier{Material: cube("C")}})
	checkSlots(t, ch, slotWant{SlotCube: "C"})
}

func TestResolveCombiner(t *testing.T) {
	a, b := tex("A"), tex("B")
	env := &Modifier{Material: cube("Env"), EnvMap: true}

	tests := []struct {
		name     string
		c        *Combiner
		diffuse  string
		specular string
	}{
		{"material1", &Combiner{Material1: a, Material2: b, Operation: CombineUseMaterial1}, "A", ""},
		{"material2", &Combiner{Material1: a, Material2: b, Operation: CombineUseMaterial2}, "B", ""},
		{"mask", &Combiner{Mask: b, Operation: CombineUseMask}, "B", ""},
		{"second dominates", &Combiner{Material1: a, Material2: b, Operation: CombineMultiply}, "B", ""},
		{"fallback to first", &Combiner{Material1: a, Material2: cube("X"), Operation: CombineAdd}, "A", ""},
		{"env map second", &Combiner{Material1: a, Material2: env, Operation: CombineMultiply}, "A", "A"},
		{"env map first", &Combiner{Material1: env, Material2: b, Operation: CombineAdd}, "B", "B"},
		{"only first", &Combiner{Material1: a, Operation: CombineSubtract}, "A", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := Resolver{}.Resolve(tt.c)
			if nameOf(ch.Diffuse) != tt.diffuse || nameOf(ch.Specular) != tt.specular {
				t.Errorf("diffuse = %q specular = %q, want %q %q",
					nameOf(ch.Diffuse), nameOf(ch.Specular), tt.diffuse, tt.specular)
			}
			if tt.specular != "" && !ch.SpecularFromAlpha {
				t.Error("env map specular must read alpha")
			}
		})
	}
}

func TestResolveUnreal3(t *testing.T) {
	m := &Unreal3Material{Textures: []Texture{tex("A_d"), tex("B_N"), tex("C_m"), tex("D_d"), nil}}
	ch := Resolver{}.Resolve(m)
	checkSlots(t, ch, slotWant{SlotDiffuse: "A_d", SlotNormal: "B_N", SlotMask: "C_m"})
	if ch.SpecularMaskChannel != ChannelG {
		t.Errorf("specular mask channel = %s, want g", ch.SpecularMaskChannel)
	}
}

func TestResolveSCX(t *testing.T) {
	tests := map[SpecularSource]TextureChannel{
		SpecSourceNone:        ChannelNone,
		SpecSourceRed:         ChannelR,
		SpecSourceGreen:       ChannelG,
		SpecSourceBlue:        ChannelB,
		SpecSourceNormalAlpha: ChannelInvAlpha,
	}
	for src, want := range tests {
		m := &SCXBasicMaterial{Base: tex("B"), Normal: tex("N"), SpecularMask: tex("S"), Environment: cube("E"), SpecularSource: src}
		ch := Resolver{}.Resolve(m)
		checkSlots(t, ch, slotWant{SlotDiffuse: "B", SlotNormal: "N", SlotMask: "S", SlotCube: "E"})
		if ch.SpecularMaskChannel != want {
			t.Errorf("source %d: channel = %s, want %s", src, ch.SpecularMaskChannel, want)
		}
	}
}

func TestResolve_CyclesTerminate(t *testing.T) {
	m := &Modifier{}
	m.Material = m
	if ch := (Resolver{}).Resolve(m); !ch.IsNull() {
		t.Errorf("cycle resolved to %+v", ch)
	}
	if ch := (Resolver{}).Resolve(nil); !ch.IsNull() {
		t.Error("nil material must resolve to null channels")
	}
}

func TestChannels_Helpers(t *testing.T) {
	d := tex("D")
	ch := Channels{Diffuse: d}
	if !ch.DiffuseOnly() {
		t.Error("diffuse-only not detected")
	}
	ch.Specular = d
	if ch.DiffuseOnly() {
		t.Error("diffuse+specular reported as diffuse-only")
	}
	if got := ch.Textures(); len(got) != 1 {
		t.Errorf("Textures() = %d entries, want 1 distinct", len(got))
	}
}

func TestParseProfile(t *testing.T) {
	for _, p := range Profiles() {
		got, err := ParseProfile(p.String())
		if err != nil || got != p {
			t.Errorf("ParseProfile(%q) = %v, %v", p.String(), got, err)
		}
	}
	if p, err := ParseProfile(" Tron "); err != nil || p != ProfileTron {
		t.Errorf("case folding: %v, %v", p, err)
	}
	if _, err := ParseProfile("quake"); err == nil {
		t.Error("expected error for unknown profile")
	}
}
