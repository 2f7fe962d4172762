package material

import "strings"

type matchKind uint8

const (
	matchContains matchKind = iota
	matchSuffix
	matchPrefix
	matchEqual
	// matchFirst matches the first entry of a list regardless of its name.
	matchFirst
)

// rule assigns a slot to a named entry with a confidence weight.
type rule struct {
	slot    Slot
	kind    matchKind
	pattern string
	// unless vetoes a contains match when it also occurs in the name.
	unless string
	weight int
	// maskedOnly rules apply only to materials with IsMasked set.
	maskedOnly bool
}

// matches reports whether the rule accepts an entry. name must already be
// lower case; patterns are folded here.
func (r *rule) matches(name string, index int, masked bool) bool {
	if r.maskedOnly && !masked {
		return false
	}
	p := strings.ToLower(r.pattern)
	var ok bool
	switch r.kind {
	case matchContains:
		ok = strings.Contains(name, p)
	case matchSuffix:
		ok = strings.HasSuffix(name, p)
	case matchPrefix:
		ok = strings.HasPrefix(name, p)
	case matchEqual:
		ok = name == p
	case matchFirst:
		ok = index == 0
	}
	if ok && r.unless != "" && strings.Contains(name, strings.ToLower(r.unless)) {
		return false
	}
	return ok
}

func contains(s Slot, pattern string, weight int) rule {
	return rule{slot: s, kind: matchContains, pattern: pattern, weight: weight}
}

func suffix(s Slot, pattern string, weight int) rule {
	return rule{slot: s, kind: matchSuffix, pattern: pattern, weight: weight}
}

func prefix(s Slot, pattern string, weight int) rule {
	return rule{slot: s, kind: matchPrefix, pattern: pattern, weight: weight}
}

func equal(s Slot, pattern string, weight int) rule {
	return rule{slot: s, kind: matchEqual, pattern: pattern, weight: weight}
}

// material3Skip lists substrings that exclude a referenced texture from
// classification altogether.
var material3Skip = []string{"noise"}

// material3Rules classify the referenced textures of a Material3 by name.
var material3Rules = []rule{
	contains(SlotDiffuse, "diff", 100),
	contains(SlotNormal, "norm", 100),
	suffix(SlotDiffuse, "_Tex", 80),
	contains(SlotDiffuse, "_Tex", 60),
	suffix(SlotDiffuse, "_D", 20),
	contains(SlotOpacity, "_OM", 20),
	contains(SlotDiffuse, "_DI", 20),
	contains(SlotDiffuse, "_D", 11),
	suffix(SlotDiffuse, "_C", 10),
	suffix(SlotDiffuse, "_CM", 12),
	suffix(SlotNormal, "_N", 20),
	suffix(SlotNormal, "_NM", 20),
	contains(SlotNormal, "_N", 9),
	suffix(SlotSpecular, "_S", 20),
	contains(SlotSpecular, "_S_", 15),
	suffix(SlotSpecularPower, "_SP", 20),
	suffix(SlotSpecularPower, "_SM", 20),
	contains(SlotSpecularPower, "_SP", 9),
	suffix(SlotEmissive, "_E", 20),
	suffix(SlotEmissive, "_EM", 21),
	suffix(SlotOpacity, "_A", 20),
	{slot: SlotOpacity, kind: matchSuffix, pattern: "_Mask", weight: 2, maskedOnly: true},
	prefix(SlotDiffuse, "df_", 20),
	prefix(SlotSpecular, "sp_", 20),
	prefix(SlotNormal, "no_", 20),
	contains(SlotNormal, "Norm", 80),
	contains(SlotEmissive, "Emis", 80),
	contains(SlotSpecular, "Specular", 80),
	contains(SlotOpacity, "Opac", 80),
	// Lowest weight: any first texture is better than no diffuse.
	{slot: SlotDiffuse, kind: matchFirst, weight: 1},
}

// instanceRules classify material instance texture parameters by
// parameter name.
var instanceRules = []rule{
	contains(SlotDiffuse, "dif", 100),
	contains(SlotDiffuse, "color", 80),
	{slot: SlotNormal, kind: matchContains, pattern: "norm", unless: "fx", weight: 100},
	contains(SlotSpecularPower, "specpow", 100),
	contains(SlotSpecular, "spec", 100),
	contains(SlotEmissive, "emiss", 100),
	contains(SlotCube, "cube", 100),
	contains(SlotCube, "refl", 90),
	contains(SlotOpacity, "opac", 90),
	{slot: SlotOpacity, kind: matchContains, pattern: "trans", unless: "transmission", weight: 80},
}

// vectorRules pick the emissive color from vector parameters.
var vectorRules = []rule{
	contains(SlotEmissiveColor, "Emissive", 100),
}

// unreal3Rules tag Unreal3Material textures by suffix. Equal weights mean
// the first texture with a given suffix keeps the slot.
var unreal3Rules = []rule{
	suffix(SlotDiffuse, "_d", 1),
	suffix(SlotNormal, "_n", 1),
	suffix(SlotMask, "_m", 1),
}

// maskLayout describes how a profile packs several inputs into the
// components of one Mask texture.
type maskLayout struct {
	// dropWhenFull clears Mask when SpecularPower and Emissive already
	// have dedicated textures; the mask then means something else.
	dropWhenFull bool

	emissive  TextureChannel
	specular  TextureChannel
	specPower TextureChannel
	cubeMask  TextureChannel
}

// ruleSet is the per-profile extension of the generic tables.
type ruleSet struct {
	material3 []rule
	instance  []rule
	vector    []rule
	mask      *maskLayout
}

var profileRules = map[Profile]ruleSet{
	ProfileBulletstorm: {
		material3: []rule{
			contains(SlotDiffuse, "_C", 12),
			contains(SlotNormal, "_TS", 5),
			contains(SlotSpecular, "_S", 5),
		},
	},
	ProfileTron: {
		instance: []rule{
			contains(SlotSpecularPower, "SPPW", 100),
			contains(SlotEmissive, "Emss", 100),
			contains(SlotMask, "Mask", 100),
		},
		vector: []rule{
			contains(SlotEmissiveColor, "PipingColour", 90),
		},
		mask: &maskLayout{
			dropWhenFull: true,
			emissive:     ChannelInvAlpha,
			specular:     ChannelG,
			specPower:    ChannelB,
			cubeMask:     ChannelR,
		},
	},
	ProfileBatman2: {
		instance: []rule{
			equal(SlotMask, "Material_Attributes", 100),
			contains(SlotEmissive, "Reflection_Mask", 100),
		},
		// Blue holds a skin mask, unused here.
		mask: &maskLayout{specular: ChannelR, specPower: ChannelG},
	},
	ProfileBladeNSoul: {
		instance: []rule{
			equal(SlotMask, "Body_mask_RGB", 100),
		},
		mask: &maskLayout{cubeMask: ChannelB, specPower: ChannelG},
	},
	ProfileDishonored: {
		instance: []rule{
			contains(SlotCube, "cubemap_tex", 100),
			contains(SlotEmissive, "cubemap_mask", 100),
		},
	},
}

func (l *maskLayout) apply(ch *Channels) {
	if l.dropWhenFull && ch.Mask != nil && ch.SpecularPower != nil && ch.Emissive != nil {
		ch.Mask = nil
	}
	if ch.Mask == nil {
		return
	}
	set := func(dst *TextureChannel, c TextureChannel) {
		if c != ChannelNone {
			*dst = c
		}
	}
	set(&ch.EmissiveChannel, l.emissive)
	set(&ch.SpecularMaskChannel, l.specular)
	set(&ch.SpecularPowerChannel, l.specPower)
	set(&ch.CubemapMaskChannel, l.cubeMask)
}

// scoreboard tracks the winning weight per slot during one classification
// pass and whether a profile rule placed it.
type scoreboard struct {
	weight  [numSlots]int
	profile [numSlots]bool
}

// offer records a candidate and reports whether it takes the slot. A
// candidate wins with a strictly greater weight; a profile candidate also
// takes over a generic holder of equal weight.
func (sb *scoreboard) offer(s Slot, weight int, fromProfile bool) bool {
	cur := sb.weight[s]
	if weight > cur || (fromProfile && weight == cur && !sb.profile[s]) {
		sb.weight[s] = weight
		sb.profile[s] = fromProfile
		return true
	}
	return false
}

// classify runs the generic table and then the profile table against one
// entry, calling assign for every slot the entry takes.
func (sb *scoreboard) classify(name string, index int, masked bool, generic, extra []rule, assign func(Slot)) {
	name = strings.ToLower(name)
	for i := range generic {
		r := &generic[i]
		if r.matches(name, index, masked) && sb.offer(r.slot, r.weight, false) {
			assign(r.slot)
		}
	}
	for i := range extra {
		r := &extra[i]
		if r.matches(name, index, masked) && sb.offer(r.slot, r.weight, true) {
			assign(r.slot)
		}
	}
}

func skipped(name string, patterns []string) bool {
	name = strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
