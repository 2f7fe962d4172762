package library

import (
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/texbind/pkg/material"
)

// IssueLevel represents the severity of a validation issue.
type IssueLevel string

const (
	// IssueError marks an object that cannot be drawn as declared.
	IssueError IssueLevel = "error"
	// IssueWarning marks a suspicious but usable object.
	IssueWarning IssueLevel = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Level   IssueLevel `yaml:"level"`
	Message string     `yaml:"message"`
	Object  string     `yaml:"object,omitempty"`
}

func (i Issue) String() string {
	if i.Object == "" {
		return fmt.Sprintf("%s: %s", i.Level, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Level, i.Object, i.Message)
}

// Validate checks that texture files exist and decode, that cubes are
// complete, and reports textures no material refers to.
func (l *Library) Validate() []Issue {
	var out []Issue

	for _, name := range l.TextureNames() {
		t := l.textures[name]
		src, ok := t.Source.(*fileSource)
		if !ok {
			continue
		}
		if _, err := os.Stat(src.path); err != nil {
			out = append(out, Issue{Level: IssueError, Message: "missing file " + src.path, Object: name})
			continue
		}
		if _, err := src.TextureData(); err != nil {
			out = append(out, Issue{Level: IssueError, Message: err.Error(), Object: name})
		}
	}

	cubes := make([]string, 0, len(l.cubes))
	for n := range l.cubes {
		cubes = append(cubes, n)
	}
	sort.Strings(cubes)
	for _, name := range cubes {
		if !l.cubes[name].Complete() {
			out = append(out, Issue{Level: IssueWarning, Message: "incomplete cubemap", Object: name})
		}
	}

	used := l.usedTextures()
	for _, name := range l.TextureNames() {
		if !used[l.textures[name]] {
			out = append(out, Issue{Level: IssueWarning, Message: "texture not used by any material", Object: name})
		}
	}
	return out
}

// usedTextures collects every texture reachable from the materials, using
// the resolver's own view of each material.
func (l *Library) usedTextures() map[material.Texture]bool {
	used := make(map[material.Texture]bool)
	mark := func(t material.Texture) {
		used[t] = true
		if c, ok := t.(*material.TextureCube); ok {
			for _, f := range c.Faces {
				if f != nil {
					used[f] = true
				}
			}
		}
	}

	r := material.Resolver{Profile: l.Profile}
	for _, name := range l.names {
		m := l.materials[name]
		ch := r.Resolve(m)
		for _, t := range ch.Textures() {
			mark(t)
		}
		for _, t := range referenced(m) {
			mark(t)
		}
	}
	return used
}

// referenced returns the textures a material lists directly, including
// those the resolver leaves out.
func referenced(m material.Material) []material.Texture {
	switch m := m.(type) {
	case *material.Material3:
		return append(mobileTextures(&m.MobileParams), m.Textures...)
	case *material.MaterialInstance:
		out := mobileTextures(&m.MobileParams)
		for _, p := range m.TextureParams {
			out = append(out, p.Texture)
		}
		return out
	case *material.Unreal3Material:
		return m.Textures
	case *material.SCXBasicMaterial:
		return []material.Texture{m.Base, m.Normal, m.SpecularMask, m.Environment}
	}
	return nil
}

func mobileTextures(p *material.MobileParams) []material.Texture {
	return []material.Texture{p.FlattenedTexture, p.MobileBaseTexture, p.MobileNormalTexture, p.MobileMaskTexture}
}
