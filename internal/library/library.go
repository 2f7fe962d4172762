// Package library loads material libraries: YAML documents declaring
// texture files, cubemaps and materials of every kind the resolver
// understands. Command-line tools use it to feed the resolver and the
// binder without a game archive.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/texbind/pkg/material"
	"github.com/Faultbox/texbind/pkg/texture"
)

// Material kinds accepted in the kind field.
const (
	KindMaterial3  = "material3"
	KindInstance   = "instance"
	KindShader     = "shader"
	KindModifier   = "modifier"
	KindFinalBlend = "final_blend"
	KindCombiner   = "combiner"
	KindFacing     = "facing"
	KindUnreal3    = "unreal3"
	KindSCX        = "scx"
	KindPolyFlags  = "poly_flags"
)

type document struct {
	Profile   material.Profile `yaml:"profile"`
	Textures  []textureDef     `yaml:"textures"`
	Cubes     []cubeDef        `yaml:"cubes"`
	Materials []materialDef    `yaml:"materials"`
}

type textureDef struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	// Format marks a raw file holding one level; Width and Height are
	// then required.
	Format string `yaml:"format"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Mipmap       bool `yaml:"mipmap"`
	ClampU       bool `yaml:"clamp_u"`
	ClampV       bool `yaml:"clamp_v"`
	TwoSided     bool `yaml:"two_sided"`
	Masked       bool `yaml:"masked"`
	AlphaTexture bool `yaml:"alpha"`
}

type cubeDef struct {
	Name string `yaml:"name"`
	// Faces in +X, -X, +Y, -Y, +Z, -Z order.
	Faces []string `yaml:"faces"`
}

type paramDef struct {
	Name    string `yaml:"name"`
	Texture string `yaml:"texture"`
}

type vectorDef struct {
	Name  string     `yaml:"name"`
	Value [4]float32 `yaml:"value"`
}

type mobileDef struct {
	Flattened     string  `yaml:"flattened"`
	Base          string  `yaml:"base"`
	Normal        string  `yaml:"normal"`
	Mask          string  `yaml:"mask"`
	Specular      bool    `yaml:"specular"`
	SpecularPower float32 `yaml:"specular_power"`
	SpecularMask  string  `yaml:"specular_mask"`
}

// materialDef is the union of the fields of every material kind.
type materialDef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Textures         []string  `yaml:"textures"`
	TwoSided         bool      `yaml:"two_sided"`
	DisableDepthTest bool      `yaml:"disable_depth_test"`
	Masked           bool      `yaml:"masked"`
	ClipValue        float32   `yaml:"clip_value"`
	BlendMode        string    `yaml:"blend_mode"`
	Mobile           mobileDef `yaml:"mobile"`

	Parent        string      `yaml:"parent"`
	TextureParams []paramDef  `yaml:"texture_params"`
	VectorParams  []vectorDef `yaml:"vector_params"`

	Diffuse        string `yaml:"diffuse"`
	Normal         string `yaml:"normal"`
	Specular       string `yaml:"specular"`
	Opacity        string `yaml:"opacity"`
	Emissive       string `yaml:"emissive"`
	OutputBlending string `yaml:"output_blending"`

	Material            string   `yaml:"material"`
	EnvMap              bool     `yaml:"env_map"`
	FrameBufferBlending string   `yaml:"frame_buffer_blending"`
	AlphaTest           bool     `yaml:"alpha_test"`
	AlphaRef            uint8    `yaml:"alpha_ref"`
	Flags               []string `yaml:"flags"`

	Material1 string `yaml:"material1"`
	Material2 string `yaml:"material2"`
	Mask      string `yaml:"mask"`
	Operation string `yaml:"operation"`

	Base           string `yaml:"base"`
	SpecularMask   string `yaml:"specular_mask"`
	Environment    string `yaml:"environment"`
	SpecularSource string `yaml:"specular_source"`
}

// Library is a loaded material library. It is read-only after loading.
type Library struct {
	// Profile is the naming profile the document asks for, if any.
	Profile material.Profile

	textures  map[string]*material.Texture2D
	cubes     map[string]*material.TextureCube
	materials map[string]material.Material
	names     []string
	wraps     *material.WrapRegistry
	dir       string
}

// Load reads a library file. Relative texture paths are resolved against
// the file's directory.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library: %w", err)
	}
	lib, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse builds a library from a YAML document. dir is the base directory
// of relative texture paths.
func Parse(data []byte, dir string) (*Library, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing library: %w", err)
	}

	l := &Library{
		Profile:   doc.Profile,
		textures:  make(map[string]*material.Texture2D),
		cubes:     make(map[string]*material.TextureCube),
		materials: make(map[string]material.Material),
		wraps:     material.NewWrapRegistry(),
		dir:       dir,
	}
	if err := l.addTextures(doc.Textures); err != nil {
		return nil, err
	}
	if err := l.addCubes(doc.Cubes); err != nil {
		return nil, err
	}
	if err := l.addMaterials(doc.Materials); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Library) taken(name string) bool {
	if _, ok := l.textures[name]; ok {
		return true
	}
	if _, ok := l.cubes[name]; ok {
		return true
	}
	_, ok := l.materials[name]
	return ok
}

func (l *Library) claim(name, what string) error {
	if name == "" {
		return fmt.Errorf("%w: %s without a name", ErrInvalidValue, what)
	}
	if l.taken(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

func (l *Library) path(file string) string {
	if filepath.IsAbs(file) || l.dir == "" {
		return file
	}
	return filepath.Join(l.dir, file)
}

func (l *Library) addTextures(defs []textureDef) error {
	for _, d := range defs {
		if err := l.claim(d.Name, "texture"); err != nil {
			return err
		}
		if d.File == "" {
			return fmt.Errorf("%w: texture %q has no file", ErrInvalidValue, d.Name)
		}

		src := &fileSource{path: l.path(d.File)}
		format := texture.FormatRGBA8
		if d.Format != "" {
			f, err := texture.ParseFormat(d.Format)
			if err != nil {
				return fmt.Errorf("texture %q: %w", d.Name, err)
			}
			if d.Width < 1 || d.Height < 1 {
				return fmt.Errorf("%w: raw texture %q needs width and height", ErrInvalidValue, d.Name)
			}
			format = f
			src.raw, src.format, src.width, src.height = true, f, d.Width, d.Height
		}

		l.textures[d.Name] = &material.Texture2D{
			Object:       material.Object{Name: d.Name},
			Source:       src,
			Format:       format,
			Mipmapped:    d.Mipmap,
			ClampU:       d.ClampU,
			ClampV:       d.ClampV,
			TwoSided:     d.TwoSided,
			Masked:       d.Masked,
			AlphaTexture: d.AlphaTexture,
		}
	}
	return nil
}

func (l *Library) addCubes(defs []cubeDef) error {
	for _, d := range defs {
		if err := l.claim(d.Name, "cube"); err != nil {
			return err
		}
		if len(d.Faces) > material.NumCubeFaces {
			return fmt.Errorf("%w: cube %q has %d faces", ErrInvalidValue, d.Name, len(d.Faces))
		}
		c := &material.TextureCube{Object: material.Object{Name: d.Name}}
		for i, face := range d.Faces {
			if face == "" {
				continue
			}
			t, ok := l.textures[face]
			if !ok {
				return fmt.Errorf("cube %q: %w %q", d.Name, ErrUnknownTexture, face)
			}
			c.Faces[i] = t
		}
		l.cubes[d.Name] = c
	}
	return nil
}

// addMaterials creates every material first so references may point
// forward, then fills in the fields.
func (l *Library) addMaterials(defs []materialDef) error {
	created := make([]material.Material, len(defs))
	for i, d := range defs {
		if d.Kind == KindPolyFlags {
			continue
		}
		if err := l.claim(d.Name, "material"); err != nil {
			return err
		}
		m, err := newMaterial(d)
		if err != nil {
			return err
		}
		created[i] = m
		l.materials[d.Name] = m
	}

	// Wrappers need their inner material to exist.
	for _, d := range defs {
		if d.Kind != KindPolyFlags {
			continue
		}
		if err := l.claim(d.Name, "material"); err != nil {
			return err
		}
		inner, err := l.material(d.Material)
		if err != nil {
			return fmt.Errorf("material %q: %w", d.Name, err)
		}
		flags, err := parsePolyFlags(d.Flags)
		if err != nil {
			return fmt.Errorf("material %q: %w", d.Name, err)
		}
		l.materials[d.Name] = l.wraps.Wrap(inner, flags)
	}

	for i, d := range defs {
		l.names = append(l.names, d.Name)
		if created[i] == nil {
			continue
		}
		if err := l.fill(created[i], d); err != nil {
			return fmt.Errorf("material %q: %w", d.Name, err)
		}
	}
	return nil
}

func newMaterial(d materialDef) (material.Material, error) {
	obj := material.Object{Name: d.Name}
	switch d.Kind {
	case KindMaterial3:
		return &material.Material3{Object: obj}, nil
	case KindInstance:
		return &material.MaterialInstance{Object: obj}, nil
	case KindShader:
		return &material.Shader{Object: obj}, nil
	case KindModifier:
		return &material.Modifier{Object: obj}, nil
	case KindFinalBlend:
		return &material.FinalBlend{Object: obj}, nil
	case KindCombiner:
		return &material.Combiner{Object: obj}, nil
	case KindFacing:
		return &material.FacingShader{Object: obj}, nil
	case KindUnreal3:
		return &material.Unreal3Material{Object: obj}, nil
	case KindSCX:
		return &material.SCXBasicMaterial{Object: obj}, nil
	}
	return nil, fmt.Errorf("%w: %q (material %q)", ErrInvalidKind, d.Kind, d.Name)
}

// refs resolves a list of references in order, failing on the first
// unknown one.
type refs struct {
	l   *Library
	err error
}

func (r *refs) material(name string) material.Material {
	if r.err != nil {
		return nil
	}
	m, err := r.l.material(name)
	r.err = err
	return m
}

func (r *refs) texture(name string) material.Texture {
	if r.err != nil {
		return nil
	}
	t, err := r.l.texture(name)
	r.err = err
	return t
}

func (l *Library) fill(m material.Material, d materialDef) error {
	r := &refs{l: l}
	var err error

	switch m := m.(type) {
	case *material.Material3:
		for _, name := range d.Textures {
			m.Textures = append(m.Textures, r.texture(name))
		}
		m.TwoSided = d.TwoSided
		m.DisableDepthTest = d.DisableDepthTest
		m.IsMasked = d.Masked
		m.OpacityMaskClipValue = d.ClipValue
		m.BlendMode, err = lookup(blendModes, "blend mode", d.BlendMode)
		if err == nil {
			err = l.fillMobile(r, &m.MobileParams, d.Mobile)
		}

	case *material.MaterialInstance:
		m.Parent = r.material(d.Parent)
		for _, p := range d.TextureParams {
			m.TextureParams = append(m.TextureParams, material.TextureParam{Name: p.Name, Texture: r.texture(p.Texture)})
		}
		for _, v := range d.VectorParams {
			m.VectorParams = append(m.VectorParams, material.VectorParam{
				Name:  v.Name,
				Value: material.Color{R: v.Value[0], G: v.Value[1], B: v.Value[2], A: v.Value[3]},
			})
		}
		err = l.fillMobile(r, &m.MobileParams, d.Mobile)

	case *material.Shader:
		m.Diffuse = r.material(d.Diffuse)
		m.NormalMap = r.material(d.Normal)
		m.SpecularityMask = r.material(d.Specular)
		m.Opacity = r.material(d.Opacity)
		m.TwoSided = d.TwoSided
		m.OutputBlending, err = lookup(outputBlendings, "output blending", d.OutputBlending)

	case *material.Modifier:
		m.Material = r.material(d.Material)
		m.EnvMap = d.EnvMap

	case *material.FinalBlend:
		m.Material = r.material(d.Material)
		m.TwoSided = d.TwoSided
		m.AlphaTest = d.AlphaTest
		m.AlphaRef = d.AlphaRef
		m.FrameBufferBlending, err = lookup(frameBufferBlendings, "frame buffer blending", d.FrameBufferBlending)

	case *material.Combiner:
		m.Material1 = r.material(d.Material1)
		m.Material2 = r.material(d.Material2)
		m.Mask = r.material(d.Mask)
		m.Operation, err = lookup(combineOps, "operation", d.Operation)

	case *material.FacingShader:
		m.FacingDiffuse = r.material(d.Diffuse)
		m.NormalMap = r.material(d.Normal)
		m.FacingSpecularColorMap = r.material(d.Specular)
		m.FacingEmissive = r.material(d.Emissive)
		m.TwoSided = d.TwoSided
		m.OutputBlending, err = lookup(frameBufferBlendings, "output blending", d.OutputBlending)

	case *material.Unreal3Material:
		for _, name := range d.Textures {
			m.Textures = append(m.Textures, r.texture(name))
		}
		m.DoubleSided = d.TwoSided
		m.BlendingMode, err = lookup(unreal3Blendings, "blend mode", d.BlendMode)

	case *material.SCXBasicMaterial:
		m.Base = r.texture(d.Base)
		m.Normal = r.texture(d.Normal)
		m.SpecularMask = r.texture(d.SpecularMask)
		m.Environment = r.texture(d.Environment)
		m.SpecularSource, err = lookup(specularSources, "specular source", d.SpecularSource)
	}

	if r.err != nil {
		return r.err
	}
	return err
}

func (l *Library) fillMobile(r *refs, p *material.MobileParams, d mobileDef) error {
	p.FlattenedTexture = r.texture(d.Flattened)
	p.MobileBaseTexture = r.texture(d.Base)
	p.MobileNormalTexture = r.texture(d.Normal)
	p.MobileMaskTexture = r.texture(d.Mask)
	p.UseMobileSpecular = d.Specular
	p.MobileSpecularPower = d.SpecularPower
	var err error
	p.MobileSpecularMask, err = lookup(mobileSpecularMasks, "mobile specular mask", d.SpecularMask)
	return err
}

// material looks a reference up among materials, cubes and textures. An
// empty reference is a nil material.
func (l *Library) material(name string) (material.Material, error) {
	if name == "" {
		return nil, nil
	}
	if m, ok := l.materials[name]; ok {
		return m, nil
	}
	if c, ok := l.cubes[name]; ok {
		return c, nil
	}
	if t, ok := l.textures[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMaterial, name)
}

// texture looks a reference up among textures and cubes.
func (l *Library) texture(name string) (material.Texture, error) {
	if name == "" {
		return nil, nil
	}
	if t, ok := l.textures[name]; ok {
		return t, nil
	}
	if c, ok := l.cubes[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTexture, name)
}

// Material returns the named material. Textures and cubes are materials
// too and may be looked up the same way.
func (l *Library) Material(name string) (material.Material, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownMaterial)
	}
	return l.material(name)
}

// Texture returns the named texture or cube.
func (l *Library) Texture(name string) (material.Texture, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTexture)
	}
	return l.texture(name)
}

// Names returns material names in definition order.
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

// TextureNames returns the sorted names of all 2D textures.
func (l *Library) TextureNames() []string {
	names := make([]string, 0, len(l.textures))
	for n := range l.textures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Wraps returns the wrapper registry behind the library's poly_flags
// materials, for renderers that apply flags of their own.
func (l *Library) Wraps() *material.WrapRegistry { return l.wraps }

// Wrap applies surface flags to m, sharing wrappers with the library's own
// poly_flags materials.
func (l *Library) Wrap(m material.Material, flags material.PolyFlags) material.Material {
	return l.wraps.Wrap(m, flags)
}

// ProfileFor returns configured unless it is the generic profile, in which
// case the library's own profile wins.
func (l *Library) ProfileFor(configured material.Profile) material.Profile {
	if configured != material.ProfileGeneric {
		return configured
	}
	return l.Profile
}
