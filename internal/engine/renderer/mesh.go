package renderer

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved vertex layout of the material programs:
// position, normal, texture coordinate and tangent at locations 0 to 3.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Tangent  [3]float32
}

// Mesh is indexed triangle geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Shape selects a preview mesh.
type Shape int

// Preview shapes.
const (
	ShapeCube Shape = iota
	ShapeQuad
	shapeCount
)

func (s Shape) String() string {
	if s == ShapeQuad {
		return "quad"
	}
	return "cube"
}

// Next cycles to the following shape.
func (s Shape) Next() Shape {
	return (s + 1) % shapeCount
}

// Build returns the geometry of s.
func (s Shape) Build() Mesh {
	if s == ShapeQuad {
		return Quad()
	}
	return Cube()
}

// face is a unit square facing normal, with the texture u axis along u.
type face struct {
	normal mgl32.Vec3
	u      mgl32.Vec3
}

var cubeFaces = []face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}},
}

// Cube returns a unit cube centered at the origin with one texture per
// face. Triangles wind counter-clockwise seen from outside.
func Cube() Mesh {
	var m Mesh
	for _, f := range cubeFaces {
		m.addFace(f)
	}
	return m
}

// Quad returns a unit square in the XY plane facing +Z.
func Quad() Mesh {
	var m Mesh
	m.addFace(face{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}})
	for i := range m.Vertices {
		m.Vertices[i].Position[2] = 0
	}
	return m
}

func (m *Mesh) addFace(f face) {
	v := f.normal.Cross(f.u)
	center := f.normal.Mul(0.5)
	base := uint32(len(m.Vertices))

	for _, st := range [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		p := center.Add(f.u.Mul(st[0] - 0.5)).Add(v.Mul(st[1] - 0.5))
		m.Vertices = append(m.Vertices, Vertex{
			Position: p,
			Normal:   f.normal,
			// Images are stored top row first.
			TexCoord: [2]float32{st[0], 1 - st[1]},
			Tangent:  f.u,
		})
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}
