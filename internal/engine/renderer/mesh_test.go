package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMeshes(t *testing.T) {
	tests := []struct {
		shape    Shape
		vertices int
		indices  int
	}{
		{ShapeCube, 24, 36},
		{ShapeQuad, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			m := tt.shape.Build()
			if len(m.Vertices) != tt.vertices {
				t.Errorf("vertices = %d, want %d", len(m.Vertices), tt.vertices)
			}
			if len(m.Indices) != tt.indices {
				t.Fatalf("indices = %d, want %d", len(m.Indices), tt.indices)
			}

			for i, v := range m.Vertices {
				n, tan := mgl32.Vec3(v.Normal), mgl32.Vec3(v.Tangent)
				if !mgl32.FloatEqual(n.Len(), 1) {
					t.Errorf("vertex %d: normal %v not unit", i, n)
				}
				if !mgl32.FloatEqual(n.Dot(tan), 0) {
					t.Errorf("vertex %d: tangent %v not orthogonal to %v", i, tan, n)
				}
				for _, c := range v.TexCoord {
					if c < 0 || c > 1 {
						t.Errorf("vertex %d: texcoord %v out of range", i, v.TexCoord)
					}
				}
			}

			for i := 0; i < len(m.Indices); i += 3 {
				a := mgl32.Vec3(m.Vertices[m.Indices[i]].Position)
				b := mgl32.Vec3(m.Vertices[m.Indices[i+1]].Position)
				c := mgl32.Vec3(m.Vertices[m.Indices[i+2]].Position)
				n := mgl32.Vec3(m.Vertices[m.Indices[i]].Normal)
				if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
					t.Errorf("triangle %d winds clockwise", i/3)
				}
			}
		})
	}
}

func TestCube_FacesOutward(t *testing.T) {
	for i, v := range Cube().Vertices {
		p, n := mgl32.Vec3(v.Position), mgl32.Vec3(v.Normal)
		if !mgl32.FloatEqual(p.Dot(n), 0.5) {
			t.Errorf("vertex %d at %v not on the face with normal %v", i, p, n)
		}
	}
}

func TestShape_Next(t *testing.T) {
	if ShapeCube.Next() != ShapeQuad || ShapeQuad.Next() != ShapeCube {
		t.Error("Next does not cycle cube and quad")
	}
}
