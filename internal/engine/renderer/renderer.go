// Package renderer draws the preview meshes of the material viewer. The
// material binder owns programs and textures; the renderer owns geometry
// and per-frame state.
package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/logger"
)

// Renderer holds the GPU buffers of every preview shape.
type Renderer struct {
	meshes [shapeCount]gpuMesh
	width  int
	height int
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// New uploads the preview meshes. The GL context must be current.
func New(width, height int) *Renderer {
	r := &Renderer{}
	r.Recreate()
	r.Resize(width, height)
	return r
}

// Recreate uploads the meshes again, e.g. after the context was recreated
// and every buffer died with it.
func (r *Renderer) Recreate() {
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	for s := Shape(0); s < shapeCount; s++ {
		r.meshes[s] = upload(s.Build())
	}
	if r.width > 0 {
		gl.Viewport(0, 0, int32(r.width), int32(r.height))
	}
}

func upload(m Mesh) gpuMesh {
	var g gpuMesh
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)
	// Tangent
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, int32(vertexSize), 8*4)
	gl.EnableVertexAttribArray(3)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	g.indexCount = int32(len(m.Indices))
	gl.BindVertexArray(0)

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", g.vao),
		zap.Int("vertices", len(m.Vertices)),
	)
	return g
}

// Close deletes the mesh buffers.
func (r *Renderer) Close() {
	for i := range r.meshes {
		m := &r.meshes[i]
		if m.vao == 0 {
			continue
		}
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		*m = gpuMesh{}
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Begin clears the frame. Materials may have left depth writes off, which
// would also mask the depth clear.
func (r *Renderer) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw draws shape with whatever program and textures are bound.
func (r *Renderer) Draw(shape Shape) {
	m := &r.meshes[shape]
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}
