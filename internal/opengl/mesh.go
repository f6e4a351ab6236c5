package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"

	"gdx-render/core"
	"gdx-render/gpu"
)

// Attribute locations bound before every program link.
const (
	attribPosition = iota
	attribNormal
	attribTexCoord
	attribColor
)

var attribNames = [...]string{
	attribPosition: "a_position",
	attribNormal:   "a_normal",
	attribTexCoord: "a_texCoord0",
	attribColor:    "a_color",
}

// gpuMesh holds the buffer objects for an uploaded mesh.
type gpuMesh struct {
	vbo         uint32
	ibo         uint32
	vertexCount int32
	indexCount  int32
}

// DrawMesh draws mesh with the attribute layout of core.Vertex. The program
// must already be bound.
func (d *Device) DrawMesh(mesh *core.Mesh, p gpu.Program, prim gpu.Primitive) {
	m := d.ensureUploaded(mesh)
	if m == nil {
		return
	}

	var v core.Vertex
	stride := int32(unsafe.Sizeof(v))
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	enableAttrib(attribPosition, 3, stride, unsafe.Offsetof(v.Position))
	enableAttrib(attribNormal, 3, stride, unsafe.Offsetof(v.Normal))
	enableAttrib(attribTexCoord, 2, stride, unsafe.Offsetof(v.UV))
	enableAttrib(attribColor, 4, stride, unsafe.Offsetof(v.Color))

	if m.indexCount > 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
		gl.DrawElements(glPrimitive(prim), m.indexCount, gl.UNSIGNED_INT, nil)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	} else {
		gl.DrawArrays(glPrimitive(prim), 0, m.vertexCount)
	}

	for i := range attribNames {
		gl.DisableVertexAttribArray(uint32(i))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func enableAttrib(loc uint32, size, stride int32, offset uintptr) {
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, stride, gl.PtrOffset(int(offset)))
}

// ReleaseMesh frees the GPU buffers of mesh. The mesh is re-uploaded if drawn again.
func (d *Device) ReleaseMesh(mesh *core.Mesh) {
	m, ok := d.meshes[mesh]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	if m.ibo != 0 {
		gl.DeleteBuffers(1, &m.ibo)
	}
	delete(d.meshes, mesh)
}

// ensureUploaded uploads vertex/index data on first use and re-uploads the
// vertices of dirty meshes.
func (d *Device) ensureUploaded(mesh *core.Mesh) *gpuMesh {
	if len(mesh.Vertices) == 0 {
		return nil
	}
	stride := int(unsafe.Sizeof(core.Vertex{}))

	if m, ok := d.meshes[mesh]; ok {
		if mesh.Dirty {
			gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
			if int32(len(mesh.Vertices)) == m.vertexCount {
				gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices))
			} else {
				gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices), gl.DYNAMIC_DRAW)
				m.vertexCount = int32(len(mesh.Vertices))
			}
			gl.BindBuffer(gl.ARRAY_BUFFER, 0)
			mesh.Dirty = false
		}
		return m
	}

	m := &gpuMesh{
		vertexCount: int32(len(mesh.Vertices)),
		indexCount:  int32(len(mesh.Indices)),
	}
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if m.indexCount > 0 {
		gl.GenBuffers(1, &m.ibo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	}

	mesh.Dirty = false
	d.meshes[mesh] = m
	return m
}
