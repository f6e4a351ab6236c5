package core

import "github.com/go-gl/mathgl/mgl32"

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
	ColorClear  = Color{0, 0, 0, 0}
)

// Vec4 returns the colour as an RGBA vector.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Vertex is the interleaved layout uploaded to the GPU. Field order is part of
// the contract with the OpenGL backend, which reads offsets with unsafe.Offsetof.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Color    Color
}

// Mesh holds CPU-side vertex/index data.
// GPU buffers are owned by the device that first draws the mesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	// Dirty is set whenever Vertices change after the first upload.
	// The device re-uploads and clears it on the next draw.
	Dirty bool
}

func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// Bounds returns the model-space AABB of the mesh.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}
