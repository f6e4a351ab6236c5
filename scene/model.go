package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/materials"
)

// SubMesh is a geometry partition drawn with one material and primitive type.
type SubMesh struct {
	Name      string
	Mesh      *core.Mesh
	Material  *materials.Material
	Primitive gpu.Primitive
}

// Model is immutable geometry split into ordered sub-meshes.
type Model struct {
	Name      string
	SubMeshes []*SubMesh
}

func NewModel(name string, subMeshes ...*SubMesh) *Model {
	return &Model{Name: name, SubMeshes: subMeshes}
}

// SubMesh returns the sub-mesh called name, or nil.
func (m *Model) SubMesh(name string) *SubMesh {
	for _, s := range m.SubMeshes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Bounds returns the model-space AABB over every sub-mesh.
func (m *Model) Bounds() (lo, hi mgl32.Vec3) {
	first := true
	for _, s := range m.SubMeshes {
		if s.Mesh == nil || len(s.Mesh.Vertices) == 0 {
			continue
		}
		smin, smax := s.Mesh.Bounds()
		if first {
			lo, hi, first = smin, smax, false
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], smin[i])
			hi[i] = max(hi[i], smax[i])
		}
	}
	return lo, hi
}

// BoundingSphere returns a model-space sphere enclosing every vertex,
// centred on the AABB centre.
func (m *Model) BoundingSphere() (center mgl32.Vec3, radius float32) {
	lo, hi := m.Bounds()
	center = lo.Add(hi).Mul(0.5)
	var r2 float32
	for _, s := range m.SubMeshes {
		if s.Mesh == nil {
			continue
		}
		for _, v := range s.Mesh.Vertices {
			d := v.Position.Sub(center)
			r2 = max(r2, d.Dot(d))
		}
	}
	return center, float32(math.Sqrt(float64(r2)))
}

// Release frees the GPU buffers of every sub-mesh on dev.
func (m *Model) Release(dev gpu.Device) {
	for _, s := range m.SubMeshes {
		if s.Mesh != nil {
			dev.ReleaseMesh(s.Mesh)
		}
	}
}
