package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/gpu"
)

// Ray is a half-line with a unit Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenRay returns the world-space ray through window pixel x, y (origin at
// the top-left) of a width×height viewport.
func (c *Camera) ScreenRay(x, y, width, height float32) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	inv := c.combined.Inv()
	nearPt := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	farPt := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	from := nearPt.Vec3().Mul(1 / nearPt.W())
	to := farPt.Vec3().Mul(1 / farPt.W())
	return Ray{Origin: from, Direction: to.Sub(from).Normalize()}
}

// IntersectSphere returns the distance to the first hit with the sphere, or
// false when the ray misses or the sphere is behind the origin.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	return t, t >= 0
}

// IntersectTriangle is the Möller–Trumbore test.
func (r Ray) IntersectTriangle(v0, v1, v2 mgl32.Vec3) (float32, bool) {
	const epsilon = 1e-7
	edge1, edge2 := v1.Sub(v0), v2.Sub(v0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}
	f := 1 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * edge2.Dot(q)
	return t, t > epsilon
}

// Intersect returns the closest hit of r with model placed by i. The bounding
// sphere rejects early; triangles of indexed triangle-list sub-meshes decide
// the hit.
func (i *Instance) Intersect(r Ray, model *Model) (float32, *SubMesh, bool) {
	if _, ok := r.IntersectSphere(i.Center, i.Radius); !ok {
		return 0, nil, false
	}
	best := float32(math.MaxFloat32)
	var hit *SubMesh
	for _, sm := range model.SubMeshes {
		if sm.Mesh == nil || sm.Primitive != gpu.Triangles {
			continue
		}
		verts, idx := sm.Mesh.Vertices, sm.Mesh.Indices
		for k := 0; k+2 < len(idx); k += 3 {
			v0 := mgl32.TransformCoordinate(verts[idx[k]].Position, i.Transform)
			v1 := mgl32.TransformCoordinate(verts[idx[k+1]].Position, i.Transform)
			v2 := mgl32.TransformCoordinate(verts[idx[k+2]].Position, i.Transform)
			if t, ok := r.IntersectTriangle(v0, v1, v2); ok && t < best {
				best, hit = t, sm
			}
		}
	}
	return best, hit, hit != nil
}

// Pick returns the index of the nearest instance of model hit by r, or -1.
func Pick(r Ray, model *Model, instances []*Instance) (int, float32) {
	index, dist := -1, float32(math.MaxFloat32)
	for n, inst := range instances {
		if t, _, ok := inst.Intersect(r, model); ok && t < dist {
			index, dist = n, t
		}
	}
	return index, dist
}
