package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane is the half-space Normal·p + D >= 0. Normal points into the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// Distance returns the signed distance from pt to the plane; positive is inside.
func (p Plane) Distance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds six clip planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum extracts normalised planes from a projection-view matrix
// (Gribb/Hartmann). mgl32 matrices are column-major, so Row(i) is the i-th
// row of the clip transform.
func NewFrustum(combined mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := combined.Row(0), combined.Row(1), combined.Row(2), combined.Row(3)

	var f Frustum
	f.Planes[0] = plane(r3.Add(r0))
	f.Planes[1] = plane(r3.Sub(r0))
	f.Planes[2] = plane(r3.Add(r1))
	f.Planes[3] = plane(r3.Sub(r1))
	f.Planes[4] = plane(r3.Add(r2))
	f.Planes[5] = plane(r3.Sub(r2))
	return f
}

func plane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// PointInFrustum reports whether pt lies inside or on every plane.
func (f *Frustum) PointInFrustum(pt mgl32.Vec3) bool {
	for _, p := range f.Planes {
		if p.Distance(pt) < 0 {
			return false
		}
	}
	return true
}

// SphereInFrustum reports whether the sphere intersects the frustum.
func (f *Frustum) SphereInFrustum(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.Distance(center) < -radius {
			return false
		}
	}
	return true
}

// BoxInFrustum is the positive-vertex test for an axis-aligned box.
func (f *Frustum) BoxInFrustum(min, max mgl32.Vec3) bool {
	for _, p := range f.Planes {
		v := max
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				v[i] = min[i]
			}
		}
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}
