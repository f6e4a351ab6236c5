package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
)

// NewQuad returns a unit quad in the XY plane facing +Z.
func NewQuad(width, height float32) *core.Mesh {
	w, h := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-w, -h, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, -h, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, h, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{-w, h, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
	}
	return core.NewMesh("Quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// cubeFaces lists each face as its normal and the two in-plane axes (u, v)
// such that u × v = normal.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

// NewCube returns an axis-aligned cube centred on the origin with per-face normals.
func NewCube(size float32) *core.Mesh {
	s := size / 2
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		normal, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range corners {
			pos := normal.Add(u.Mul(c.X())).Add(v.Mul(c.Y())).Mul(s)
			vertices = append(vertices, core.Vertex{
				Position: pos,
				Normal:   normal,
				UV:       mgl32.Vec2{(c.X() + 1) / 2, (1 - c.Y()) / 2},
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return core.NewMesh("Cube", vertices, indices)
}

// NewSphere generates a UV sphere.
func NewSphere(radius float32, segments, rings int) *core.Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi, cosPhi := float32(math.Sin(phi)), float32(math.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * math.Pi / float64(segments)
			sinTheta, cosTheta := float32(math.Sin(theta)), float32(math.Cos(theta))

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}
	return core.NewMesh("Sphere", vertices, indices)
}

// NewPlane generates a subdivided plane in XZ facing +Y.
func NewPlane(width, depth float32, subdivisions int) *core.Mesh {
	subdivisions = max(subdivisions, 1)
	halfW, halfD := width/2, depth/2

	var vertices []core.Vertex
	var indices []uint32
	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{-halfW + u*width, 0, -halfD + v*depth},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{u, v},
				Color:    core.ColorWhite,
			})
		}
	}

	row := uint32(subdivisions + 1)
	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			tl := uint32(z)*row + uint32(x)
			bl := tl + row
			indices = append(indices, tl, bl, tl+1, tl+1, bl, bl+1)
		}
	}
	return core.NewMesh("Plane", vertices, indices)
}
