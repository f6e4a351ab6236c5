package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. Call Update after changing any field.
type Camera struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Up        mgl32.Vec3

	FieldOfView    float32 // vertical, degrees
	Near, Far      float32
	ViewportWidth  float32
	ViewportHeight float32

	projection mgl32.Mat4
	view       mgl32.Mat4
	combined   mgl32.Mat4
	frustum    Frustum
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, viewportWidth, viewportHeight float32) *Camera {
	c := &Camera{
		Direction:      mgl32.Vec3{0, 0, -1},
		Up:             mgl32.Vec3{0, 1, 0},
		FieldOfView:    fov,
		Near:           0.1,
		Far:            1000,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
	c.Update()
	return c
}

// Update recomputes the matrices and the frustum.
func (c *Camera) Update() {
	aspect := float32(1)
	if c.ViewportHeight > 0 {
		aspect = c.ViewportWidth / c.ViewportHeight
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FieldOfView), aspect, c.Near, c.Far)
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
	c.combined = c.projection.Mul4(c.view)
	c.frustum = NewFrustum(c.combined)
}

func (c *Camera) SetViewport(width, height float32) {
	c.ViewportWidth, c.ViewportHeight = width, height
}

// LookAt points the camera at target and re-orthogonalises Up.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return
	}
	c.Direction = dir.Normalize()
	right := c.Direction.Cross(c.Up)
	if right.Len() < 1e-6 {
		return
	}
	c.Up = right.Cross(c.Direction).Normalize()
}

func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Position = c.Position.Add(delta)
}

// Rotate turns Direction and Up about axis by angle degrees.
func (c *Camera) Rotate(axis mgl32.Vec3, angle float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(angle), axis.Normalize())
	c.Direction = q.Rotate(c.Direction).Normalize()
	c.Up = q.Rotate(c.Up).Normalize()
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Combined returns projection * view.
func (c *Camera) Combined() mgl32.Mat4 { return c.combined }

func (c *Camera) Frustum() *Frustum { return &c.frustum }

// SphereInFrustum tests against the frustum computed by the last Update.
func (c *Camera) SphereInFrustum(center mgl32.Vec3, radius float32) bool {
	return c.frustum.SphereInFrustum(center, radius)
}

// OrbitCamera circles Target at Distance.
type OrbitCamera struct {
	Camera
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target mgl32.Vec3, distance, fov, viewportWidth, viewportHeight float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:   *NewCamera(fov, viewportWidth, viewportHeight),
		Target:   target,
		Distance: distance,
		Pitch:    0.3,
	}
	c.UpdatePosition()
	return c
}

// UpdatePosition places the camera from Yaw/Pitch and updates its matrices.
func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = mgl32.Clamp(c.Pitch, -1.5, 1.5)

	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}
	c.Position = c.Target.Add(offset)
	c.Up = mgl32.Vec3{0, 1, 0}
	c.LookAt(c.Target)
	c.Update()
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = max(c.Distance+delta, 0.1)
	c.UpdatePosition()
}
