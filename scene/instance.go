package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/materials"
)

// Instance places a Model in the world.
type Instance struct {
	Transform mgl32.Mat4

	// Materials, when non-nil, overrides the sub-mesh materials and has one
	// entry per sub-mesh in model order.
	Materials []*materials.Material

	// Center and Radius are the world-space bounding sphere used for culling
	// and transparent sorting.
	Center mgl32.Vec3
	Radius float32

	localCenter mgl32.Vec3
	localRadius float32
}

// NewInstance derives the instance bounding sphere from model and transform.
func NewInstance(model *Model, transform mgl32.Mat4) *Instance {
	c, r := model.BoundingSphere()
	inst := &Instance{localCenter: c, localRadius: r}
	inst.SetTransform(transform)
	return inst
}

// SetTransform moves the instance and its bounding sphere.
func (i *Instance) SetTransform(t mgl32.Mat4) {
	i.Transform = t
	i.Center = mgl32.TransformCoordinate(i.localCenter, t)
	scale := max(t.Col(0).Vec3().Len(), t.Col(1).Vec3().Len(), t.Col(2).Vec3().Len())
	i.Radius = i.localRadius * scale
}

// AnimatedInstance carries the animation state resolved against an
// AnimatedModel before each draw.
type AnimatedInstance struct {
	Instance
	Animation string
	Time      float32
	Loop      bool
}

func NewAnimatedInstance(model *AnimatedModel, transform mgl32.Mat4, animation string) *AnimatedInstance {
	return &AnimatedInstance{
		Instance:  *NewInstance(&model.Model, transform),
		Animation: animation,
		Loop:      true,
	}
}

// Advance moves the animation clock forward by dt seconds.
func (a *AnimatedInstance) Advance(dt float32) {
	a.Time += dt
}
