package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownAnimation is returned for an animation name the model does not have.
var ErrUnknownAnimation = errors.New("scene: unknown animation")

// Keyframe holds vertex positions per sub-mesh at Time.
type Keyframe struct {
	Time      float32
	Positions [][]mgl32.Vec3
}

// Animation is a vertex-keyframed clip. Keyframes are sorted by time.
type Animation struct {
	Name      string
	Duration  float32
	Keyframes []Keyframe
}

// AnimatedModel is a Model whose vertices are posed from keyframes.
type AnimatedModel struct {
	Model
	Animations map[string]*Animation
}

func NewAnimatedModel(model *Model) *AnimatedModel {
	return &AnimatedModel{Model: *model, Animations: make(map[string]*Animation)}
}

// AddAnimation validates a against the model layout and registers it.
func (m *AnimatedModel) AddAnimation(a *Animation) error {
	if len(a.Keyframes) == 0 {
		return fmt.Errorf("animation %q has no keyframes", a.Name)
	}
	for k, kf := range a.Keyframes {
		if len(kf.Positions) != len(m.SubMeshes) {
			return fmt.Errorf("animation %q keyframe %d: %d sub-meshes, model has %d",
				a.Name, k, len(kf.Positions), len(m.SubMeshes))
		}
		for i, sm := range m.SubMeshes {
			if len(kf.Positions[i]) != len(sm.Mesh.Vertices) {
				return fmt.Errorf("animation %q keyframe %d sub-mesh %q: %d positions, mesh has %d vertices",
					a.Name, k, sm.Name, len(kf.Positions[i]), len(sm.Mesh.Vertices))
			}
		}
	}
	sort.SliceStable(a.Keyframes, func(i, j int) bool { return a.Keyframes[i].Time < a.Keyframes[j].Time })
	if a.Duration <= 0 {
		a.Duration = a.Keyframes[len(a.Keyframes)-1].Time
	}
	m.Animations[a.Name] = a
	return nil
}

// SetAnimation poses every sub-mesh at time t of the named animation. Looping
// wraps t into [0, Duration); otherwise t is clamped. Posed meshes are marked
// dirty so the device re-uploads them.
func (m *AnimatedModel) SetAnimation(name string, t float32, loop bool) error {
	a, ok := m.Animations[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	t = a.localTime(t, loop)

	k0, k1, alpha := a.span(t)
	for i, sm := range m.SubMeshes {
		from, to := a.Keyframes[k0].Positions[i], a.Keyframes[k1].Positions[i]
		verts := sm.Mesh.Vertices
		for j := range verts {
			verts[j].Position = from[j].Add(to[j].Sub(from[j]).Mul(alpha))
		}
		sm.Mesh.Dirty = true
	}
	return nil
}

func (a *Animation) localTime(t float32, loop bool) float32 {
	if a.Duration <= 0 {
		return 0
	}
	if loop {
		t = float32(math.Mod(float64(t), float64(a.Duration)))
		if t < 0 {
			t += a.Duration
		}
		return t
	}
	return mgl32.Clamp(t, 0, a.Duration)
}

// span returns the keyframes around t and the blend factor between them.
func (a *Animation) span(t float32) (k0, k1 int, alpha float32) {
	n := len(a.Keyframes)
	next := sort.Search(n, func(i int) bool { return a.Keyframes[i].Time > t })
	switch {
	case next == 0:
		return 0, 0, 0
	case next == n:
		return n - 1, n - 1, 0
	}
	k0, k1 = next-1, next
	dt := a.Keyframes[k1].Time - a.Keyframes[k0].Time
	if dt <= 0 {
		return k0, k1, 0
	}
	return k0, k1, (t - a.Keyframes[k0].Time) / dt
}
