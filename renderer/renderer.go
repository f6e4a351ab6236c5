// Package renderer batches model draws for one frame and renders them with as
// few shader, material and texture changes as the submission order allows.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/lights"
	"gdx-render/materials"
	"gdx-render/scene"
)

var (
	// ErrNotDrawing is returned by Draw and End outside a Begin/End cycle.
	ErrNotDrawing = errors.New("renderer: not between Begin and End")
	// ErrMaterialCount is returned when an instance overrides a different
	// number of materials than the model has sub-meshes.
	ErrMaterialCount = errors.New("renderer: material override count mismatch")
	// ErrNilMaterial is returned when a sub-mesh resolves to no material.
	ErrNilMaterial = errors.New("renderer: sub-mesh has no material")
)

// ShaderProvider resolves the program a material is drawn with.
// *shaders.Handler satisfies it.
type ShaderProvider interface {
	Shader(m *materials.Material) (gpu.Program, error)
	Dispose()
}

// Stats counts the work done by one flush.
type Stats struct {
	ShaderBinds    int
	MaterialBinds  int
	TextureBinds   int
	SamplerRebinds int // texture already on its unit, sampler uniform re-issued
	BlendBinds     int
	DrawCalls      int
	Culled         int
	Blended        int
}

type submission struct {
	model    *scene.Model
	instance *scene.Instance
}

type blendedDraw struct {
	material  *materials.Material
	sub       *scene.SubMesh
	transform mgl32.Mat4
	center    mgl32.Vec3
	distance  int
}

// BatchRenderer collects draws between Begin and End. It is not safe for
// concurrent use and must run on the thread owning the device.
type BatchRenderer struct {
	dev     gpu.Device
	lights  *lights.Manager
	shaders ShaderProvider
	camera  *scene.Camera
	log     *slog.Logger

	drawing bool
	opaque  []submission
	blended []blendedDraw
	ctx     renderContext

	frame Stats
	last  Stats
}

// Option configures a BatchRenderer.
type Option func(*BatchRenderer)

// WithCamera enables frustum culling and distance sorting against c.
func WithCamera(c *scene.Camera) Option {
	return func(r *BatchRenderer) { r.camera = c }
}

// WithLogger overrides the engine logger for this renderer.
func WithLogger(l *slog.Logger) Option {
	return func(r *BatchRenderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithCapacity preallocates the submission queues.
func WithCapacity(n int) Option {
	return func(r *BatchRenderer) {
		if n > 0 {
			r.opaque = make([]submission, 0, n)
			r.blended = make([]blendedDraw, 0, n)
		}
	}
}

func New(dev gpu.Device, lm *lights.Manager, sp ShaderProvider, opts ...Option) *BatchRenderer {
	r := &BatchRenderer{
		dev:     dev,
		lights:  lm,
		shaders: sp,
		log:     core.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lights == nil {
		r.lights = lights.NewManager(0)
	}
	r.ctx.reset()
	return r
}

// SetCamera replaces the camera; nil disables culling.
func (r *BatchRenderer) SetCamera(c *scene.Camera) { r.camera = c }

func (r *BatchRenderer) Camera() *scene.Camera { return r.camera }

// Stats returns the counters of the last completed flush.
func (r *BatchRenderer) Stats() Stats { return r.last }

// Drawing reports whether the renderer is between Begin and End.
func (r *BatchRenderer) Drawing() bool { return r.drawing }

// Begin starts recording a frame.
func (r *BatchRenderer) Begin() {
	r.drawing = true
	r.frame = Stats{}
}

// Draw queues every sub-mesh of model placed by inst. Instances outside the
// camera frustum are dropped.
func (r *BatchRenderer) Draw(model *scene.Model, inst *scene.Instance) error {
	visible, err := r.accept(model, inst)
	if err != nil || !visible {
		return err
	}
	r.opaque = append(r.opaque, submission{model: model, instance: inst})
	return nil
}

// DrawAnimated poses model at the instance's animation time, then queues it.
// Culled instances are not posed. The shared meshes hold a single pose, so
// every instance of model queued in one frame renders the last pose set.
func (r *BatchRenderer) DrawAnimated(model *scene.AnimatedModel, inst *scene.AnimatedInstance) error {
	visible, err := r.accept(&model.Model, &inst.Instance)
	if err != nil || !visible {
		return err
	}
	if err := model.SetAnimation(inst.Animation, inst.Time, inst.Loop); err != nil {
		return err
	}
	r.opaque = append(r.opaque, submission{model: &model.Model, instance: &inst.Instance})
	return nil
}

// accept validates a submission and reports whether it survives culling.
func (r *BatchRenderer) accept(model *scene.Model, inst *scene.Instance) (bool, error) {
	if !r.drawing {
		return false, ErrNotDrawing
	}
	if inst.Materials != nil && len(inst.Materials) != len(model.SubMeshes) {
		return false, fmt.Errorf("%w: model %q has %d sub-meshes, instance overrides %d",
			ErrMaterialCount, model.Name, len(model.SubMeshes), len(inst.Materials))
	}
	for i, sub := range model.SubMeshes {
		if materialFor(inst, sub, i) == nil {
			return false, fmt.Errorf("%w: model %q sub-mesh %q", ErrNilMaterial, model.Name, sub.Name)
		}
	}
	if r.camera != nil && !r.camera.SphereInFrustum(inst.Center, inst.Radius) {
		r.frame.Culled++
		return false, nil
	}
	return true, nil
}

// End flushes the frame. It returns the first shader resolution error, if any;
// the remaining draws are still issued and the renderer is left idle.
func (r *BatchRenderer) End() error {
	if !r.drawing {
		return ErrNotDrawing
	}
	err := r.flush()
	r.drawing = false
	r.last = r.frame
	r.log.Debug("frame flushed",
		"draws", r.last.DrawCalls,
		"shaders", r.last.ShaderBinds,
		"materials", r.last.MaterialBinds,
		"textures", r.last.TextureBinds,
		"culled", r.last.Culled,
		"blended", r.last.Blended)
	return err
}

// Dispose releases the shader caches.
func (r *BatchRenderer) Dispose() {
	r.opaque = r.opaque[:0]
	r.blended = r.blended[:0]
	if r.shaders != nil {
		r.shaders.Dispose()
	}
}

func materialFor(inst *scene.Instance, sub *scene.SubMesh, i int) *materials.Material {
	if inst.Materials != nil {
		return inst.Materials[i]
	}
	return sub.Material
}
