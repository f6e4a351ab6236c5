package renderer

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/gpu"
	"gdx-render/materials"
	"gdx-render/scene"
	"gdx-render/shaders"
)

// distanceScale quantises camera distances for the transparent sort.
const distanceScale = 256

// renderContext is the GPU state a flush has established so far.
type renderContext struct {
	shader   gpu.Program
	material *materials.Material
	textures [materials.MaxTextureUnits]*materials.TextureAttribute
	blendSrc gpu.BlendFactor
	blendDst gpu.BlendFactor
}

func (c *renderContext) reset() {
	*c = renderContext{blendSrc: -1, blendDst: -1}
}

func (r *BatchRenderer) flush() error {
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, s := range r.opaque {
		inst := s.instance
		matrixChanged := true
		r.lights.CalculateLights(inst.Center)

		for i, sub := range s.model.SubMeshes {
			mat := materialFor(inst, sub, i)
			if mat.NeedsBlending {
				r.blended = append(r.blended, blendedDraw{
					material:  mat,
					sub:       sub,
					transform: inst.Transform,
					center:    inst.Center,
					distance:  r.distanceTo(inst.Center),
				})
				continue
			}

			changed, err := r.bindShader(mat)
			if err != nil {
				fail(err)
				continue
			}
			if changed {
				r.ctx.material = nil
			} else if matrixChanged {
				r.lights.ApplyLights(r.ctx.shader)
			}
			if changed || matrixChanged {
				r.setMatrices(inst.Transform)
				matrixChanged = false
			}
			if mat != r.ctx.material {
				r.bindMaterial(mat, false)
			}
			r.drawSub(sub)
		}
	}
	r.opaque = r.opaque[:0]

	if len(r.blended) > 0 {
		if err := r.renderBlended(); err != nil {
			fail(err)
		}
	}
	r.blended = r.blended[:0]

	if r.ctx.shader != nil {
		r.ctx.shader.End()
	}
	r.ctx.reset()
	return firstErr
}

// renderBlended draws the transparent queue far to near with depth writes off.
func (r *BatchRenderer) renderBlended() error {
	var firstErr error
	r.dev.SetBlending(true)
	r.dev.SetDepthMask(false)

	slices.SortStableFunc(r.blended, func(a, b blendedDraw) int {
		return b.distance - a.distance
	})

	for _, d := range r.blended {
		r.lights.CalculateLights(d.center)
		changed, err := r.bindShader(d.material)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if changed {
			r.ctx.material = nil
		} else {
			r.lights.ApplyLights(r.ctx.shader)
		}
		r.setMatrices(d.transform)
		if d.material != r.ctx.material {
			r.bindMaterial(d.material, true)
		}
		r.drawSub(d.sub)
		r.frame.Blended++
	}

	r.dev.SetDepthMask(true)
	r.dev.SetBlending(false)
	return firstErr
}

// bindShader makes the material's program current, resolving and caching it
// on first use. It reports whether the bound program changed.
func (r *BatchRenderer) bindShader(m *materials.Material) (bool, error) {
	if m.Shader == nil {
		p, err := r.shaders.Shader(m)
		if err != nil {
			return false, err
		}
		m.Shader = p
	}
	if m.Shader == r.ctx.shader {
		return false, nil
	}
	if r.ctx.shader != nil {
		r.ctx.shader.End()
	}
	p := m.Shader
	p.Begin()
	r.ctx.shader = p
	r.frame.ShaderBinds++

	r.lights.ApplyGlobalLights(p)
	r.lights.ApplyLights(p)
	if r.camera != nil {
		p.SetUniformMatrix4(shaders.UniformProjectionView, r.camera.Combined())
		pos := r.camera.Position
		p.SetUniformf(shaders.UniformCameraPos, pos.X(), pos.Y(), pos.Z())
	} else {
		p.SetUniformMatrix4(shaders.UniformProjectionView, mgl32.Ident4())
		p.SetUniformf(shaders.UniformCameraPos, 0, 0, 0)
	}
	return true, nil
}

func (r *BatchRenderer) setMatrices(model mgl32.Mat4) {
	r.ctx.shader.SetUniformMatrix3(shaders.UniformNormal, model.Mat3())
	r.ctx.shader.SetUniformMatrix4(shaders.UniformModel, model)
}

// bindMaterial applies every attribute of m. Textures already resident on
// their unit only get the sampler uniform re-issued. Blend factors are set
// only in the transparent pass and only when they change.
func (r *BatchRenderer) bindMaterial(m *materials.Material, blending bool) {
	p := r.ctx.shader
	for _, a := range m.Attributes {
		switch attr := a.(type) {
		case *materials.TextureAttribute:
			u := attr.Unit
			if u < 0 || u >= len(r.ctx.textures) {
				attr.Bind(r.dev, p)
				r.frame.TextureBinds++
				continue
			}
			if attr.PortionEquals(r.ctx.textures[u]) {
				p.SetUniformi(attr.Name, int32(u))
				r.frame.SamplerRebinds++
				continue
			}
			r.ctx.textures[u] = attr
			attr.Bind(r.dev, p)
			r.frame.TextureBinds++
		case *materials.BlendingAttribute:
			if !blending || (attr.Src == r.ctx.blendSrc && attr.Dst == r.ctx.blendDst) {
				continue
			}
			r.ctx.blendSrc, r.ctx.blendDst = attr.Src, attr.Dst
			attr.Bind(r.dev, p)
			r.frame.BlendBinds++
		default:
			a.Bind(r.dev, p)
		}
	}
	r.ctx.material = m
	r.frame.MaterialBinds++
}

func (r *BatchRenderer) drawSub(sub *scene.SubMesh) {
	r.dev.DrawMesh(sub.Mesh, r.ctx.shader, sub.Primitive)
	r.frame.DrawCalls++
}

func (r *BatchRenderer) distanceTo(center mgl32.Vec3) int {
	if r.camera == nil {
		return 0
	}
	return int(math.Floor(float64(distanceScale * center.Sub(r.camera.Position).Len())))
}
