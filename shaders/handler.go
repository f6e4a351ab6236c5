// Package shaders generates and caches GLSL programs keyed by the features a
// material uses.
package shaders

import (
	"fmt"
	"strings"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/materials"
)

// Uniform names shared with the renderer.
const (
	UniformProjectionView = "u_projectionViewMatrix"
	UniformModel          = "u_modelMatrix"
	UniformNormal         = "u_normalMatrix"
	UniformCameraPos      = "camPos"
)

// Compiler links shader programs. gpu.Device satisfies it.
type Compiler interface {
	NewProgram(vertex, fragment string) (gpu.Program, error)
}

// Key is the feature set a generated program supports.
type Key struct {
	DiffuseTexture  bool
	SpecularTexture bool
	DiffuseColor    bool
	SpecularColor   bool
	EmissiveColor   bool
	Shininess       bool
	Blending        bool
	Lights          int
}

// KeyFor returns the feature key for m with the given point light count.
func KeyFor(m *materials.Material, lights int) Key {
	return Key{
		DiffuseTexture:  m.Has(materials.DiffuseTexture),
		SpecularTexture: m.Has(materials.SpecularTexture),
		DiffuseColor:    m.Has(materials.DiffuseColor),
		SpecularColor:   m.Has(materials.SpecularColor),
		EmissiveColor:   m.Has(materials.EmissiveColor),
		Shininess:       m.Has(materials.Shininess),
		Blending:        m.NeedsBlending,
		Lights:          lights,
	}
}

func (k Key) defines() string {
	var b strings.Builder
	flag := func(on bool, name string) {
		if on {
			fmt.Fprintf(&b, "#define %sFlag\n", name)
		}
	}
	flag(k.DiffuseTexture, materials.DiffuseTexture)
	flag(k.SpecularTexture, materials.SpecularTexture)
	flag(k.DiffuseColor, materials.DiffuseColor)
	flag(k.SpecularColor, materials.SpecularColor)
	flag(k.EmissiveColor, materials.EmissiveColor)
	flag(k.Shininess, materials.Shininess)
	flag(k.Blending, materials.Translucent)
	fmt.Fprintf(&b, "#define LIGHTS_NUM %d\n", k.Lights)
	return b.String()
}

// Source returns the vertex and fragment source for k.
func Source(k Key) (vertex, fragment string) {
	prefix := "#version 120\n" + k.defines()
	return prefix + vertexBody, prefix + fragmentBody
}

// Handler resolves materials to programs, compiling each feature key once.
type Handler struct {
	compiler Compiler
	lights   int
	cache    map[Key]gpu.Program
	served   map[*materials.Material]struct{}
}

// NewHandler creates a handler whose programs accept lightsPerModel point lights.
func NewHandler(c Compiler, lightsPerModel int) *Handler {
	return &Handler{
		compiler: c,
		lights:   lightsPerModel,
		cache:    make(map[Key]gpu.Program),
		served:   make(map[*materials.Material]struct{}),
	}
}

// Shader returns the program for m, compiling it on first request.
func (h *Handler) Shader(m *materials.Material) (gpu.Program, error) {
	k := KeyFor(m, h.lights)
	if p, ok := h.cache[k]; ok {
		h.served[m] = struct{}{}
		return p, nil
	}
	vs, fs := Source(k)
	p, err := h.compiler.NewProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("shader for material %q: %w", m.Name, err)
	}
	core.Logger().Debug("shader compiled", "material", m.Name, "key", fmt.Sprintf("%+v", k))
	h.cache[k] = p
	h.served[m] = struct{}{}
	return p, nil
}

// Len reports how many programs are cached.
func (h *Handler) Len() int { return len(h.cache) }

// Dispose releases every cached program and clears Material.Shader on the
// materials still holding one of them, so they resolve again on next use.
func (h *Handler) Dispose() {
	disposed := make(map[gpu.Program]bool, len(h.cache))
	for k, p := range h.cache {
		p.Dispose()
		disposed[p] = true
		delete(h.cache, k)
	}
	for m := range h.served {
		if disposed[m.Shader] {
			m.Shader = nil
		}
		delete(h.served, m)
	}
}
