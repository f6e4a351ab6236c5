// Package lights selects and uploads the lights affecting each model.
package lights

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu"
)

// Uniform names written by the manager.
const (
	UniformAmbient     = "ambient"
	UniformDirLightDir = "dirLightDir"
	UniformDirLightCol = "dirLightCol"
	UniformLightsPos   = "lightsPos"
	UniformLightsCol   = "lightsCol"
)

type PointLight struct {
	Position  mgl32.Vec3
	Color     core.Color
	Intensity float32
}

type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     core.Color
}

// Manager holds the scene lights. CalculateLights picks the point lights for
// the model about to be drawn; ApplyLights uploads that selection.
type Manager struct {
	Ambient     core.Color
	Directional *DirectionalLight

	maxPerModel int
	points      []*PointLight

	candidates []candidate
	selected   []*PointLight
	positions  []float32
	colors     []float32
}

type candidate struct {
	light *PointLight
	dist2 float32
}

// NewManager creates a manager uploading at most maxPerModel point lights per draw.
func NewManager(maxPerModel int) *Manager {
	if maxPerModel < 0 {
		maxPerModel = 0
	}
	return &Manager{
		Ambient:     core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		maxPerModel: maxPerModel,
		positions:   make([]float32, 3*maxPerModel),
		colors:      make([]float32, 3*maxPerModel),
	}
}

func (m *Manager) MaxLightsPerModel() int { return m.maxPerModel }

func (m *Manager) AddPoint(l *PointLight) {
	m.points = append(m.points, l)
}

// RemovePoint drops l. It reports whether l was registered.
func (m *Manager) RemovePoint(l *PointLight) bool {
	i := slices.Index(m.points, l)
	if i < 0 {
		return false
	}
	m.points = slices.Delete(m.points, i, i+1)
	return true
}

func (m *Manager) Points() []*PointLight { return m.points }

// CalculateLights selects the point lights nearest to pos. Lights at equal
// distance keep registration order.
func (m *Manager) CalculateLights(pos mgl32.Vec3) {
	m.candidates = m.candidates[:0]
	for _, l := range m.points {
		d := l.Position.Sub(pos)
		m.candidates = append(m.candidates, candidate{light: l, dist2: d.Dot(d)})
	}
	slices.SortStableFunc(m.candidates, func(a, b candidate) int {
		return cmp.Compare(a.dist2, b.dist2)
	})

	m.selected = m.selected[:0]
	for i := 0; i < len(m.candidates) && i < m.maxPerModel; i++ {
		m.selected = append(m.selected, m.candidates[i].light)
	}
}

// Selected returns the lights chosen by the last CalculateLights call.
func (m *Manager) Selected() []*PointLight { return m.selected }

// ApplyGlobalLights uploads the ambient colour and the directional light.
func (m *Manager) ApplyGlobalLights(p gpu.Program) {
	p.SetUniformf(UniformAmbient, m.Ambient.R, m.Ambient.G, m.Ambient.B)
	if m.Directional != nil {
		d := m.Directional.Direction.Normalize()
		c := m.Directional.Color
		p.SetUniformf(UniformDirLightDir, d.X(), d.Y(), d.Z())
		p.SetUniformf(UniformDirLightCol, c.R, c.G, c.B)
	} else {
		p.SetUniformf(UniformDirLightCol, 0, 0, 0)
	}
}

// ApplyLights uploads the selected point lights. Unused slots are zeroed so
// shaders can loop over a fixed count.
func (m *Manager) ApplyLights(p gpu.Program) {
	if m.maxPerModel == 0 {
		return
	}
	clear(m.positions)
	clear(m.colors)
	for i, l := range m.selected {
		copy(m.positions[3*i:], l.Position[:])
		m.colors[3*i] = l.Color.R * l.Intensity
		m.colors[3*i+1] = l.Color.G * l.Intensity
		m.colors[3*i+2] = l.Color.B * l.Intensity
	}
	p.SetUniform3fv(UniformLightsPos, m.positions)
	p.SetUniform3fv(UniformLightsCol, m.colors)
}
