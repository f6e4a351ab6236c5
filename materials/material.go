// Package materials describes surface state as an ordered list of attributes
// that bind themselves to a shader program.
package materials

import (
	"fmt"
	"strings"

	"gdx-render/core"
	"gdx-render/gpu"
)

// Material is an ordered set of attributes plus the shader resolved for it.
type Material struct {
	Name       string
	Attributes []Attribute

	// NeedsBlending routes every sub-mesh using this material through the
	// transparent pass.
	NeedsBlending bool

	// Shader is resolved by the renderer on first use and cached here.
	Shader gpu.Program
}

// New creates a material; NeedsBlending is set when any attribute is a
// BlendingAttribute.
func New(name string, attrs ...Attribute) *Material {
	m := &Material{Name: name, Attributes: attrs}
	for _, a := range attrs {
		if _, ok := a.(*BlendingAttribute); ok {
			m.NeedsBlending = true
		}
	}
	return m
}

// Add appends attributes, updating NeedsBlending, and drops the cached shader
// since the feature set may have changed.
func (m *Material) Add(attrs ...Attribute) {
	for _, a := range attrs {
		m.Attributes = append(m.Attributes, a)
		if _, ok := a.(*BlendingAttribute); ok {
			m.NeedsBlending = true
		}
	}
	m.Shader = nil
}

// Has reports whether an attribute with the given name is present.
func (m *Material) Has(name string) bool {
	for _, a := range m.Attributes {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}

// Texture returns the texture attribute called name, or nil.
func (m *Material) Texture(name string) *TextureAttribute {
	for _, a := range m.Attributes {
		if t, ok := a.(*TextureAttribute); ok && t.Name == name {
			return t
		}
	}
	return nil
}

// Blending returns the first blending attribute, or nil.
func (m *Material) Blending() *BlendingAttribute {
	for _, a := range m.Attributes {
		if b, ok := a.(*BlendingAttribute); ok {
			return b
		}
	}
	return nil
}

// Color returns the colour stored under name.
func (m *Material) Color(name string) (core.Color, bool) {
	for _, a := range m.Attributes {
		if c, ok := a.(*ColorAttribute); ok && c.Name == name {
			return c.Color, true
		}
	}
	return core.Color{}, false
}

// Clone copies the attribute list; textures are shared and the shader is not carried.
func (m *Material) Clone() *Material {
	c := &Material{Name: m.Name, NeedsBlending: m.NeedsBlending}
	c.Attributes = make([]Attribute, len(m.Attributes))
	for i, a := range m.Attributes {
		c.Attributes[i] = a.clone()
	}
	return c
}

func (m *Material) String() string {
	names := make([]string, len(m.Attributes))
	for i, a := range m.Attributes {
		names[i] = a.AttributeName()
	}
	return fmt.Sprintf("Material(%s: %s)", m.Name, strings.Join(names, ", "))
}
