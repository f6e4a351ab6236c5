package materials

import (
	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/textures"
)

// MaxTextureUnits bounds the texture unit an attribute may target.
const MaxTextureUnits = 16

// Well-known attribute names. The shader generator keys its features off these.
const (
	DiffuseTexture  = "diffuseTexture"
	SpecularTexture = "specularTexture"
	DiffuseColor    = "diffuseColor"
	SpecularColor   = "specularColor"
	EmissiveColor   = "emissiveColor"
	Shininess       = "shininess"
	Translucent     = "translucent"
)

// Attribute is one of TextureAttribute, BlendingAttribute, ColorAttribute or
// FloatAttribute. The set is closed.
type Attribute interface {
	AttributeName() string
	// Bind applies the attribute to the device and the bound program.
	Bind(dev gpu.Device, p gpu.Program)

	clone() Attribute
}

// TextureAttribute samples Texture on Unit through the sampler uniform Name.
type TextureAttribute struct {
	Texture   *textures.Texture
	Unit      int
	Name      string
	MinFilter gpu.Filter
	MagFilter gpu.Filter
	UWrap     gpu.Wrap
	VWrap     gpu.Wrap
}

// NewTextureAttribute samples tex with the parameters it was created with.
func NewTextureAttribute(name string, tex *textures.Texture, unit int) *TextureAttribute {
	opts := tex.Options()
	return &TextureAttribute{
		Texture:   tex,
		Unit:      unit,
		Name:      name,
		MinFilter: opts.MinFilter,
		MagFilter: opts.MagFilter,
		UWrap:     opts.UWrap,
		VWrap:     opts.VWrap,
	}
}

func (a *TextureAttribute) AttributeName() string { return a.Name }

func (a *TextureAttribute) Bind(_ gpu.Device, p gpu.Program) {
	a.Texture.Configure(a.Unit, a.MinFilter, a.MagFilter, a.UWrap, a.VWrap)
	p.SetUniformi(a.Name, int32(a.Unit))
}

// PortionEquals reports whether other samples the same texture on the same
// unit with the same parameters. The attribute names may differ.
func (a *TextureAttribute) PortionEquals(other *TextureAttribute) bool {
	if other == nil {
		return false
	}
	if a == other {
		return true
	}
	return a.Texture == other.Texture && a.Unit == other.Unit &&
		a.MinFilter == other.MinFilter && a.MagFilter == other.MagFilter &&
		a.UWrap == other.UWrap && a.VWrap == other.VWrap
}

func (a *TextureAttribute) clone() Attribute {
	c := *a
	return &c
}

// BlendingAttribute marks a material as transparent and sets its blend function.
type BlendingAttribute struct {
	Name string
	Src  gpu.BlendFactor
	Dst  gpu.BlendFactor
}

// NewBlendingAttribute returns standard alpha blending.
func NewBlendingAttribute(name string) *BlendingAttribute {
	return &BlendingAttribute{Name: name, Src: gpu.SrcAlpha, Dst: gpu.OneMinusSrcAlpha}
}

func (a *BlendingAttribute) AttributeName() string { return a.Name }

func (a *BlendingAttribute) Bind(dev gpu.Device, _ gpu.Program) {
	dev.BlendFunc(a.Src, a.Dst)
}

func (a *BlendingAttribute) clone() Attribute {
	c := *a
	return &c
}

// ColorAttribute uploads an RGBA colour as a vec4 uniform.
type ColorAttribute struct {
	Name  string
	Color core.Color
}

func NewColorAttribute(name string, c core.Color) *ColorAttribute {
	return &ColorAttribute{Name: name, Color: c}
}

func (a *ColorAttribute) AttributeName() string { return a.Name }

func (a *ColorAttribute) Bind(_ gpu.Device, p gpu.Program) {
	p.SetUniformf(a.Name, a.Color.R, a.Color.G, a.Color.B, a.Color.A)
}

func (a *ColorAttribute) clone() Attribute {
	c := *a
	return &c
}

// FloatAttribute uploads a single float uniform.
type FloatAttribute struct {
	Name  string
	Value float32
}

func NewFloatAttribute(name string, v float32) *FloatAttribute {
	return &FloatAttribute{Name: name, Value: v}
}

func (a *FloatAttribute) AttributeName() string { return a.Name }

func (a *FloatAttribute) Bind(_ gpu.Device, p gpu.Program) {
	p.SetUniformf(a.Name, a.Value)
}

func (a *FloatAttribute) clone() Attribute {
	c := *a
	return &c
}
