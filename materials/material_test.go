package materials

import (
	"testing"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/gpu/gputest"
	"gdx-render/textures"
)

func newTexture(t *testing.T, rec *gputest.Recorder) *textures.Texture {
	t.Helper()
	tex, err := textures.NewManager(rec).NewEmpty(4, 4, textures.DefaultOptions())
	if err != nil {
		t.Fatalf("NewEmpty: %v", err)
	}
	return tex
}

func TestNewDetectsBlending(t *testing.T) {
	opaque := New("stone", NewColorAttribute(DiffuseColor, core.ColorRed))
	if opaque.NeedsBlending {
		t.Error("opaque material flagged as blending")
	}

	glass := New("glass", NewColorAttribute(DiffuseColor, core.ColorBlue), NewBlendingAttribute(Translucent))
	if !glass.NeedsBlending {
		t.Error("blended material not flagged")
	}

	opaque.Shader = &gputest.Program{}
	opaque.Add(NewBlendingAttribute(Translucent))
	if !opaque.NeedsBlending || opaque.Shader != nil {
		t.Errorf("Add: NeedsBlending = %v, Shader = %v", opaque.NeedsBlending, opaque.Shader)
	}
}

func TestLookups(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := newTexture(t, rec)
	m := New("m",
		NewTextureAttribute(DiffuseTexture, tex, 0),
		NewColorAttribute(DiffuseColor, core.ColorGreen),
		NewFloatAttribute(Shininess, 16),
	)

	if !m.Has(Shininess) || m.Has(SpecularColor) {
		t.Error("Has returned wrong result")
	}
	if ta := m.Texture(DiffuseTexture); ta == nil || ta.Texture != tex {
		t.Errorf("Texture(%q) = %v", DiffuseTexture, ta)
	}
	if m.Blending() != nil {
		t.Error("Blending() on opaque material should be nil")
	}
	if c, ok := m.Color(DiffuseColor); !ok || c != core.ColorGreen {
		t.Errorf("Color(%q) = %v, %v", DiffuseColor, c, ok)
	}
	if _, ok := m.Color(EmissiveColor); ok {
		t.Error("Color found a missing attribute")
	}
}

func TestPortionEquals(t *testing.T) {
	rec := gputest.NewRecorder()
	a := newTexture(t, rec)
	b := newTexture(t, rec)
	base := NewTextureAttribute(DiffuseTexture, a, 0)

	renamed := *base
	renamed.Name = "otherSampler"
	otherUnit := *base
	otherUnit.Unit = 1
	otherFilter := *base
	otherFilter.MinFilter = gpu.Nearest
	otherWrap := *base
	otherWrap.VWrap = gpu.Repeat

	tests := []struct {
		name  string
		other *TextureAttribute
		want  bool
	}{
		{"same attribute", base, true},
		{"different name", &renamed, true},
		{"different texture", NewTextureAttribute(DiffuseTexture, b, 0), false},
		{"different unit", &otherUnit, false},
		{"different filter", &otherFilter, false},
		{"different wrap", &otherWrap, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.PortionEquals(tt.other); got != tt.want {
				t.Errorf("PortionEquals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributeBind(t *testing.T) {
	rec := gputest.NewRecorder()
	tex := newTexture(t, rec)
	p, _ := rec.NewProgram("v", "f")
	prog := p.(*gputest.Program)
	rec.Reset()

	NewTextureAttribute(DiffuseTexture, tex, 3).Bind(rec, prog)
	if rec.Bound(3) != tex.Handle() {
		t.Errorf("unit 3 holds %d, want %d", rec.Bound(3), tex.Handle())
	}
	if prog.Ints[DiffuseTexture] != 3 {
		t.Errorf("sampler uniform = %d, want 3", prog.Ints[DiffuseTexture])
	}

	(&BlendingAttribute{Name: Translucent, Src: gpu.One, Dst: gpu.One}).Bind(rec, prog)
	if rec.Count("BlendFunc") != 1 {
		t.Errorf("BlendFunc calls = %d, want 1", rec.Count("BlendFunc"))
	}

	NewColorAttribute(DiffuseColor, core.Color{R: 0.5, G: 0.25, B: 1, A: 1}).Bind(rec, prog)
	if got := prog.Floats[DiffuseColor]; len(got) != 4 || got[0] != 0.5 || got[1] != 0.25 {
		t.Errorf("colour uniform = %v", got)
	}

	NewFloatAttribute(Shininess, 8).Bind(rec, prog)
	if got := prog.Floats[Shininess]; len(got) != 1 || got[0] != 8 {
		t.Errorf("float uniform = %v", got)
	}
}

func TestClone(t *testing.T) {
	m := New("m", NewColorAttribute(DiffuseColor, core.ColorRed), NewBlendingAttribute(Translucent))
	m.Shader = &gputest.Program{}
	c := m.Clone()

	if c.Shader != nil {
		t.Error("clone kept the cached shader")
	}
	if !c.NeedsBlending || len(c.Attributes) != 2 {
		t.Fatalf("clone = %v", c)
	}
	c.Attributes[0].(*ColorAttribute).Color = core.ColorBlue
	if col, _ := m.Color(DiffuseColor); col != core.ColorRed {
		t.Error("modifying the clone changed the original")
	}
}
