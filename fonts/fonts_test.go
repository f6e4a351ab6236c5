package fonts

import (
	"errors"
	"testing"

	"gdx-render/gpu"
	"gdx-render/gpu/gputest"
	"gdx-render/textures"
)

func TestRasterizeGlyph(t *testing.T) {
	face, err := NewFace(nil, 17)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	defer face.Close()

	g, err := RasterizeGlyph(face, 'e')
	if err != nil {
		t.Fatalf("RasterizeGlyph: %v", err)
	}
	if g.Width() == 0 || g.Height() == 0 || g.Height() > face.Ascent+face.Descent {
		t.Fatalf("glyph is %dx%d", g.Width(), g.Height())
	}
	if g.Advance <= 0 || g.BearingY <= 0 {
		t.Errorf("metrics: advance %d, bearingY %d", g.Advance, g.BearingY)
	}

	var inked int
	for _, a := range g.Mask.Pix {
		if a > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("glyph has no coverage")
	}
}

func TestRasterizeSpace(t *testing.T) {
	face, err := NewFace(nil, 17)
	if err != nil {
		t.Fatal(err)
	}
	g, err := RasterizeGlyph(face, ' ')
	if err != nil {
		t.Fatalf("RasterizeGlyph: %v", err)
	}
	if g.Width() != 0 || g.Advance == 0 {
		t.Errorf("space: width %d, advance %d", g.Width(), g.Advance)
	}

	tm := textures.NewManager(gputest.NewRecorder())
	if _, err := g.Texture(tm, gpu.Linear); err == nil {
		t.Error("empty glyph uploaded")
	}
}

func TestNewFaceErrors(t *testing.T) {
	if _, err := NewFace([]byte("not a font"), 12); err == nil {
		t.Error("garbage parsed as a font")
	}
	if _, err := NewFace(nil, 0); err == nil {
		t.Error("zero pixel height accepted")
	}
}

func TestGlyphTexture(t *testing.T) {
	face, err := NewFace(nil, 17)
	if err != nil {
		t.Fatal(err)
	}
	g, err := RasterizeGlyph(face, 'e')
	if err != nil {
		t.Fatal(err)
	}

	rec := gputest.NewRecorder()
	tex, err := g.Texture(textures.NewManager(rec), gpu.Nearest)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	if tex.Width() != g.Width() || tex.Height() != g.Height() {
		t.Errorf("texture %dx%d, glyph %dx%d", tex.Width(), tex.Height(), g.Width(), g.Height())
	}

	last := rec.Uploads[len(rec.Uploads)-1]
	if !last.Sub || last.Format != gpu.FormatRGBA {
		t.Fatalf("last upload = %+v", last)
	}
	for i, a := range g.Mask.Pix {
		px := last.Pixels[4*i : 4*i+4]
		if px[3] != a || (a > 0 && px[0] != 0xff) {
			t.Fatalf("pixel %d = %v, coverage %d", i, px, a)
		}
	}
}

func TestMissingGlyph(t *testing.T) {
	face, err := NewFace(nil, 12)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RasterizeGlyph(face, '\U0001F600'); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("err = %v, want ErrNoGlyph", err)
	}
}
