// Command glyphtest rasterises a single glyph, uploads it as a texture and
// draws it on a blended quad every frame.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/fonts"
	"gdx-render/gpu"
	"gdx-render/internal/opengl"
	"gdx-render/lights"
	"gdx-render/materials"
	"gdx-render/renderer"
	"gdx-render/scene"
	"gdx-render/shaders"
	"gdx-render/textures"
)

var (
	fontPath = flag.String("font", "", "TrueType file; Go Regular when empty")
	pixels   = flag.Float64("size", 17, "pixel height")
	char     = flag.String("rune", "e", "glyph to draw")
)

func main() {
	flag.Parse()
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(); err != nil {
		core.Logger().Error("glyphtest failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	var ttf []byte
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			return err
		}
		ttf = data
	}
	r := []rune(*char)
	if len(r) == 0 {
		r = []rune{'e'}
	}

	face, err := fonts.NewFace(ttf, *pixels)
	if err != nil {
		return err
	}
	defer face.Close()
	glyph, err := fonts.RasterizeGlyph(face, r[0])
	if err != nil {
		return err
	}
	core.Logger().Info("glyph rasterised", "rune", string(r[0]),
		"width", glyph.Width(), "height", glyph.Height(), "advance", glyph.Advance)

	wc := core.DefaultWindowConfig()
	wc.Width, wc.Height, wc.Title = 480, 320, "glyphtest"
	window, err := core.NewWindow(wc)
	if err != nil {
		return err
	}
	defer window.Destroy()
	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	defer dev.Destroy()

	tex, err := glyph.Texture(textures.NewManager(dev), gpu.Nearest)
	if err != nil {
		return err
	}
	defer tex.Dispose()

	// Full ambient and no other lights leaves the diffuse colour unshaded.
	lm := lights.NewManager(0)
	lm.Ambient = core.ColorWhite
	blend := &materials.BlendingAttribute{Name: materials.Translucent, Src: gpu.One, Dst: gpu.OneMinusSrcAlpha}
	mat := materials.New("glyph",
		materials.NewTextureAttribute(materials.DiffuseTexture, tex, 0),
		materials.NewColorAttribute(materials.DiffuseColor, core.ColorRed),
		blend)
	quad := scene.NewModel("glyph", &scene.SubMesh{Name: "quad", Mesh: scene.NewQuad(1, 1), Material: mat})
	inst := scene.NewInstance(quad, mgl32.Ident4())

	// No camera: the instance transform maps straight to clip space.
	br := renderer.New(dev, lm, shaders.NewHandler(dev, 0))
	defer br.Dispose()

	for !window.ShouldClose() && !window.IsKeyPressed(core.KeyEscape) {
		window.PollEvents()
		w, h := window.GetFramebufferSize()
		inst.SetTransform(pixelRect(100, 100, glyph.Width(), glyph.Height(), w, h))

		dev.Clear(w, h, core.ColorWhite)
		br.Begin()
		if err := br.Draw(quad, inst); err != nil {
			return err
		}
		if err := br.End(); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

// pixelRect maps the unit quad onto a w×h pixel rectangle whose lower-left
// corner is at x, y in a viewport of vw×vh pixels.
func pixelRect(x, y, w, h, vw, vh int) mgl32.Mat4 {
	if vw == 0 || vh == 0 {
		return mgl32.Ident4()
	}
	sx, sy := 2*float32(w)/float32(vw), 2*float32(h)/float32(vh)
	cx := 2*(float32(x)+float32(w)/2)/float32(vw) - 1
	cy := 2*(float32(y)+float32(h)/2)/float32(vh) - 1
	return mgl32.Translate3D(cx, cy, 0).Mul4(mgl32.Scale3D(sx, sy, 1))
}
