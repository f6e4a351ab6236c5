// Command demo renders a field of opaque cubes and translucent spheres, or a
// model file given in the config, through the batch renderer. Arrow keys orbit,
// W/S zoom and a left click highlights the instance under the cursor.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/config"
	"gdx-render/core"
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
	configPath = flag.String("config", "engine.json", "path to the JSON config")
	verbose    = flag.Bool("v", false, "log per-frame statistics")
)

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(); err != nil {
		core.Logger().Error("demo failed", "err", err)
		os.Exit(1)
	}
}

type drawable struct {
	model *scene.Model
	inst  *scene.Instance
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	texOpts, err := cfg.TextureOptions()
	if err != nil {
		return err
	}

	window, err := core.NewWindow(cfg.WindowConfig())
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	defer dev.Destroy()

	tm := textures.NewManager(dev)
	lm := lights.NewManager(cfg.Renderer.LightsPerModel)
	lm.AddPoint(&lights.PointLight{Position: mgl32.Vec3{4, 3, 4}, Color: core.ColorRed, Intensity: 1.5})
	lm.AddPoint(&lights.PointLight{Position: mgl32.Vec3{-4, 3, -4}, Color: core.ColorBlue, Intensity: 1.5})

	sh := shaders.NewHandler(dev, lm.MaxLightsPerModel())
	cam := scene.NewOrbitCamera(mgl32.Vec3{}, 14, cfg.Renderer.FieldOfView, float32(window.Width), float32(window.Height))
	r := renderer.New(dev, lm, sh, renderer.WithCamera(&cam.Camera), renderer.WithCapacity(cfg.Renderer.Capacity))
	defer r.Dispose()

	var items []drawable
	if cfg.Assets.Model != "" {
		model, err := loadModel(filepath.Join(cfg.Assets.Root, cfg.Assets.Model), tm)
		if err != nil {
			return err
		}
		defer model.Release(dev)
		items = append(items, drawable{model, scene.NewInstance(model, mgl32.Ident4())})
	} else {
		field, err := cubeField(tm, texOpts)
		if err != nil {
			return err
		}
		items = field
	}

	pulse, pulseInst, err := pulsingCube(mgl32.Translate3D(0, 3, 0))
	if err != nil {
		return err
	}
	defer pulse.Release(dev)

	highlight := materials.New("highlight",
		materials.NewColorAttribute(materials.DiffuseColor, core.ColorYellow),
		materials.NewColorAttribute(materials.EmissiveColor, core.Color{R: 0.3, G: 0.3, A: 1}))
	cycle := &dayNight{Period: 60}
	var wasDown bool
	hud := &overlay{base: window.Title}

	last := window.Time()
	lastLog := last
	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(core.KeyEscape) {
			break
		}
		handleInput(window, cam, dt)

		w, h := window.GetFramebufferSize()
		cam.SetViewport(float32(w), float32(h))
		cam.UpdatePosition()
		pulseInst.Advance(dt)
		cycle.Advance(dt)
		sky := cycle.Apply(lm)

		down := window.IsMouseButtonPressed(core.MouseLeft)
		if down && !wasDown {
			x, y := window.CursorPos()
			toggleHighlight(items, cam.ScreenRay(float32(x), float32(y), float32(window.Width), float32(window.Height)), highlight)
		}
		wasDown = down

		dev.Clear(w, h, sky)
		r.Begin()
		for _, it := range items {
			if err := r.Draw(it.model, it.inst); err != nil {
				core.Logger().Warn("draw rejected", "model", it.model.Name, "err", err)
			}
		}
		if err := r.DrawAnimated(pulse, pulseInst); err != nil {
			core.Logger().Warn("draw rejected", "model", pulse.Name, "err", err)
		}
		if err := r.End(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		window.SwapBuffers()
		hud.frame()

		if now-lastLog >= 1 {
			st := r.Stats()
			window.SetTitle(hud.title(st, now-lastLog))
			lastLog = now
			core.Logger().Debug("stats", "draws", st.DrawCalls, "culled", st.Culled,
				"shaders", st.ShaderBinds, "textures", st.TextureBinds, "blended", st.Blended)
		}
	}
	return nil
}

// toggleHighlight swaps the nearest instance under ray between its own
// materials and the highlight material.
func toggleHighlight(items []drawable, ray scene.Ray, highlight *materials.Material) {
	best, bestDist := -1, float32(0)
	for i, it := range items {
		if t, _, ok := it.inst.Intersect(ray, it.model); ok && (best < 0 || t < bestDist) {
			best, bestDist = i, t
		}
	}
	if best < 0 {
		return
	}
	it := items[best]
	if it.inst.Materials != nil {
		it.inst.Materials = nil
		return
	}
	it.inst.Materials = make([]*materials.Material, len(it.model.SubMeshes))
	for i := range it.inst.Materials {
		it.inst.Materials[i] = highlight
	}
	core.Logger().Info("picked", "model", it.model.Name, "distance", bestDist)
}

func loadModel(path string, tm *textures.Manager) (*scene.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return scene.LoadGLTF(path, tm)
	case ".obj":
		return scene.LoadOBJ(os.DirFS(filepath.Dir(path)), filepath.Base(path), tm)
	}
	return nil, fmt.Errorf("unsupported model format %q", path)
}

// cubeField lays out a ground plane and a grid of textured opaque cubes with a
// translucent sphere on every other cell.
func cubeField(tm *textures.Manager, opts textures.Options) ([]drawable, error) {
	opts.MinFilter = gpu.MipMapLinearLinear
	opts.UWrap, opts.VWrap = gpu.Repeat, gpu.Repeat
	checker, err := tm.FromImage(checkerboard(64, 8), opts)
	if err != nil {
		return nil, err
	}

	stone := materials.New("stone",
		materials.NewTextureAttribute(materials.DiffuseTexture, checker, 0),
		materials.NewColorAttribute(materials.DiffuseColor, core.Color{R: 0.8, G: 0.75, B: 0.7, A: 1}),
		materials.NewFloatAttribute(materials.Shininess, 16))
	glass := materials.New("glass",
		materials.NewColorAttribute(materials.DiffuseColor, core.Color{R: 0.3, G: 0.6, B: 1, A: 0.4}),
		materials.NewColorAttribute(materials.SpecularColor, core.ColorWhite),
		materials.NewFloatAttribute(materials.Shininess, 64),
		materials.NewBlendingAttribute(materials.Translucent))

	solid := scene.NewModel("stone", &scene.SubMesh{Name: "cube", Mesh: scene.NewCube(1), Material: stone})
	translucent := scene.NewModel("glass", &scene.SubMesh{Name: "sphere", Mesh: scene.NewSphere(0.7, 24, 16), Material: glass})
	ground := scene.NewModel("ground", &scene.SubMesh{Name: "plane", Mesh: scene.NewPlane(16, 16, 8), Material: stone})

	out := []drawable{{ground, scene.NewInstance(ground, mgl32.Translate3D(0, -0.5, 0))}}
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			pos := mgl32.Translate3D(float32(x)*2, 0, float32(z)*2)
			model := solid
			if (x+z)%2 != 0 {
				model = translucent
			}
			out = append(out, drawable{model, scene.NewInstance(model, pos)})
		}
	}
	return out, nil
}

func checkerboard(size, cells int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	step := size / cells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
			if (x/step+y/step)%2 == 0 {
				c = color.NRGBA{R: 60, G: 60, B: 70, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// pulsingCube is a cube whose vertices breathe between two scales.
func pulsingCube(transform mgl32.Mat4) (*scene.AnimatedModel, *scene.AnimatedInstance, error) {
	mesh := scene.NewCube(1)
	mat := materials.New("pulse", materials.NewColorAttribute(materials.DiffuseColor, core.ColorYellow),
		materials.NewColorAttribute(materials.EmissiveColor, core.Color{R: 0.2, G: 0.2, A: 1}))
	am := scene.NewAnimatedModel(scene.NewModel("pulse", &scene.SubMesh{Name: "cube", Mesh: mesh, Material: mat}))

	frame := func(scale float32) [][]mgl32.Vec3 {
		pos := make([]mgl32.Vec3, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			pos[i] = v.Position.Mul(scale)
		}
		return [][]mgl32.Vec3{pos}
	}
	err := am.AddAnimation(&scene.Animation{Name: "pulse", Keyframes: []scene.Keyframe{
		{Time: 0, Positions: frame(1)},
		{Time: 0.5, Positions: frame(1.4)},
		{Time: 1, Positions: frame(1)},
	}})
	if err != nil {
		return nil, nil, err
	}
	return am, scene.NewAnimatedInstance(am, transform, "pulse"), nil
}

func handleInput(w *core.Window, cam *scene.OrbitCamera, dt float32) {
	const orbitSpeed, zoomSpeed = 1.5, 8
	var yaw, pitch float32
	if w.IsKeyPressed(core.KeyLeft) || w.IsKeyPressed(core.KeyA) {
		yaw -= orbitSpeed * dt
	}
	if w.IsKeyPressed(core.KeyRight) || w.IsKeyPressed(core.KeyD) {
		yaw += orbitSpeed * dt
	}
	if w.IsKeyPressed(core.KeyUp) {
		pitch += orbitSpeed * dt
	}
	if w.IsKeyPressed(core.KeyDown) {
		pitch -= orbitSpeed * dt
	}
	if yaw != 0 || pitch != 0 {
		cam.Orbit(yaw, pitch)
	}
	if w.IsKeyPressed(core.KeyW) {
		cam.Zoom(-zoomSpeed * dt)
	}
	if w.IsKeyPressed(core.KeyS) {
		cam.Zoom(zoomSpeed * dt)
	}
}
