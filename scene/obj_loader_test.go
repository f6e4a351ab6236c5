package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu/gputest"
	"gdx-render/materials"
	"gdx-render/textures"
)

const testOBJ = `# two groups sharing a vertex pool
mtllib scene.mtl
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
o floor
usemtl brick
f 1/1 2/2 3/3 4/4
o pane
usemtl glass
f -4 -3 -2
`

const testMTL = `newmtl brick
Kd 0.5 0.25 0.125
Ks 1 1 1
Ns 32
map_Kd textures/brick.png

newmtl glass
Kd 0 0 1
d 0.5
`

func objFS(t *testing.T) fstest.MapFS {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return fstest.MapFS{
		"models/scene.obj":           {Data: []byte(testOBJ)},
		"models/scene.mtl":           {Data: []byte(testMTL)},
		"models/textures/brick.png":  {Data: buf.Bytes()},
		"models/broken.obj":          {Data: []byte("v 0 0 0\n")},
		"models/missing_library.obj": {Data: []byte("mtllib nope.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")},
	}
}

func TestLoadOBJ(t *testing.T) {
	tm := textures.NewManager(gputest.NewRecorder())
	m, err := LoadOBJ(objFS(t), "models/scene.obj", tm)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.SubMeshes) != 2 {
		t.Fatalf("got %d sub-meshes, want 2", len(m.SubMeshes))
	}

	floor := m.SubMesh("floor")
	if floor == nil {
		t.Fatal("no floor sub-mesh")
	}
	if len(floor.Mesh.Vertices) != 4 || len(floor.Mesh.Indices) != 6 {
		t.Errorf("floor: %d vertices, %d indices; want 4, 6", len(floor.Mesh.Vertices), len(floor.Mesh.Indices))
	}
	if uv := floor.Mesh.Vertices[0].UV; uv.Y() != 1 {
		t.Errorf("V not flipped: %v", uv)
	}
	if n := floor.Mesh.Vertices[0].Normal; !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("generated normal = %v", n)
	}

	brick := floor.Material
	if c, _ := brick.Color(materials.DiffuseColor); c != (core.Color{R: 0.5, G: 0.25, B: 0.125, A: 1}) {
		t.Errorf("brick diffuse = %v", c)
	}
	if !brick.Has(materials.SpecularColor) || !brick.Has(materials.Shininess) {
		t.Errorf("brick attributes = %v", brick)
	}
	if ta := brick.Texture(materials.DiffuseTexture); ta == nil || ta.Texture.Width() != 2 {
		t.Errorf("brick texture = %v", ta)
	}
	if brick.NeedsBlending {
		t.Error("opaque material flagged as blending")
	}

	pane := m.SubMesh("pane")
	if pane == nil || !pane.Material.NeedsBlending {
		t.Fatalf("pane = %v", pane)
	}
	if got := pane.Mesh.Vertices[2].Position; got != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("negative index resolved to %v", got)
	}
}

func TestLoadOBJErrors(t *testing.T) {
	fsys := objFS(t)
	if _, err := LoadOBJ(fsys, "models/broken.obj", nil); err == nil {
		t.Error("obj without faces accepted")
	}
	if _, err := LoadOBJ(fsys, "models/absent.obj", nil); err == nil {
		t.Error("missing file accepted")
	}

	m, err := LoadOBJ(fsys, "models/missing_library.obj", nil)
	if err != nil {
		t.Fatalf("missing mtl library should not fail: %v", err)
	}
	if m.SubMeshes[0].Material.Name != "default" {
		t.Errorf("material = %v, want default", m.SubMeshes[0].Material)
	}
}
