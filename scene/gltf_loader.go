package scene

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/materials"
	"gdx-render/textures"
)

// LoadGLTF opens a .glb or .gltf file and flattens its default scene into a
// Model with one sub-mesh per primitive. Node transforms are baked into the
// vertices. Base-colour factors and textures become material attributes and
// BLEND alpha mode adds a blending attribute. Textures are created through tm;
// a nil manager skips them.
func LoadGLTF(path string, tm *textures.Manager) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	log := core.Logger()
	dir := filepath.Dir(path)

	texCache := make([]*textures.Texture, len(doc.Textures))
	if tm != nil {
		for i, gt := range doc.Textures {
			if gt.Source == nil {
				continue
			}
			tex, err := loadGLTFImage(doc, *gt.Source, dir, tm)
			if err != nil {
				log.Warn("gltf image skipped", "file", path, "image", *gt.Source, "err", err)
				continue
			}
			texCache[i] = tex
		}
	}

	matCache := make([]*materials.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		matCache[i] = gltfMaterial(gm, texCache)
	}

	model := &Model{Name: filepath.Base(path)}
	var visit func(node int, parent mgl32.Mat4)
	visit = func(node int, parent mgl32.Mat4) {
		gn := doc.Nodes[node]
		world := parent.Mul4(nodeMatrix(gn))
		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				sm, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, world)
				if err != nil {
					log.Warn("gltf primitive skipped", "file", path, "mesh", gm.Name, "primitive", pi, "err", err)
					continue
				}
				if prim.Material != nil && *prim.Material < len(matCache) {
					sm.Material = matCache[*prim.Material]
				} else {
					sm.Material = DefaultMaterial()
				}
				model.SubMeshes = append(model.SubMeshes, sm)
			}
		}
		for _, c := range gn.Children {
			if c < len(doc.Nodes) {
				visit(c, world)
			}
		}
	}
	for _, root := range gltfRoots(doc) {
		visit(root, mgl32.Ident4())
	}

	if len(model.SubMeshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no drawable primitives", path)
	}
	log.Info("gltf loaded", "file", path, "submeshes", len(model.SubMeshes), "textures", len(doc.Textures))
	return model, nil
}

// DefaultMaterial is a white opaque material.
func DefaultMaterial() *materials.Material {
	return materials.New("default", materials.NewColorAttribute(materials.DiffuseColor, core.ColorWhite))
}

func gltfMaterial(gm *gltf.Material, texCache []*textures.Texture) *materials.Material {
	m := materials.New(gm.Name)
	base := core.ColorWhite
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		base = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
		if pbr.BaseColorTexture != nil {
			idx := pbr.BaseColorTexture.Index
			if idx < len(texCache) && texCache[idx] != nil {
				m.Add(materials.NewTextureAttribute(materials.DiffuseTexture, texCache[idx], 0))
			}
		}
		// Smooth surfaces get a tight highlight.
		rough := float32(pbr.RoughnessFactorOrDefault())
		m.Add(materials.NewFloatAttribute(materials.Shininess, (1-rough)*(1-rough)*128+1))
	}
	m.Add(materials.NewColorAttribute(materials.DiffuseColor, base))
	if gm.AlphaMode == gltf.AlphaBlend {
		m.Add(materials.NewBlendingAttribute(materials.Translucent))
	}
	return m
}

func loadGLTFImage(doc *gltf.Document, index int, dir string, tm *textures.Manager) (*textures.Texture, error) {
	img := doc.Images[index]
	opts := textures.DefaultOptions()
	opts.MinFilter = gpu.MipMapLinearLinear
	opts.UWrap, opts.VWrap = gpu.Repeat, gpu.Repeat

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("bufferview: %w", err)
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return tm.FromImage(decoded, opts)
	case img.URI != "" && !img.IsEmbeddedResource():
		return tm.LoadPath(filepath.Join(dir, img.URI), opts)
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("embedded: %w", err)
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return tm.FromImage(decoded, opts)
	}
	return nil, fmt.Errorf("image %d has no source", index)
}

// gltfRoots returns the default scene's root nodes, or every parentless node
// when no scene is set.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	if m := gn.MatrixOrDefault(); m != identity64 {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func gltfPrimitive(mode gltf.PrimitiveMode) (gpu.Primitive, error) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return gpu.Triangles, nil
	case gltf.PrimitiveTriangleStrip:
		return gpu.TriangleStrip, nil
	case gltf.PrimitiveTriangleFan:
		return gpu.TriangleFan, nil
	case gltf.PrimitiveLines:
		return gpu.Lines, nil
	case gltf.PrimitiveLineStrip:
		return gpu.LineStrip, nil
	case gltf.PrimitivePoints:
		return gpu.Points, nil
	}
	return 0, fmt.Errorf("primitive mode %d not supported", mode)
}

// loadGLTFPrimitive converts one primitive into a sub-mesh in world space.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, world mgl32.Mat4) (*SubMesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	mode, err := gltfPrimitive(prim.Mode)
	if err != nil {
		return nil, err
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	normalMat := world.Mat3().Inv().Transpose()
	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.TransformCoordinate(mgl32.Vec3(p), world),
			Normal:   normalMat.Mul3x1(mgl32.Vec3{0, 1, 0}).Normalize(),
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = normalMat.Mul3x1(mgl32.Vec3(normals[i])).Normalize()
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return &SubMesh{Name: name, Mesh: core.NewMesh(name, verts, indices), Primitive: mode}, nil
}
