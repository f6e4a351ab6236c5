package scene

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/materials"
	"gdx-render/textures"
)

// objFace is a triangle of 0-based position/UV/normal references (-1 = absent).
type objFace struct {
	v, vt, vn [3]int
}

type objGroup struct {
	name    string
	matName string
	faces   []objFace
}

// LoadOBJ parses a Wavefront .obj file from fsys into a Model with one
// sub-mesh per object or group. A referenced .mtl library is loaded next to
// it; its diffuse maps become textures created through tm (nil skips them).
func LoadOBJ(fsys fs.FS, name string, tm *textures.Manager) (*Model, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", name, err)
	}
	defer f.Close()

	dir := path.Dir(name)
	var positions, normals []mgl32.Vec3
	var uvs []mgl32.Vec2
	mtl := map[string]*materials.Material{}

	var groups []objGroup
	cur := &objGroup{name: "default"}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) >= 4 {
				positions = append(positions, parseVec3(fields[1:4]))
			}
		case "vn":
			if len(fields) >= 4 {
				normals = append(normals, parseVec3(fields[1:4]))
			}
		case "vt":
			if len(fields) >= 3 {
				u, _ := strconv.ParseFloat(fields[1], 32)
				v, _ := strconv.ParseFloat(fields[2], 32)
				uvs = append(uvs, mgl32.Vec2{float32(u), float32(v)})
			}
		case "o", "g":
			if len(cur.faces) > 0 {
				groups = append(groups, *cur)
			}
			groupName := "default"
			if len(fields) > 1 {
				groupName = fields[1]
			}
			cur = &objGroup{name: groupName, matName: cur.matName}
		case "usemtl":
			if len(fields) > 1 {
				if len(cur.faces) > 0 {
					groups = append(groups, *cur)
					cur = &objGroup{name: cur.name}
				}
				cur.matName = fields[1]
			}
		case "mtllib":
			if len(fields) > 1 {
				lib := path.Join(dir, fields[1])
				loaded, err := loadMTL(fsys, lib, tm)
				if err != nil {
					core.Logger().Warn("obj material library skipped", "file", lib, "err", err)
					break
				}
				for k, m := range loaded {
					mtl[k] = m
				}
			}
		case "f":
			if len(fields) < 4 {
				continue
			}
			refs := make([][3]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				refs = append(refs, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(refs); i++ {
				a, b, c := refs[0], refs[i], refs[i+1]
				cur.faces = append(cur.faces, objFace{
					v:  [3]int{a[0], b[0], c[0]},
					vt: [3]int{a[1], b[1], c[1]},
					vn: [3]int{a[2], b[2], c[2]},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj %q: %w", name, err)
	}
	if len(cur.faces) > 0 {
		groups = append(groups, *cur)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", name)
	}

	model := &Model{Name: path.Base(name)}
	for _, g := range groups {
		mesh := buildOBJMesh(g.name, g.faces, positions, normals, uvs)
		mat, ok := mtl[g.matName]
		if !ok {
			mat = DefaultMaterial()
		}
		model.SubMeshes = append(model.SubMeshes, &SubMesh{
			Name:      g.name,
			Mesh:      mesh,
			Material:  mat,
			Primitive: gpu.Triangles,
		})
	}
	return model, nil
}

func parseVec3(f []string) mgl32.Vec3 {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		x, _ := strconv.ParseFloat(f[i], 32)
		v[i] = float32(x)
	}
	return v
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices. Negative OBJ indices count back from the current pool size.
func parseFaceVertex(tok string, nv, nvt, nvn int) [3]int {
	res := [3]int{-1, -1, -1}
	pools := [3]int{nv, nvt, nvn}
	for i, part := range strings.SplitN(tok, "/", 3) {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if n > 0 {
			res[i] = n - 1
		} else if n < 0 {
			res[i] = pools[i] + n
		}
	}
	return res
}

// buildOBJMesh deduplicates (v, vt, vn) triples into an indexed mesh.
func buildOBJMesh(name string, faces []objFace, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) *core.Mesh {
	type key struct{ v, vt, vn int }
	seen := map[key]uint32{}
	var vertices []core.Vertex
	var indices []uint32
	hasNormals := false

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := key{face.v[c], face.vt[c], face.vn[c]}
			if idx, ok := seen[k]; ok {
				indices = append(indices, idx)
				continue
			}
			v := core.Vertex{Normal: mgl32.Vec3{0, 1, 0}, Color: core.ColorWhite}
			if k.v >= 0 && k.v < len(positions) {
				v.Position = positions[k.v]
			}
			if k.vn >= 0 && k.vn < len(normals) {
				v.Normal = normals[k.vn]
				hasNormals = true
			}
			if k.vt >= 0 && k.vt < len(uvs) {
				// OBJ puts the V origin at the bottom.
				v.UV = mgl32.Vec2{uvs[k.vt].X(), 1 - uvs[k.vt].Y()}
			}
			idx := uint32(len(vertices))
			seen[k] = idx
			vertices = append(vertices, v)
			indices = append(indices, idx)
		}
	}

	if !hasNormals {
		generateNormals(vertices, indices)
	}
	return core.NewMesh(name, vertices, indices)
}

// generateNormals writes area-weighted vertex normals.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if accum[i].Len() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}

func loadMTL(fsys fs.FS, name string, tm *textures.Manager) (map[string]*materials.Material, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMTL(f, fsys, path.Dir(name), tm)
}

type mtlEntry struct {
	name      string
	diffuse   core.Color
	specular  *core.Color
	shininess float32
	texture   string
}

func parseMTL(r io.Reader, fsys fs.FS, dir string, tm *textures.Manager) (map[string]*materials.Material, error) {
	var entries []*mtlEntry
	var cur *mtlEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) > 1 {
				cur = &mtlEntry{name: fields[1], diffuse: core.ColorWhite}
				entries = append(entries, cur)
			}
			continue
		}
		if cur == nil {
			continue
		}
		switch fields[0] {
		case "Kd":
			if len(fields) >= 4 {
				v := parseVec3(fields[1:4])
				cur.diffuse = core.Color{R: v[0], G: v[1], B: v[2], A: cur.diffuse.A}
			}
		case "Ks":
			if len(fields) >= 4 {
				v := parseVec3(fields[1:4])
				cur.specular = &core.Color{R: v[0], G: v[1], B: v[2], A: 1}
			}
		case "Ns":
			if len(fields) >= 2 {
				ns, _ := strconv.ParseFloat(fields[1], 32)
				cur.shininess = float32(math.Max(1, ns))
			}
		case "d":
			if len(fields) >= 2 {
				d, _ := strconv.ParseFloat(fields[1], 32)
				cur.diffuse.A = float32(d)
			}
		case "Tr":
			if len(fields) >= 2 {
				tr, _ := strconv.ParseFloat(fields[1], 32)
				cur.diffuse.A = 1 - float32(tr)
			}
		case "map_Kd":
			if len(fields) >= 2 {
				cur.texture = fields[len(fields)-1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	mats := make(map[string]*materials.Material, len(entries))
	for _, e := range entries {
		m := materials.New(e.name, materials.NewColorAttribute(materials.DiffuseColor, e.diffuse))
		if e.specular != nil {
			m.Add(materials.NewColorAttribute(materials.SpecularColor, *e.specular))
		}
		if e.shininess > 0 {
			m.Add(materials.NewFloatAttribute(materials.Shininess, e.shininess))
		}
		if e.texture != "" && tm != nil {
			opts := textures.DefaultOptions()
			opts.UWrap, opts.VWrap = gpu.Repeat, gpu.Repeat
			tex, err := tm.LoadFile(fsys, path.Join(dir, e.texture), opts)
			if err != nil {
				core.Logger().Warn("mtl texture skipped", "material", e.name, "err", err)
			} else {
				m.Add(materials.NewTextureAttribute(materials.DiffuseTexture, tex, 0))
			}
		}
		if e.diffuse.A < 1 {
			m.Add(materials.NewBlendingAttribute(materials.Translucent))
		}
		mats[e.name] = m
	}
	return mats, nil
}
