// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/gpu"
)

// Call is one recorded device or program invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Upload captures a TexImage2D or TexSubImage2D call.
type Upload struct {
	Handle        uint32
	Level         int
	X, Y          int
	Width, Height int
	Internal      gpu.InternalFormat
	Format        gpu.PixelFormat
	Sub           bool
	Pixels        []byte
}

// Recorder implements gpu.Device. Pixel data passed to uploads is copied so
// tests can inspect it after the staging buffer is reused.
type Recorder struct {
	Calls    []Call
	Uploads  []Upload
	Programs []*Program

	// CompileErr, when set, is returned by NewProgram.
	CompileErr error

	nextHandle uint32
	bound      map[int]uint32
	active     int
	live       map[uint32]bool
	blending   bool
	depthMask  bool
	uploaded   map[*core.Mesh]bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		bound:     make(map[int]uint32),
		live:      make(map[uint32]bool),
		uploaded:  make(map[*core.Mesh]bool),
		depthMask: true,
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

// Count returns how many calls named op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the ordered call names, optionally filtered to the given set.
func (r *Recorder) Ops(filter ...string) []string {
	keep := make(map[string]bool, len(filter))
	for _, f := range filter {
		keep[f] = true
	}
	var out []string
	for _, c := range r.Calls {
		if len(keep) == 0 || keep[c.Op] {
			out = append(out, c.Op)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps device state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Uploads = nil
	for _, p := range r.Programs {
		p.Calls = nil
	}
}

func (r *Recorder) Live() int { return len(r.live) }
func (r *Recorder) Bound(unit int) uint32 { return r.bound[unit] }
func (r *Recorder) Blending() bool { return r.blending }
func (r *Recorder) DepthMask() bool { return r.depthMask }

func (r *Recorder) GenTexture() uint32 {
	r.nextHandle++
	r.live[r.nextHandle] = true
	r.record("GenTexture", r.nextHandle)
	return r.nextHandle
}

func (r *Recorder) DeleteTexture(handle uint32) {
	delete(r.live, handle)
	r.record("DeleteTexture", handle)
}

func (r *Recorder) BindTexture(unit int, handle uint32) {
	r.active = unit
	r.bound[unit] = handle
	r.record("BindTexture", unit, handle)
}

func (r *Recorder) TexImage2D(level int, internal gpu.InternalFormat, width, height int, format gpu.PixelFormat, pixels []byte) {
	r.Uploads = append(r.Uploads, Upload{
		Handle: r.bound[r.active], Level: level, Width: width, Height: height,
		Internal: internal, Format: format, Pixels: append([]byte(nil), pixels...),
	})
	r.record("TexImage2D", level, width, height)
}

func (r *Recorder) TexSubImage2D(level, x, y, width, height int, format gpu.PixelFormat, pixels []byte) {
	r.Uploads = append(r.Uploads, Upload{
		Handle: r.bound[r.active], Level: level, X: x, Y: y, Width: width, Height: height,
		Format: format, Sub: true, Pixels: append([]byte(nil), pixels...),
	})
	r.record("TexSubImage2D", level, x, y, width, height)
}

func (r *Recorder) TexParameters(min, mag gpu.Filter, u, v gpu.Wrap) {
	r.record("TexParameters", min, mag, u, v)
}

func (r *Recorder) NewProgram(vertex, fragment string) (gpu.Program, error) {
	if r.CompileErr != nil {
		return nil, r.CompileErr
	}
	p := &Program{ID: len(r.Programs) + 1, Vertex: vertex, Fragment: fragment, dev: r}
	r.Programs = append(r.Programs, p)
	r.record("NewProgram", p.ID)
	return p, nil
}

func (r *Recorder) SetBlending(enabled bool) {
	r.blending = enabled
	r.record("SetBlending", enabled)
}

func (r *Recorder) SetDepthMask(write bool) {
	r.depthMask = write
	r.record("SetDepthMask", write)
}

func (r *Recorder) BlendFunc(src, dst gpu.BlendFactor) {
	r.record("BlendFunc", src, dst)
}

func (r *Recorder) DrawMesh(mesh *core.Mesh, p gpu.Program, prim gpu.Primitive) {
	if !r.uploaded[mesh] || mesh.Dirty {
		r.uploaded[mesh] = true
		mesh.Dirty = false
	}
	id := 0
	if rp, ok := p.(*Program); ok {
		id = rp.ID
	}
	r.record("DrawMesh", mesh.Name, id, prim)
}

func (r *Recorder) ReleaseMesh(mesh *core.Mesh) {
	delete(r.uploaded, mesh)
	r.record("ReleaseMesh", mesh.Name)
}

// Program records uniform traffic and tracks whether it is bound.
type Program struct {
	ID       int
	Vertex   string
	Fragment string
	Active   bool
	Disposed bool
	Calls    []Call

	Ints     map[string]int32
	Floats   map[string][]float32
	Matrices map[string]mgl32.Mat4

	dev *Recorder
}

func (p *Program) record(op string, args ...any) {
	p.Calls = append(p.Calls, Call{Op: op, Args: args})
	p.dev.record(op, append([]any{p.ID}, args...)...)
}

func (p *Program) Begin() {
	p.Active = true
	p.record("Begin")
}

func (p *Program) End() {
	p.Active = false
	p.record("End")
}

func (p *Program) SetUniformMatrix4(name string, m mgl32.Mat4) {
	if p.Matrices == nil {
		p.Matrices = make(map[string]mgl32.Mat4)
	}
	p.Matrices[name] = m
	p.record("SetUniformMatrix4", name)
}

func (p *Program) SetUniformMatrix3(name string, m mgl32.Mat3) {
	p.record("SetUniformMatrix3", name)
}

func (p *Program) SetUniformi(name string, v int32) {
	if p.Ints == nil {
		p.Ints = make(map[string]int32)
	}
	p.Ints[name] = v
	p.record("SetUniformi", name, v)
}

func (p *Program) SetUniformf(name string, v ...float32) {
	if p.Floats == nil {
		p.Floats = make(map[string][]float32)
	}
	p.Floats[name] = append([]float32(nil), v...)
	p.record("SetUniformf", name)
}

func (p *Program) SetUniform3fv(name string, v []float32) {
	if p.Floats == nil {
		p.Floats = make(map[string][]float32)
	}
	p.Floats[name] = append([]float32(nil), v...)
	p.record("SetUniform3fv", name)
}

func (p *Program) Dispose() {
	p.Disposed = true
	p.record("Dispose")
}

// Count returns how many calls named op this program received.
func (p *Program) Count(op string) int {
	n := 0
	for _, c := range p.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
