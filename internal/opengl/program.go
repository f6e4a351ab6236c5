package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/gpu"
)

// program is a linked GLSL program with a per-name uniform location cache.
type program struct {
	id        uint32
	locations map[string]int32
}

// NewProgram compiles and links a vertex/fragment pair.
func (d *Device) NewProgram(vertex, fragment string) (gpu.Program, error) {
	id, err := newProgram(vertex, fragment)
	if err != nil {
		return nil, err
	}
	return &program{id: id, locations: make(map[string]int32)}, nil
}

func (p *program) Begin() { gl.UseProgram(p.id) }
func (p *program) End()   { gl.UseProgram(0) }

func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *program) SetUniformMatrix4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (p *program) SetUniformMatrix3(name string, m mgl32.Mat3) {
	if loc := p.location(name); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

func (p *program) SetUniformi(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (p *program) SetUniformf(name string, v ...float32) {
	loc := p.location(name)
	if loc < 0 {
		return
	}
	switch len(v) {
	case 1:
		gl.Uniform1f(loc, v[0])
	case 2:
		gl.Uniform2f(loc, v[0], v[1])
	case 3:
		gl.Uniform3f(loc, v[0], v[1], v[2])
	case 4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetUniform3fv uploads a vec3 array; len(v) must be a multiple of 3.
func (p *program) SetUniform3fv(name string, v []float32) {
	if loc := p.location(name); loc >= 0 && len(v) >= 3 {
		gl.Uniform3fv(loc, int32(len(v)/3), &v[0])
	}
}

func (p *program) Dispose() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	for loc, name := range attribNames {
		gl.BindAttribLocation(prog, uint32(loc), gl.Str(name+"\x00"))
	}
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
