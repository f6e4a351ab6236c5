// Package gpu defines the command-submission surface the renderer and the
// texture uploader are written against. The OpenGL implementation lives in
// internal/opengl; gpu/gputest provides a recording fake for tests.
package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
)

// Primitive selects how a mesh's indices are assembled.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
	TriangleFan
	Lines
	LineStrip
	Points
)

// PixelFormat is the layout of client-side pixel data handed to an upload.
type PixelFormat int

const (
	FormatAlpha PixelFormat = iota
	FormatLuminance
	FormatLuminanceAlpha
	FormatRGB
	FormatRGBA
	FormatBGRA
)

// BytesPerPixel reports the tightly packed size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatAlpha, FormatLuminance:
		return 1
	case FormatLuminanceAlpha:
		return 2
	case FormatRGB:
		return 3
	default:
		return 4
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatAlpha:
		return "ALPHA"
	case FormatLuminance:
		return "LUMINANCE"
	case FormatLuminanceAlpha:
		return "LUMINANCE_ALPHA"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	case FormatBGRA:
		return "BGRA"
	}
	return "UNKNOWN"
}

// InternalFormat is the storage format the GPU keeps a texture in.
type InternalFormat int

const (
	InternalAlpha8 InternalFormat = iota
	InternalLuminance8
	InternalLuminance8Alpha8
	InternalRGB8
	InternalRGBA8
	InternalBGRA
)

// Filter is a texture minification/magnification filter.
type Filter int

const (
	Nearest Filter = iota
	Linear
	MipMap
	MipMapNearestNearest
	MipMapLinearNearest
	MipMapNearestLinear
	MipMapLinearLinear
)

// IsMipMap reports whether sampling with f reads levels beyond 0.
func (f Filter) IsMipMap() bool {
	return f != Nearest && f != Linear
}

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	ClampToEdge Wrap = iota
	Repeat
)

// BlendFactor is a source or destination blend factor.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	DstColor
	OneMinusDstColor
	SrcAlpha
	OneMinusSrcAlpha
	DstAlpha
	OneMinusDstAlpha
)

// TextureDevice is the subset of Device needed to create and update textures.
// Texture calls act on the texture bound to the active unit.
type TextureDevice interface {
	GenTexture() uint32
	DeleteTexture(handle uint32)
	BindTexture(unit int, handle uint32)
	TexImage2D(level int, internal InternalFormat, width, height int, format PixelFormat, pixels []byte)
	TexSubImage2D(level, x, y, width, height int, format PixelFormat, pixels []byte)
	TexParameters(min, mag Filter, u, v Wrap)
}

// Device is a single GPU context. It is not safe for concurrent use; every
// call must come from the thread that owns the context.
type Device interface {
	TextureDevice

	NewProgram(vertex, fragment string) (Program, error)

	SetBlending(enabled bool)
	SetDepthMask(write bool)
	BlendFunc(src, dst BlendFactor)

	// DrawMesh uploads mesh on first use (or when Dirty) and draws it with p.
	DrawMesh(mesh *core.Mesh, p Program, prim Primitive)
	ReleaseMesh(mesh *core.Mesh)
}

// Program is a linked shader program. Uniform setters address uniforms by
// name; unknown names are ignored.
type Program interface {
	Begin()
	End()
	SetUniformMatrix4(name string, m mgl32.Mat4)
	SetUniformMatrix3(name string, m mgl32.Mat3)
	SetUniformi(name string, v int32)
	SetUniformf(name string, v ...float32)
	SetUniform3fv(name string, v []float32)
	Dispose()
}
