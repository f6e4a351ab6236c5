// Package opengl implements gpu.Device on an OpenGL 2.1 context.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"

	"gdx-render/core"
	"gdx-render/gpu"
)

// Device is the OpenGL backend. All methods must run on the thread that owns
// the context.
type Device struct {
	meshes map[*core.Mesh]*gpuMesh
}

var _ gpu.Device = (*Device)(nil)

// NewDevice initialises the GL function pointers for the current context.
// Must be called after the window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.Logger().Info("OpenGL initialised",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	// Uploads are tightly packed; rows of 1- and 3-byte pixels are not 4-aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return &Device{meshes: make(map[*core.Mesh]*gpuMesh)}, nil
}

// Clear sets the viewport and clears colour and depth.
func (d *Device) Clear(width, height int, c core.Color) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (d *Device) DeleteTexture(handle uint32) {
	gl.DeleteTextures(1, &handle)
}

func (d *Device) BindTexture(unit int, handle uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, handle)
}

func (d *Device) TexImage2D(level int, internal gpu.InternalFormat, width, height int, format gpu.PixelFormat, pixels []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, int32(level), glInternalFormat(internal),
		int32(width), int32(height), 0, glFormat(format), gl.UNSIGNED_BYTE, ptr(pixels))
}

func (d *Device) TexSubImage2D(level, x, y, width, height int, format gpu.PixelFormat, pixels []byte) {
	gl.TexSubImage2D(gl.TEXTURE_2D, int32(level), int32(x), int32(y),
		int32(width), int32(height), glFormat(format), gl.UNSIGNED_BYTE, ptr(pixels))
}

func (d *Device) TexParameters(min, mag gpu.Filter, u, v gpu.Wrap) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(min))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(mag))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(u))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(v))
}

func (d *Device) SetBlending(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) SetDepthMask(write bool) {
	gl.DepthMask(write)
}

func (d *Device) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(glBlendFactor(src), glBlendFactor(dst))
}

// Destroy releases every mesh buffer the device still owns.
func (d *Device) Destroy() {
	for mesh := range d.meshes {
		d.ReleaseMesh(mesh)
	}
}

func ptr(pixels []byte) unsafe.Pointer {
	if len(pixels) == 0 {
		return nil
	}
	return gl.Ptr(pixels)
}
