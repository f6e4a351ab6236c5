package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"

	"gdx-render/gpu"
)

func glFormat(f gpu.PixelFormat) uint32 {
	switch f {
	case gpu.FormatAlpha:
		return gl.ALPHA
	case gpu.FormatLuminance:
		return gl.LUMINANCE
	case gpu.FormatLuminanceAlpha:
		return gl.LUMINANCE_ALPHA
	case gpu.FormatRGB:
		return gl.RGB
	case gpu.FormatRGBA:
		return gl.RGBA
	case gpu.FormatBGRA:
		return gl.BGRA
	}
	panic(fmt.Sprintf("opengl: unknown pixel format %d", f))
}

func glInternalFormat(f gpu.InternalFormat) int32 {
	switch f {
	case gpu.InternalAlpha8:
		return gl.ALPHA8
	case gpu.InternalLuminance8:
		return gl.LUMINANCE8
	case gpu.InternalLuminance8Alpha8:
		return gl.LUMINANCE8_ALPHA8
	case gpu.InternalRGB8:
		return gl.RGB8
	case gpu.InternalRGBA8:
		return gl.RGBA8
	case gpu.InternalBGRA:
		return gl.BGRA
	}
	panic(fmt.Sprintf("opengl: unknown internal format %d", f))
}

func glFilter(f gpu.Filter) int32 {
	switch f {
	case gpu.Nearest:
		return gl.NEAREST
	case gpu.Linear:
		return gl.LINEAR
	case gpu.MipMapNearestNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case gpu.MipMapLinearNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	case gpu.MipMapNearestLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	}
	// MipMap is trilinear.
	return gl.LINEAR_MIPMAP_LINEAR
}

func glWrap(w gpu.Wrap) int32 {
	if w == gpu.Repeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func glBlendFactor(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.Zero:
		return gl.ZERO
	case gpu.One:
		return gl.ONE
	case gpu.SrcColor:
		return gl.SRC_COLOR
	case gpu.OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case gpu.DstColor:
		return gl.DST_COLOR
	case gpu.OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case gpu.SrcAlpha:
		return gl.SRC_ALPHA
	case gpu.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gpu.DstAlpha:
		return gl.DST_ALPHA
	case gpu.OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	}
	return gl.ONE
}

func glPrimitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gpu.TriangleFan:
		return gl.TRIANGLE_FAN
	case gpu.Lines:
		return gl.LINES
	case gpu.LineStrip:
		return gl.LINE_STRIP
	case gpu.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}
