package opengl

import (
	"testing"

	"github.com/go-gl/gl/v2.1/gl"

	"gdx-render/gpu"
)

func TestFormatMapping(t *testing.T) {
	tests := []struct {
		format       gpu.PixelFormat
		internal     gpu.InternalFormat
		wantFormat   uint32
		wantInternal int32
	}{
		{gpu.FormatAlpha, gpu.InternalAlpha8, gl.ALPHA, gl.ALPHA8},
		{gpu.FormatLuminance, gpu.InternalLuminance8, gl.LUMINANCE, gl.LUMINANCE8},
		{gpu.FormatLuminanceAlpha, gpu.InternalLuminance8Alpha8, gl.LUMINANCE_ALPHA, gl.LUMINANCE8_ALPHA8},
		{gpu.FormatRGB, gpu.InternalRGB8, gl.RGB, gl.RGB8},
		{gpu.FormatRGBA, gpu.InternalRGBA8, gl.RGBA, gl.RGBA8},
		{gpu.FormatBGRA, gpu.InternalBGRA, gl.BGRA, gl.BGRA},
	}
	for _, tt := range tests {
		if got := glFormat(tt.format); got != tt.wantFormat {
			t.Errorf("glFormat(%s) = %#x, want %#x", tt.format, got, tt.wantFormat)
		}
		if got := glInternalFormat(tt.internal); got != tt.wantInternal {
			t.Errorf("glInternalFormat(%d) = %#x, want %#x", tt.internal, got, tt.wantInternal)
		}
	}
}

func TestUnknownFormatPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"pixel format", func() { glFormat(gpu.PixelFormat(99)) }},
		{"internal format", func() { glInternalFormat(gpu.InternalFormat(99)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("unknown format mapped without panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestFilterAndWrapMapping(t *testing.T) {
	filters := map[gpu.Filter]int32{
		gpu.Nearest:              gl.NEAREST,
		gpu.Linear:               gl.LINEAR,
		gpu.MipMap:               gl.LINEAR_MIPMAP_LINEAR,
		gpu.MipMapNearestNearest: gl.NEAREST_MIPMAP_NEAREST,
		gpu.MipMapLinearNearest:  gl.LINEAR_MIPMAP_NEAREST,
		gpu.MipMapNearestLinear:  gl.NEAREST_MIPMAP_LINEAR,
		gpu.MipMapLinearLinear:   gl.LINEAR_MIPMAP_LINEAR,
	}
	for f, want := range filters {
		if got := glFilter(f); got != want {
			t.Errorf("glFilter(%d) = %#x, want %#x", f, got, want)
		}
	}
	if glWrap(gpu.Repeat) != gl.REPEAT || glWrap(gpu.ClampToEdge) != gl.CLAMP_TO_EDGE {
		t.Error("wrap mapping mismatch")
	}
}
