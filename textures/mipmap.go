package textures

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"

	"gdx-render/gpu"
)

var errEmptyImage = errors.New("image has no pixels")

// boxFilter averages each 2x2 source block when halving an image.
var boxFilter = &draw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		if math.Abs(t) < 0.5 {
			return 1
		}
		return 0
	},
}

// MipChain returns the size of every level uploaded for a width x height
// image. Each level halves both dimensions, clamped to 1, and the chain stops
// as soon as either dimension reaches 1. Without mipmapping only level 0 is
// returned.
func MipChain(width, height int, mipmapped bool) []image.Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	levels := []image.Point{{X: width, Y: height}}
	for mipmapped && width > 1 && height > 1 {
		width = max(1, width/2)
		height = max(1, height/2)
		levels = append(levels, image.Pt(width, height))
	}
	return levels
}

// loadMipMap creates the GPU texture and uploads img with its mip chain.
func (t *Texture) loadMipMap(img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return errEmptyImage
	}
	t.handle = t.mgr.dev.GenTexture()
	t.width, t.height = b.Dx(), b.Dy()
	t.Bind(0)
	t.uploadChain(img, false, 0, 0)
	return nil
}

// uploadChain uploads img as level 0 and, for mipmapped textures, each
// halved copy as the next level. Sub-image offsets shift with the level.
func (t *Texture) uploadChain(img image.Image, sub bool, x, y int) {
	dev := t.mgr.dev
	for level := 0; ; level++ {
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		if w == 0 || h == 0 {
			return
		}
		pix := t.mgr.rgba(img)
		if sub {
			dev.TexSubImage2D(level, x>>level, y>>level, w, h, gpu.FormatRGBA, pix)
		} else {
			dev.TexImage2D(level, gpu.InternalRGBA8, w, h, gpu.FormatRGBA, pix)
		}
		if w == 1 || h == 1 || !t.mipmapped {
			return
		}
		img = halve(img)
	}
}

// rgba converts img to tightly packed non-premultiplied RGBA in the staging buffer.
func (m *Manager) rgba(img image.Image) []byte {
	b := img.Bounds()
	dst := &image.NRGBA{
		Pix:    m.Staging(b.Dx() * b.Dy() * 4),
		Stride: b.Dx() * 4,
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
	}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst.Pix
}

func halve(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, max(1, b.Dx()/2), max(1, b.Dy()/2)))
	boxFilter.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}
