// Package textures decodes images and uploads them to GPU textures.
package textures

import (
	"fmt"
	"image"

	"gdx-render/gpu"
)

// Texture is a GPU texture created by a Manager.
type Texture struct {
	mgr       *Manager
	handle    uint32
	width     int
	height    int
	managed   bool
	mipmapped bool
	opts      Options
}

func (t *Texture) Handle() uint32 { return t.handle }
func (t *Texture) Width() int { return t.width }
func (t *Texture) Height() int { return t.height }
func (t *Texture) IsManaged() bool { return t.managed }
func (t *Texture) IsMipMapped() bool { return t.mipmapped }

// Options returns the sampling parameters last applied to t.
func (t *Texture) Options() Options { return t.opts }

// Bind makes t the texture on unit.
func (t *Texture) Bind(unit int) {
	t.mgr.dev.BindTexture(unit, t.handle)
}

// Configure binds t on unit and applies the given sampling parameters.
func (t *Texture) Configure(unit int, min, mag gpu.Filter, u, v gpu.Wrap) {
	t.Bind(unit)
	t.mgr.dev.TexParameters(min, mag, u, v)
	t.opts.MinFilter, t.opts.MagFilter = min, mag
	t.opts.UWrap, t.opts.VWrap = u, v
}

// SetFilter binds t on unit 0 and changes its filters.
func (t *Texture) SetFilter(min, mag gpu.Filter) {
	t.Configure(0, min, mag, t.opts.UWrap, t.opts.VWrap)
}

// SetWrap binds t on unit 0 and changes its wrap modes.
func (t *Texture) SetWrap(u, v gpu.Wrap) {
	t.Configure(0, t.opts.MinFilter, t.opts.MagFilter, u, v)
}

// Draw overwrites the region of t at (x, y) with img. Mipmapped textures get
// each level updated with a downscaled copy at the matching offset.
func (t *Texture) Draw(img image.Image, x, y int) error {
	if t.managed {
		return ErrManagedTexture
	}
	b := img.Bounds()
	if x < 0 || y < 0 || x+b.Dx() > t.width || y+b.Dy() > t.height {
		return fmt.Errorf("draw %dx%d at (%d,%d) exceeds %dx%d texture", b.Dx(), b.Dy(), x, y, t.width, t.height)
	}
	if b.Empty() {
		return nil
	}
	t.Bind(0)
	t.uploadChain(img, true, x, y)
	return nil
}

// Dispose deletes the GPU texture. Calling it again is a no-op.
func (t *Texture) Dispose() {
	if t.handle == 0 {
		return
	}
	t.release()
	t.mgr.live--
}

func (t *Texture) release() {
	if t.handle != 0 {
		t.mgr.dev.DeleteTexture(t.handle)
		t.handle = 0
	}
}

// finish applies the creation options and counts t as live.
func (t *Texture) finish() {
	t.Configure(0, t.opts.MinFilter, t.opts.MagFilter, t.opts.UWrap, t.opts.VWrap)
	t.mgr.live++
}

func (t *Texture) String() string {
	return fmt.Sprintf("Texture(%d, %dx%d)", t.handle, t.width, t.height)
}
