package textures

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gdx-render/core"
	"gdx-render/gpu"
)

var (
	// ErrUnsupportedFormat is returned when a decoded pixel format has no GPU mapping.
	ErrUnsupportedFormat = errors.New("textures: pixel format not handled")
	// ErrManagedTexture is returned by Draw on a managed texture.
	ErrManagedTexture = errors.New("textures: can't draw to a managed texture")
)

// Options configures sampling and ownership for a new texture.
type Options struct {
	MinFilter gpu.Filter
	MagFilter gpu.Filter
	UWrap     gpu.Wrap
	VWrap     gpu.Wrap

	// Managed textures are reloaded by their owner and may not be drawn into.
	Managed bool
}

func DefaultOptions() Options {
	return Options{
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		UWrap:     gpu.ClampToEdge,
		VWrap:     gpu.ClampToEdge,
	}
}

// TextureData uploads its own pixels into the texture bound on unit 0.
// Use it for data the uploader does not decode itself (compressed, procedural).
type TextureData interface {
	Width() int
	Height() int
	Load(dev gpu.TextureDevice) error
}

// Manager owns the texture staging buffer and the live-texture count for one
// device. It is not safe for concurrent use: every load shares the staging
// buffer, so loads must be serialised by the caller.
type Manager struct {
	dev     gpu.TextureDevice
	staging []byte
	live    int
}

func NewManager(dev gpu.TextureDevice) *Manager {
	return &Manager{dev: dev}
}

// Device returns the device textures are created on.
func (m *Manager) Device() gpu.TextureDevice { return m.dev }

// Live reports how many textures created by m have not been disposed.
func (m *Manager) Live() int { return m.live }

// Staging returns a scratch buffer of exactly size bytes. The backing array
// only grows; a smaller request reuses the previous allocation.
func (m *Manager) Staging(size int) []byte {
	if cap(m.staging) < size {
		m.staging = make([]byte, size)
	}
	return m.staging[:size]
}

// StagingCapacity reports the current staging allocation in bytes.
func (m *Manager) StagingCapacity() int { return cap(m.staging) }

// LoadFile creates a texture from an encoded image in fsys.
//
// Non-mipmapped PNG files take a fast path that decodes straight into the
// staging buffer in the closest GPU format and uploads a single level. Every
// other source is decoded to RGBA and uploaded as a full mip chain when the
// min filter asks for one.
func (m *Manager) LoadFile(fsys fs.FS, name string, opts Options) (*Texture, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("error loading image file %s: %w", name, err)
	}

	t := m.newTexture(opts)
	if !t.mipmapped && strings.HasSuffix(strings.ToLower(name), ".png") {
		err = t.loadPNG(data)
	} else {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		if err == nil {
			err = t.loadMipMap(img)
		}
	}
	if err != nil {
		t.release()
		return nil, fmt.Errorf("error loading image file %s: %w", name, err)
	}

	t.finish()
	core.Logger().Debug("texture loaded", "file", name, "width", t.width, "height", t.height, "mipmapped", t.mipmapped)
	return t, nil
}

// LoadPath is LoadFile on the host file system.
func (m *Manager) LoadPath(path string, opts Options) (*Texture, error) {
	return m.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path), opts)
}

// FromImage allocates a blank texture the size of img and draws img into it,
// including its mip chain when opts asks for one.
func (m *Manager) FromImage(img image.Image, opts Options) (*Texture, error) {
	t, err := m.blank(img.Bounds().Dx(), img.Bounds().Dy(), opts)
	if err != nil {
		return nil, err
	}
	t.uploadChain(img, true, 0, 0)
	t.finish()
	return t, nil
}

// NewEmpty allocates a transparent texture of the given size.
func (m *Manager) NewEmpty(width, height int, opts Options) (*Texture, error) {
	t, err := m.blank(width, height, opts)
	if err != nil {
		return nil, err
	}
	t.finish()
	return t, nil
}

func (m *Manager) blank(width, height int, opts Options) (*Texture, error) {
	t := m.newTexture(opts)
	if err := t.loadMipMap(image.NewNRGBA(image.Rect(0, 0, width, height))); err != nil {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, err)
	}
	return t, nil
}

// FromData creates a texture whose pixels are supplied by data.
func (m *Manager) FromData(data TextureData, opts Options) (*Texture, error) {
	t := m.newTexture(opts)
	t.handle = m.dev.GenTexture()
	t.Bind(0)
	if err := data.Load(m.dev); err != nil {
		t.release()
		return nil, fmt.Errorf("texture data: %w", err)
	}
	t.width = data.Width()
	t.height = data.Height()
	t.finish()
	return t, nil
}

func (m *Manager) newTexture(opts Options) *Texture {
	return &Texture{
		mgr:       m,
		opts:      opts,
		managed:   opts.Managed,
		mipmapped: opts.MinFilter.IsMipMap(),
	}
}
