package textures

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"gdx-render/gpu"
	"gdx-render/gpu/gputest"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func opaque(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 0xff})
		}
	}
	return img
}

func TestDecideLayout(t *testing.T) {
	tests := []struct {
		name      string
		colorType byte
		want      layout
		wantErr   bool
	}{
		{"truecolor", ctTrueColor, layoutRGBA, false},
		{"truecolor alpha", ctTrueAlpha, layoutRGBA, false},
		{"grey", ctGrey, layoutLuminance, false},
		{"grey alpha", ctGreyAlpha, layoutLuminanceAlpha, false},
		{"indexed", ctIndexed, layoutRGBA, false},
		{"invalid", 5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decideLayout(tt.colorType, layoutRGBA)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("layout = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGPUFormats(t *testing.T) {
	tests := []struct {
		in       layout
		format   gpu.PixelFormat
		internal gpu.InternalFormat
	}{
		{layoutAlpha, gpu.FormatAlpha, gpu.InternalAlpha8},
		{layoutLuminance, gpu.FormatLuminance, gpu.InternalLuminance8},
		{layoutLuminanceAlpha, gpu.FormatLuminanceAlpha, gpu.InternalLuminance8Alpha8},
		{layoutRGB, gpu.FormatRGB, gpu.InternalRGB8},
		{layoutRGBA, gpu.FormatRGBA, gpu.InternalRGBA8},
		{layoutBGRA, gpu.FormatBGRA, gpu.InternalBGRA},
	}
	for _, tt := range tests {
		format, internal, err := gpuFormats(tt.in)
		if err != nil {
			t.Fatalf("gpuFormats(%d): %v", tt.in, err)
		}
		if format != tt.format || internal != tt.internal {
			t.Errorf("gpuFormats(%d) = (%s, %d), want (%s, %d)", tt.in, format, internal, tt.format, tt.internal)
		}
	}

	if _, _, err := gpuFormats(layoutABGR); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ABGR: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestMipChain(t *testing.T) {
	tests := []struct {
		w, h      int
		mipmapped bool
		want      []image.Point
	}{
		{64, 64, false, []image.Point{{64, 64}}},
		{8, 8, true, []image.Point{{8, 8}, {4, 4}, {2, 2}, {1, 1}}},
		{64, 16, true, []image.Point{{64, 16}, {32, 8}, {16, 4}, {8, 2}, {4, 1}}},
		{5, 3, true, []image.Point{{5, 3}, {2, 1}}},
		{1, 1, true, []image.Point{{1, 1}}},
		{0, 4, true, nil},
	}
	for _, tt := range tests {
		got := MipChain(tt.w, tt.h, tt.mipmapped)
		if len(got) != len(tt.want) {
			t.Fatalf("MipChain(%d, %d, %v) = %v, want %v", tt.w, tt.h, tt.mipmapped, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("MipChain(%d, %d, %v)[%d] = %v, want %v", tt.w, tt.h, tt.mipmapped, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLoadFileGreyPNG(t *testing.T) {
	grey := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range grey.Pix {
		grey.Pix[i] = uint8(10 * (i + 1))
	}
	fsys := fstest.MapFS{"grey.png": {Data: encodePNG(t, grey)}}

	rec := gputest.NewRecorder()
	m := NewManager(rec)
	tex, err := m.LoadFile(fsys, "grey.png", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if len(rec.Uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(rec.Uploads))
	}
	up := rec.Uploads[0]
	if up.Format != gpu.FormatLuminance || up.Internal != gpu.InternalLuminance8 {
		t.Errorf("format = (%s, %d), want LUMINANCE/LUMINANCE8", up.Format, up.Internal)
	}
	if up.Width != 3 || up.Height != 2 || up.Level != 0 {
		t.Errorf("upload = %dx%d level %d, want 3x2 level 0", up.Width, up.Height, up.Level)
	}
	if !bytes.Equal(up.Pixels, grey.Pix) {
		t.Errorf("pixels = %v, want %v", up.Pixels, grey.Pix)
	}
	if up.Handle != tex.Handle() {
		t.Errorf("uploaded to handle %d, want %d", up.Handle, tex.Handle())
	}
	if rec.Count("TexParameters") != 1 {
		t.Errorf("TexParameters calls = %d, want 1", rec.Count("TexParameters"))
	}
	if m.Live() != 1 {
		t.Errorf("Live() = %d, want 1", m.Live())
	}
}

func TestLoadFileTrueColorPNG(t *testing.T) {
	src := opaque(4, 3)
	fsys := fstest.MapFS{"rgb.PNG": {Data: encodePNG(t, src)}}

	rec := gputest.NewRecorder()
	tex, err := NewManager(rec).LoadFile(fsys, "rgb.PNG", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tex.Width() != 4 || tex.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", tex.Width(), tex.Height())
	}
	up := rec.Uploads[0]
	if up.Format != gpu.FormatRGBA || up.Internal != gpu.InternalRGBA8 {
		t.Errorf("format = (%s, %d), want RGBA/RGBA8", up.Format, up.Internal)
	}
	if !bytes.Equal(up.Pixels, src.Pix) {
		t.Errorf("pixels differ from source")
	}
}

func TestStagingBufferReused(t *testing.T) {
	fsys := fstest.MapFS{
		"big.png":   {Data: encodePNG(t, opaque(64, 64))},
		"small.png": {Data: encodePNG(t, opaque(32, 32))},
	}
	m := NewManager(gputest.NewRecorder())

	if _, err := m.LoadFile(fsys, "big.png", DefaultOptions()); err != nil {
		t.Fatalf("LoadFile(big): %v", err)
	}
	capacity := m.StagingCapacity()
	first := &m.Staging(4)[0]

	if _, err := m.LoadFile(fsys, "small.png", DefaultOptions()); err != nil {
		t.Fatalf("LoadFile(small): %v", err)
	}
	if capacity != 64*64*4 {
		t.Errorf("capacity after 64x64 = %d, want %d", capacity, 64*64*4)
	}
	if m.StagingCapacity() != capacity {
		t.Errorf("capacity changed to %d after smaller load", m.StagingCapacity())
	}
	if &m.Staging(4)[0] != first {
		t.Errorf("staging buffer was reallocated")
	}
}

func TestLoadFileMipMapped(t *testing.T) {
	fsys := fstest.MapFS{"tile.png": {Data: encodePNG(t, opaque(8, 4))}}
	rec := gputest.NewRecorder()
	opts := DefaultOptions()
	opts.MinFilter = gpu.MipMapLinearLinear

	tex, err := NewManager(rec).LoadFile(fsys, "tile.png", opts)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !tex.IsMipMapped() {
		t.Error("IsMipMapped() = false")
	}

	want := MipChain(8, 4, true)
	if len(rec.Uploads) != len(want) {
		t.Fatalf("uploads = %d, want %d", len(rec.Uploads), len(want))
	}
	for i, up := range rec.Uploads {
		if up.Level != i || up.Width != want[i].X || up.Height != want[i].Y {
			t.Errorf("upload %d = level %d %dx%d, want level %d %v", i, up.Level, up.Width, up.Height, i, want[i])
		}
		if up.Internal != gpu.InternalRGBA8 || up.Format != gpu.FormatRGBA {
			t.Errorf("upload %d format = (%s, %d)", i, up.Format, up.Internal)
		}
		if len(up.Pixels) != up.Width*up.Height*4 {
			t.Errorf("upload %d has %d bytes", i, len(up.Pixels))
		}
	}
}

func TestLoadFileErrors(t *testing.T) {
	fsys := fstest.MapFS{"broken.png": {Data: []byte("not an image")}}
	rec := gputest.NewRecorder()
	m := NewManager(rec)

	if _, err := m.LoadFile(fsys, "missing.png", DefaultOptions()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: err = %v, want fs.ErrNotExist", err)
	}
	if _, err := m.LoadFile(fsys, "broken.png", DefaultOptions()); err == nil {
		t.Error("broken file: expected error")
	}
	if m.Live() != 0 || rec.Live() != 0 {
		t.Errorf("failed loads left live textures: manager %d, device %d", m.Live(), rec.Live())
	}
}

func TestDrawManagedTexture(t *testing.T) {
	rec := gputest.NewRecorder()
	opts := DefaultOptions()
	opts.Managed = true
	tex, err := NewManager(rec).NewEmpty(8, 8, opts)
	if err != nil {
		t.Fatalf("NewEmpty: %v", err)
	}
	rec.Reset()

	if err := tex.Draw(opaque(2, 2), 0, 0); !errors.Is(err, ErrManagedTexture) {
		t.Fatalf("Draw err = %v, want ErrManagedTexture", err)
	}
	if len(rec.Calls) != 0 {
		t.Errorf("Draw on a managed texture issued %v", rec.Calls)
	}
}

func TestDrawMipMappedOffsets(t *testing.T) {
	rec := gputest.NewRecorder()
	opts := DefaultOptions()
	opts.MinFilter = gpu.MipMap
	tex, err := NewManager(rec).NewEmpty(16, 16, opts)
	if err != nil {
		t.Fatalf("NewEmpty: %v", err)
	}
	rec.Reset()

	if err := tex.Draw(opaque(4, 4), 8, 4); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	want := []gputest.Upload{
		{Level: 0, X: 8, Y: 4, Width: 4, Height: 4},
		{Level: 1, X: 4, Y: 2, Width: 2, Height: 2},
		{Level: 2, X: 2, Y: 1, Width: 1, Height: 1},
	}
	if len(rec.Uploads) != len(want) {
		t.Fatalf("uploads = %d, want %d", len(rec.Uploads), len(want))
	}
	for i, up := range rec.Uploads {
		w := want[i]
		if !up.Sub || up.Level != w.Level || up.X != w.X || up.Y != w.Y || up.Width != w.Width || up.Height != w.Height {
			t.Errorf("upload %d = %+v, want %+v", i, up, w)
		}
	}

	if err := tex.Draw(opaque(4, 4), 14, 0); err == nil {
		t.Error("Draw past the right edge: expected error")
	}
}

func TestDrawEmptyImage(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"origin", 0, 0},
		{"right edge", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := gputest.NewRecorder()
			opts := DefaultOptions()
			opts.MinFilter = gpu.MipMap
			tex, err := NewManager(rec).NewEmpty(4, 4, opts)
			if err != nil {
				t.Fatalf("NewEmpty: %v", err)
			}
			rec.Reset()

			if err := tex.Draw(image.NewNRGBA(image.Rect(0, 0, 0, 0)), tt.x, tt.y); err != nil {
				t.Fatalf("Draw: %v", err)
			}
			if len(rec.Uploads) != 0 || len(rec.Calls) != 0 {
				t.Errorf("empty draw issued %d uploads, calls %v", len(rec.Uploads), rec.Calls)
			}
		})
	}
}

func TestDispose(t *testing.T) {
	rec := gputest.NewRecorder()
	m := NewManager(rec)
	a, _ := m.NewEmpty(2, 2, DefaultOptions())
	b, _ := m.NewEmpty(2, 2, DefaultOptions())
	if m.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", m.Live())
	}

	a.Dispose()
	a.Dispose()
	if m.Live() != 1 {
		t.Errorf("Live() after double dispose = %d, want 1", m.Live())
	}
	if rec.Count("DeleteTexture") != 1 {
		t.Errorf("DeleteTexture calls = %d, want 1", rec.Count("DeleteTexture"))
	}
	b.Dispose()
	if m.Live() != 0 || rec.Live() != 0 {
		t.Errorf("live textures remain: manager %d, device %d", m.Live(), rec.Live())
	}
}

func TestHalveAveragesBlocks(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i, v := range []uint8{0, 100, 200, 100} {
		src.SetNRGBA(i%2, i/2, color.NRGBA{R: v, G: v, B: v, A: 0xff})
	}
	dst := halve(src)
	if dst.Bounds().Dx() != 1 || dst.Bounds().Dy() != 1 {
		t.Fatalf("halve size = %v, want 1x1", dst.Bounds())
	}
	c := color.NRGBAModel.Convert(dst.At(0, 0)).(color.NRGBA)
	if c.R < 99 || c.R > 101 || c.A != 0xff {
		t.Errorf("halve pixel = %v, want ~{100 100 100 255}", c)
	}
}

type solidData struct{ w, h int }

func (d solidData) Width() int  { return d.w }
func (d solidData) Height() int { return d.h }
func (d solidData) Load(dev gpu.TextureDevice) error {
	dev.TexImage2D(0, gpu.InternalAlpha8, d.w, d.h, gpu.FormatAlpha, make([]byte, d.w*d.h))
	return nil
}

func TestFromData(t *testing.T) {
	rec := gputest.NewRecorder()
	tex, err := NewManager(rec).FromData(solidData{w: 5, h: 7}, DefaultOptions())
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	if tex.Width() != 5 || tex.Height() != 7 {
		t.Errorf("size = %dx%d, want 5x7", tex.Width(), tex.Height())
	}
	if rec.Uploads[0].Handle != tex.Handle() {
		t.Errorf("data uploaded to handle %d, want %d", rec.Uploads[0].Handle, tex.Handle())
	}
}

func TestFromImage(t *testing.T) {
	rec := gputest.NewRecorder()
	src := opaque(4, 4)
	tex, err := NewManager(rec).FromImage(src, DefaultOptions())
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if got := rec.Ops("TexImage2D", "TexSubImage2D"); len(got) != 2 || got[0] != "TexImage2D" || got[1] != "TexSubImage2D" {
		t.Fatalf("uploads = %v, want [TexImage2D TexSubImage2D]", got)
	}
	if !bytes.Equal(rec.Uploads[1].Pixels, src.Pix) {
		t.Error("drawn pixels differ from source")
	}
	if tex.IsManaged() {
		t.Error("IsManaged() = true")
	}

	if _, err := NewManager(rec).FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultOptions()); err == nil {
		t.Error("empty image: expected error")
	}
}
