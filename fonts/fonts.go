// Package fonts rasterises TrueType glyphs into alpha bitmaps that can be
// uploaded as textures.
package fonts

import (
	"errors"
	"fmt"
	"image"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"gdx-render/gpu"
	"gdx-render/textures"
)

// ErrNoGlyph is returned for a rune the font has no outline for.
var ErrNoGlyph = errors.New("fonts: glyph not in font")

// Face is a font at a fixed pixel size.
type Face struct {
	font        *truetype.Font
	face        font.Face
	PixelHeight float64
	Ascent      int
	Descent     int
}

// NewFace parses ttf at pixelHeight pixels per em. A nil ttf selects Go Regular.
func NewFace(ttf []byte, pixelHeight float64) (*Face, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	if pixelHeight <= 0 {
		return nil, fmt.Errorf("fonts: pixel height %v must be positive", pixelHeight)
	}
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse ttf: %w", err)
	}
	// 72 DPI makes points equal pixels.
	f := truetype.NewFace(tt, &truetype.Options{Size: pixelHeight, DPI: 72, Hinting: font.HintingFull})
	m := f.Metrics()
	return &Face{
		font:        tt,
		face:        f,
		PixelHeight: pixelHeight,
		Ascent:      m.Ascent.Ceil(),
		Descent:     m.Descent.Ceil(),
	}, nil
}

func (f *Face) Close() error { return f.face.Close() }

// Glyph is a tightly cropped coverage bitmap for one rune.
type Glyph struct {
	Rune rune
	// Mask has its origin at 0,0. Empty glyphs such as space have no pixels.
	Mask *image.Alpha
	// Advance is how far the pen moves after the glyph, in pixels.
	Advance int
	// BearingX is the offset from the pen to the left edge of Mask; BearingY
	// the offset from the baseline up to its top edge.
	BearingX int
	BearingY int
}

func (g *Glyph) Width() int  { return g.Mask.Rect.Dx() }
func (g *Glyph) Height() int { return g.Mask.Rect.Dy() }

// RasterizeGlyph renders r with its pen at the origin and crops the result to
// the inked pixels.
func RasterizeGlyph(f *Face, r rune) (*Glyph, error) {
	if f.font.Index(r) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoGlyph, r)
	}
	bounds, advance, ok := f.face.GlyphBounds(r)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoGlyph, r)
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()

	g := &Glyph{Rune: r, Advance: advance.Round(), BearingX: minX, BearingY: -minY}
	g.Mask = image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	if maxX <= minX || maxY <= minY {
		return g, nil
	}

	d := &font.Drawer{
		Dst:  g.Mask,
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.Point26_6{X: fixed.I(-minX), Y: fixed.I(-minY)},
	}
	d.DrawString(string(r))
	return g, nil
}

// Texture uploads the glyph as white pixels with coverage in alpha.
func (g *Glyph) Texture(tm *textures.Manager, filter gpu.Filter) (*textures.Texture, error) {
	if g.Width() == 0 || g.Height() == 0 {
		return nil, fmt.Errorf("glyph %q is empty", g.Rune)
	}
	img := image.NewNRGBA(g.Mask.Rect)
	draw.DrawMask(img, img.Rect, image.White, image.Point{}, g.Mask, image.Point{}, draw.Src)
	opts := textures.DefaultOptions()
	opts.MinFilter, opts.MagFilter = filter, filter
	return tm.FromImage(img, opts)
}
