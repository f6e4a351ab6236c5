package textures

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"gdx-render/gpu"
)

// layout is the byte order the PNG decoder writes into the staging buffer.
type layout int

const (
	layoutAlpha layout = iota
	layoutLuminance
	layoutLuminanceAlpha
	layoutRGB
	layoutRGBA
	layoutBGRA
	layoutABGR
)

func (l layout) bytesPerPixel() int {
	switch l {
	case layoutAlpha, layoutLuminance:
		return 1
	case layoutLuminanceAlpha:
		return 2
	case layoutRGB:
		return 3
	}
	return 4
}

// gpuFormats maps a decoded layout to the upload format and the storage format.
func gpuFormats(l layout) (gpu.PixelFormat, gpu.InternalFormat, error) {
	switch l {
	case layoutAlpha:
		return gpu.FormatAlpha, gpu.InternalAlpha8, nil
	case layoutLuminance:
		return gpu.FormatLuminance, gpu.InternalLuminance8, nil
	case layoutLuminanceAlpha:
		return gpu.FormatLuminanceAlpha, gpu.InternalLuminance8Alpha8, nil
	case layoutRGB:
		return gpu.FormatRGB, gpu.InternalRGB8, nil
	case layoutRGBA:
		return gpu.FormatRGBA, gpu.InternalRGBA8, nil
	case layoutBGRA:
		return gpu.FormatBGRA, gpu.InternalBGRA, nil
	}
	return 0, 0, fmt.Errorf("%w: layout %d", ErrUnsupportedFormat, l)
}

// PNG colour types from the IHDR chunk.
const (
	ctGrey      = 0
	ctTrueColor = 2
	ctIndexed   = 3
	ctGreyAlpha = 4
	ctTrueAlpha = 6
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var errNotPNG = errors.New("not a PNG file")

type pngHeader struct {
	width, height int
	bitDepth      byte
	colorType     byte
}

func readPNGHeader(data []byte) (pngHeader, error) {
	// signature, chunk length, "IHDR", width, height, depth, colour type
	if len(data) < 26 || !bytes.Equal(data[:8], pngSignature) {
		return pngHeader{}, errNotPNG
	}
	if string(data[12:16]) != "IHDR" {
		return pngHeader{}, fmt.Errorf("%w: first chunk is %q", errNotPNG, data[12:16])
	}
	return pngHeader{
		width:     int(binary.BigEndian.Uint32(data[16:20])),
		height:    int(binary.BigEndian.Uint32(data[20:24])),
		bitDepth:  data[24],
		colorType: data[25],
	}, nil
}

// decideLayout picks the layout closest to the file's colour type, expanding
// to the preferred layout when the file has no native match.
func decideLayout(colorType byte, preferred layout) (layout, error) {
	switch colorType {
	case ctTrueColor:
		switch preferred {
		case layoutABGR, layoutRGBA, layoutBGRA, layoutRGB:
			return preferred, nil
		}
		return layoutRGB, nil
	case ctTrueAlpha:
		switch preferred {
		case layoutABGR, layoutRGBA, layoutBGRA, layoutRGB:
			return preferred, nil
		}
		return layoutRGBA, nil
	case ctGrey:
		switch preferred {
		case layoutLuminance, layoutAlpha:
			return preferred, nil
		}
		return layoutLuminance, nil
	case ctGreyAlpha:
		return layoutLuminanceAlpha, nil
	case ctIndexed:
		switch preferred {
		case layoutABGR, layoutRGBA, layoutBGRA:
			return preferred, nil
		}
		return layoutRGBA, nil
	}
	return 0, fmt.Errorf("%w: PNG colour type %d", ErrUnsupportedFormat, colorType)
}

// loadPNG decodes data into the staging buffer and uploads it as level 0.
func (t *Texture) loadPNG(data []byte) error {
	hdr, err := readPNGHeader(data)
	if err != nil {
		return err
	}
	l, err := decideLayout(hdr.colorType, layoutRGBA)
	if err != nil {
		return err
	}
	format, internal, err := gpuFormats(l)
	if err != nil {
		return err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	stride := w * l.bytesPerPixel()
	// Sized for the widest layout so consecutive loads of one size share it.
	buf := t.mgr.Staging(w * h * 4)[:stride*h]
	writePixels(buf, stride, img, l)

	t.handle = t.mgr.dev.GenTexture()
	t.width, t.height = w, h
	t.Bind(0)
	t.mgr.dev.TexImage2D(0, internal, w, h, format, buf)
	return nil
}

// writePixels stores img row by row in l, rows stride bytes apart.
func writePixels(buf []byte, stride int, img image.Image, l layout) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := buf[y*stride:]
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			switch l {
			case layoutAlpha:
				row[x] = c.A
			case layoutLuminance:
				row[x] = luminance(c)
			case layoutLuminanceAlpha:
				row[2*x] = luminance(c)
				row[2*x+1] = c.A
			case layoutRGB:
				row[3*x], row[3*x+1], row[3*x+2] = c.R, c.G, c.B
			case layoutRGBA:
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = c.R, c.G, c.B, c.A
			case layoutBGRA:
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = c.B, c.G, c.R, c.A
			case layoutABGR:
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = c.A, c.B, c.G, c.R
			}
		}
	}
}

func luminance(c color.NRGBA) uint8 {
	return color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray).Y
}
