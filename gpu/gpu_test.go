package gpu

import "testing"

func TestFilterIsMipMap(t *testing.T) {
	tests := []struct {
		filter Filter
		want   bool
	}{
		{Nearest, false},
		{Linear, false},
		{MipMap, true},
		{MipMapNearestNearest, true},
		{MipMapLinearNearest, true},
		{MipMapNearestLinear, true},
		{MipMapLinearLinear, true},
	}
	for _, tt := range tests {
		if got := tt.filter.IsMipMap(); got != tt.want {
			t.Errorf("Filter(%d).IsMipMap() = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestPixelFormatBytesPerPixel(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   int
	}{
		{FormatAlpha, 1},
		{FormatLuminance, 1},
		{FormatLuminanceAlpha, 2},
		{FormatRGB, 3},
		{FormatRGBA, 4},
		{FormatBGRA, 4},
	}
	for _, tt := range tests {
		if got := tt.format.BytesPerPixel(); got != tt.want {
			t.Errorf("%s.BytesPerPixel() = %d, want %d", tt.format, got, tt.want)
		}
	}
}
