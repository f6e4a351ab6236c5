// Package config loads the engine settings from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gdx-render/core"
	"gdx-render/gpu"
	"gdx-render/textures"
)

type Config struct {
	Window   WindowConfig   `json:"window"`
	Textures TextureConfig  `json:"textures"`
	Renderer RendererConfig `json:"renderer"`
	Assets   AssetConfig    `json:"assets"`
}

type WindowConfig struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Title     string `json:"title"`
	VSync     bool   `json:"vsync"`
	Resizable bool   `json:"resizable"`
	Samples   int    `json:"samples,omitempty"`
}

// TextureConfig holds default sampling parameters by name, for example
// "linear", "nearest", "mipmap_linear_linear", "clamp" or "repeat".
type TextureConfig struct {
	MinFilter string `json:"min_filter"`
	MagFilter string `json:"mag_filter"`
	UWrap     string `json:"u_wrap"`
	VWrap     string `json:"v_wrap"`
}

type RendererConfig struct {
	Capacity       int     `json:"capacity"`
	LightsPerModel int     `json:"lights_per_model"`
	FieldOfView    float32 `json:"fov"`
}

type AssetConfig struct {
	Root  string `json:"root"`
	Model string `json:"model,omitempty"`
	Font  string `json:"font,omitempty"`
}

func Default() Config {
	w := core.DefaultWindowConfig()
	return Config{
		Window: WindowConfig{
			Width:     w.Width,
			Height:    w.Height,
			Title:     w.Title,
			VSync:     w.VSync,
			Resizable: w.Resizable,
		},
		Textures: TextureConfig{
			MinFilter: "linear",
			MagFilter: "linear",
			UWrap:     "clamp",
			VWrap:     "clamp",
		},
		Renderer: RendererConfig{
			Capacity:       256,
			LightsPerModel: 4,
			FieldOfView:    67,
		},
		Assets: AssetConfig{Root: "assets"},
	}
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %q: %w", path, err)
	}
	if _, err := cfg.TextureOptions(); err != nil {
		return Default(), fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// WindowConfig converts the window section for core.NewWindow.
func (c Config) WindowConfig() core.WindowConfig {
	return core.WindowConfig{
		Width:     c.Window.Width,
		Height:    c.Window.Height,
		Title:     c.Window.Title,
		VSync:     c.Window.VSync,
		Resizable: c.Window.Resizable,
		Samples:   c.Window.Samples,
	}
}

// TextureOptions converts the texture section. Unknown names are an error.
func (c Config) TextureOptions() (textures.Options, error) {
	opts := textures.DefaultOptions()
	var err error
	if opts.MinFilter, err = parseFilter(c.Textures.MinFilter); err != nil {
		return opts, err
	}
	if opts.MagFilter, err = parseFilter(c.Textures.MagFilter); err != nil {
		return opts, err
	}
	if opts.MagFilter.IsMipMap() {
		return opts, fmt.Errorf("mag filter %q cannot use mipmaps", c.Textures.MagFilter)
	}
	if opts.UWrap, err = parseWrap(c.Textures.UWrap); err != nil {
		return opts, err
	}
	if opts.VWrap, err = parseWrap(c.Textures.VWrap); err != nil {
		return opts, err
	}
	return opts, nil
}

var filterNames = map[string]gpu.Filter{
	"nearest":                gpu.Nearest,
	"linear":                 gpu.Linear,
	"mipmap":                 gpu.MipMap,
	"mipmap_nearest_nearest": gpu.MipMapNearestNearest,
	"mipmap_linear_nearest":  gpu.MipMapLinearNearest,
	"mipmap_nearest_linear":  gpu.MipMapNearestLinear,
	"mipmap_linear_linear":   gpu.MipMapLinearLinear,
}

func parseFilter(s string) (gpu.Filter, error) {
	if f, ok := filterNames[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown texture filter %q", s)
}

func parseWrap(s string) (gpu.Wrap, error) {
	switch strings.ToLower(s) {
	case "clamp", "clamp_to_edge":
		return gpu.ClampToEdge, nil
	case "repeat":
		return gpu.Repeat, nil
	}
	return 0, fmt.Errorf("unknown texture wrap %q", s)
}
