package main

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"gdx-render/core"
	"gdx-render/lights"
)

// dayKey is the lighting at one point of the cycle; t runs 0..1 and wraps.
type dayKey struct {
	t       float32
	sky     core.Color
	sun     core.Color
	ambient core.Color
}

var dayKeys = []dayKey{
	{0.00, core.Color{R: 0.55, G: 0.70, B: 0.92, A: 1}, core.Color{R: 1.0, G: 0.97, B: 0.90, A: 1}, core.Color{R: 0.22, G: 0.24, B: 0.30, A: 1}},
	{0.22, core.Color{R: 0.85, G: 0.52, B: 0.25, A: 1}, core.Color{R: 1.0, G: 0.62, B: 0.25, A: 1}, core.Color{R: 0.14, G: 0.14, B: 0.22, A: 1}},
	{0.50, core.Color{R: 0.03, G: 0.04, B: 0.09, A: 1}, core.Color{R: 0.10, G: 0.12, B: 0.20, A: 1}, core.Color{R: 0.05, G: 0.06, B: 0.12, A: 1}},
	{0.78, core.Color{R: 0.80, G: 0.45, B: 0.30, A: 1}, core.Color{R: 0.95, G: 0.58, B: 0.30, A: 1}, core.Color{R: 0.12, G: 0.12, B: 0.20, A: 1}},
}

// dayNight rotates the sun and blends sky and light colours over Period seconds.
type dayNight struct {
	Time   float32 // 0 noon, 0.25 dusk, 0.5 midnight, 0.75 dawn
	Period float32
}

func (d *dayNight) Advance(dt float32) {
	if d.Period <= 0 {
		return
	}
	d.Time = float32(math.Mod(float64(d.Time+dt/d.Period), 1))
}

// Apply updates the ambient and directional lights and returns the sky colour.
func (d *dayNight) Apply(lm *lights.Manager) core.Color {
	a, b, f := d.keys()

	angle := float64(d.Time) * 2 * math.Pi
	dir := mgl32.Vec3{float32(math.Sin(angle)), -float32(math.Cos(angle)), 0.35}
	if lm.Directional == nil {
		lm.Directional = &lights.DirectionalLight{}
	}
	lm.Directional.Direction = dir.Normalize()
	lm.Directional.Color = lerpColor(a.sun, b.sun, f)
	lm.Ambient = lerpColor(a.ambient, b.ambient, f)
	return lerpColor(a.sky, b.sky, f)
}

// keys returns the keys around Time and the blend factor between them.
func (d *dayNight) keys() (dayKey, dayKey, float32) {
	n := len(dayKeys)
	next := sort.Search(n, func(i int) bool { return dayKeys[i].t > d.Time })
	a, b := dayKeys[(next-1+n)%n], dayKeys[next%n]
	span := b.t - a.t
	if span <= 0 {
		span += 1
	}
	local := d.Time - a.t
	if local < 0 {
		local += 1
	}
	return a, b, mgl32.Clamp(local/span, 0, 1)
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}
