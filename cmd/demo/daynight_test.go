package main

import (
	"strings"
	"testing"

	"gdx-render/lights"
	"gdx-render/renderer"
)

func TestDayNightKeys(t *testing.T) {
	tests := []struct {
		name   string
		time   float32
		from   float32
		to     float32
		factor float32
	}{
		{"noon", 0, 0, 0.22, 0},
		{"between dusk and midnight", 0.36, 0.22, 0.50, 0.5},
		{"wraps after dawn", 0.89, 0.78, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &dayNight{Time: tt.time}
			a, b, f := d.keys()
			if a.t != tt.from || b.t != tt.to {
				t.Errorf("keys = %v..%v, want %v..%v", a.t, b.t, tt.from, tt.to)
			}
			if diff := f - tt.factor; diff > 1e-4 || diff < -1e-4 {
				t.Errorf("factor = %v, want %v", f, tt.factor)
			}
		})
	}
}

func TestDayNightApply(t *testing.T) {
	lm := lights.NewManager(0)
	d := &dayNight{Period: 10}
	d.Advance(15)
	if d.Time != 0.5 {
		t.Fatalf("Time = %v, want wrap to 0.5", d.Time)
	}
	sky := d.Apply(lm)
	if sky != dayKeys[2].sky {
		t.Errorf("midnight sky = %v", sky)
	}
	if lm.Directional == nil || lm.Directional.Direction.Y() <= 0 {
		t.Errorf("sun at midnight should point up from below, got %+v", lm.Directional)
	}
	if lm.Ambient != dayKeys[2].ambient {
		t.Errorf("ambient = %v", lm.Ambient)
	}
}

func TestOverlayTitle(t *testing.T) {
	o := &overlay{base: "demo"}
	for i := 0; i < 30; i++ {
		o.frame()
	}
	got := o.title(renderer.Stats{DrawCalls: 7, Culled: 2}, 0.5)
	for _, want := range []string{"demo", "60 fps", "7 draws", "2 culled"} {
		if !strings.Contains(got, want) {
			t.Errorf("title %q missing %q", got, want)
		}
	}
	if o.frames != 0 || len(o.fields) != 0 {
		t.Error("overlay not reset")
	}
}
