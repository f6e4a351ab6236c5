package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMeshBounds(t *testing.T) {
	m := NewMesh("tri", []Vertex{
		{Position: mgl32.Vec3{-1, 0, 2}},
		{Position: mgl32.Vec3{3, -4, 0}},
		{Position: mgl32.Vec3{0, 5, -1}},
	}, nil)

	min, max := m.Bounds()
	if min != (mgl32.Vec3{-1, -4, -1}) {
		t.Errorf("min: expected (-1,-4,-1), got %v", min)
	}
	if max != (mgl32.Vec3{3, 5, 2}) {
		t.Errorf("max: expected (3,5,2), got %v", max)
	}
}

func TestMeshBoundsEmpty(t *testing.T) {
	min, max := NewMesh("empty", nil, nil).Bounds()
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("empty mesh: expected zero bounds, got %v %v", min, max)
	}
}
