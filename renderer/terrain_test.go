package renderer

import (
	"testing"

	"github.com/pthm-cable/crow/config"
	"github.com/pthm-cable/crow/systems"
)

func TestTerrainBuildTriangleCount(t *testing.T) {
	tests := []struct {
		name       string
		resolution int
		want       int
	}{
		{"single cell", 1, 2},
		{"grid", 8, 128},
		{"clamped", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTerrainRenderer(tt.resolution)
			r.Build(systems.NewFlatTerrain(0, 1))
			if got := r.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTerrainBuildFlatHeight(t *testing.T) {
	r := NewTerrainRenderer(4)
	r.Build(systems.NewFlatTerrain(2.5, 1))

	for i, tri := range r.tris {
		for _, v := range []float32{tri.a.Y, tri.b.Y, tri.c.Y} {
			if v != 2.5 {
				t.Fatalf("triangle %d vertex y = %v, want 2.5", i, v)
			}
		}
	}
}

func TestTerrainBuildWinding(t *testing.T) {
	r := NewTerrainRenderer(2)
	r.Build(systems.NewFlatTerrain(0, 1))

	// Render-space normals of every face must point up.
	for i, tri := range r.tris {
		ux, uz := tri.b.X-tri.a.X, tri.b.Z-tri.a.Z
		vx, vz := tri.c.X-tri.a.X, tri.c.Z-tri.a.Z
		ny := uz*vx - ux*vz
		if ny <= 0 {
			t.Errorf("triangle %d normal y = %v, want > 0", i, ny)
		}
	}
}

func TestTerrainBuildNoise(t *testing.T) {
	cfg := config.Defaults()
	r := NewTerrainRenderer(16)
	r.Build(systems.NewTerrain(cfg))

	if r.TriangleCount() != 2*16*16 {
		t.Fatalf("TriangleCount() = %d, want %d", r.TriangleCount(), 2*16*16)
	}
	// Extent matches the configured size.
	half := float32(cfg.Terrain.Size / 2)
	first := r.tris[0].a
	if first.X != half || first.Z != -half {
		t.Errorf("first vertex = (%v, %v), want (%v, %v)", first.X, first.Z, half, -half)
	}
}
