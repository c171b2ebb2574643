package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/config"
)

func TestFlatTerrain(t *testing.T) {
	tr := NewFlatTerrain(2, 1)

	if got := tr.HeightAt(13, -7); got != 2 {
		t.Errorf("HeightAt = %v, want 2", got)
	}
	if got := tr.NormalAt(5, 5); got != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("NormalAt = %v, want up", got)
	}
	if tr.Layer() != 1 {
		t.Errorf("Layer = %d, want 1", tr.Layer())
	}
}

func TestTerrainRaycast(t *testing.T) {
	tr := NewFlatTerrain(0, 1)
	down := mgl64.Vec3{0, -1, 0}

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		maxDist  float64
		wantHit  bool
		wantDist float64
	}{
		{"straight down", mgl64.Vec3{0, 5, 0}, down, 10, true, 5},
		{"out of reach", mgl64.Vec3{0, 5, 0}, down, 4, false, 0},
		{"exactly at reach", mgl64.Vec3{0, 5, 0}, down, 5, true, 5},
		{"slanted", mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.6, -0.8, 0}, 10, true, 3.75},
		{"horizontal", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, 10, false, 0},
		{"upward", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 10, false, 0},
		{"starts below", mgl64.Vec3{0, -1, 0}, down, 10, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := tr.Raycast(tc.origin, tc.dir, tc.maxDist)
			if ok != tc.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tc.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(hit.Distance-tc.wantDist) > 1e-3 {
				t.Errorf("distance = %v, want %v", hit.Distance, tc.wantDist)
			}
			if math.Abs(hit.Point.Y()) > 1e-3 {
				t.Errorf("hit point %v not on the surface", hit.Point)
			}
			if hit.Collider != "terrain" || hit.Layer != 1 {
				t.Errorf("hit collider = %q layer %d", hit.Collider, hit.Layer)
			}
		})
	}
}

func TestNoiseTerrain(t *testing.T) {
	cfg := config.Defaults()
	a := NewTerrain(cfg)
	b := NewTerrain(cfg)

	amp := cfg.Terrain.Amplitude
	base := cfg.Terrain.BaseHeight
	for x := -50.0; x <= 50; x += 12.5 {
		for z := -50.0; z <= 50; z += 12.5 {
			h := a.HeightAt(x, z)
			if h != b.HeightAt(x, z) {
				t.Fatalf("same seed differs at (%v,%v)", x, z)
			}
			if h < base-amp || h > base+amp {
				t.Errorf("height %v at (%v,%v) outside [%v,%v]", h, x, z, base-amp, base+amp)
			}
			n := a.NormalAt(x, z)
			if math.Abs(n.Len()-1) > 1e-9 || n.Y() <= 0 {
				t.Errorf("normal %v at (%v,%v) not a unit upward vector", n, x, z)
			}
		}
	}
}

func TestNoiseTerrainRaycastDown(t *testing.T) {
	tr := NewTerrain(config.Defaults())

	for _, p := range [][2]float64{{0, 0}, {12, -30}, {-41, 7}} {
		origin := mgl64.Vec3{p[0], 20, p[1]}
		hit, ok := tr.Raycast(origin, mgl64.Vec3{0, -1, 0}, 40)
		if !ok {
			t.Fatalf("no hit at %v", p)
		}
		want := tr.HeightAt(p[0], p[1])
		if math.Abs(hit.Point.Y()-want) > 1e-3 {
			t.Errorf("hit y = %v, want %v", hit.Point.Y(), want)
		}
	}
}
