package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/crow/config"
)

const (
	terrainNormalStep = 0.05 // Finite-difference step for normals
	terrainMarchStep  = 0.05 // Ray march step
	terrainBisections = 12
)

// Terrain is a procedural heightfield. Height is a function of (x, z).
type Terrain struct {
	noise      opensimplex.Noise
	baseHeight float64
	amplitude  float64
	scale      float64
	octaves    int
	size       float64
	layer      int
}

// NewTerrain creates a heightfield from the terrain config section.
func NewTerrain(cfg *config.Config) *Terrain {
	tc := cfg.Terrain
	octaves := tc.Octaves
	if octaves < 1 {
		octaves = 1
	}
	return &Terrain{
		noise:      opensimplex.New(tc.Seed),
		baseHeight: tc.BaseHeight,
		amplitude:  tc.Amplitude,
		scale:      tc.Scale,
		octaves:    octaves,
		size:       tc.Size,
		layer:      cfg.Derived.TerrainLayer,
	}
}

// NewFlatTerrain creates a level plane at the given height.
func NewFlatTerrain(height float64, layer int) *Terrain {
	return &Terrain{
		noise:      opensimplex.New(0),
		baseHeight: height,
		octaves:    1,
		layer:      layer,
	}
}

// Layer returns the terrain's physics layer.
func (t *Terrain) Layer() int { return t.layer }

// Size returns the rendered extent of the terrain.
func (t *Terrain) Size() float64 { return t.size }

// HeightAt returns the surface height under (x, z) using fractal noise.
func (t *Terrain) HeightAt(x, z float64) float64 {
	if t.amplitude == 0 {
		return t.baseHeight
	}
	var sum, norm float64
	freq := t.scale
	amp := 1.0
	for i := 0; i < t.octaves; i++ {
		sum += amp * t.noise.Eval2(x*freq, z*freq)
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	return t.baseHeight + t.amplitude*sum/norm
}

// NormalAt returns the unit surface normal at (x, z).
func (t *Terrain) NormalAt(x, z float64) mgl64.Vec3 {
	if t.amplitude == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	e := terrainNormalStep
	dx := t.HeightAt(x-e, z) - t.HeightAt(x+e, z)
	dz := t.HeightAt(x, z-e) - t.HeightAt(x, z+e)
	return mgl64.Vec3{dx, 2 * e, dz}.Normalize()
}

// above returns how far p sits above the surface.
func (t *Terrain) above(p mgl64.Vec3) float64 {
	return p.Y() - t.HeightAt(p.X(), p.Z())
}

// Raycast marches a unit-direction ray until it passes below the surface.
// Rays that start below the surface never hit it.
func (t *Terrain) Raycast(origin, dir mgl64.Vec3, maxDist float64) (RaycastHit, bool) {
	if t.above(origin) < 0 {
		return RaycastHit{}, false
	}

	prev := 0.0
	for d := terrainMarchStep; ; d += terrainMarchStep {
		if d > maxDist {
			d = maxDist
		}
		if t.above(origin.Add(dir.Mul(d))) <= 0 {
			lo, hi := prev, d
			for i := 0; i < terrainBisections; i++ {
				mid := (lo + hi) / 2
				if t.above(origin.Add(dir.Mul(mid))) <= 0 {
					hi = mid
				} else {
					lo = mid
				}
			}
			p := origin.Add(dir.Mul(hi))
			return RaycastHit{
				Point:    p,
				Normal:   t.NormalAt(p.X(), p.Z()),
				Distance: hi,
				Layer:    t.layer,
				Collider: "terrain",
			}, true
		}
		if d >= maxDist {
			return RaycastHit{}, false
		}
		prev = d
	}
}
