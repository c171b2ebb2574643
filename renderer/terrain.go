package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/systems"
)

// defaultTerrainExtent is drawn for heightfields that report no size.
const defaultTerrainExtent = 100.0

// terrainLight is the fixed direction used to shade terrain faces.
var terrainLight = mgl64.Vec3{0.4, 0.8, 0.3}.Normalize()

type terrainTri struct {
	a, b, c rl.Vector3
	color   rl.Color
}

// TerrainRenderer draws a heightfield as shaded triangles sampled on a grid.
type TerrainRenderer struct {
	resolution int
	tris       []terrainTri
}

// NewTerrainRenderer creates a renderer sampling resolution cells per side.
func NewTerrainRenderer(resolution int) *TerrainRenderer {
	if resolution < 1 {
		resolution = 1
	}
	return &TerrainRenderer{resolution: resolution}
}

// TriangleCount returns the number of cached triangles.
func (r *TerrainRenderer) TriangleCount() int { return len(r.tris) }

// Build samples the terrain once. It does not touch the GPU.
func (r *TerrainRenderer) Build(t *systems.Terrain) {
	r.tris = r.tris[:0]
	if t == nil {
		return
	}

	extent := t.Size()
	if extent <= 0 {
		extent = defaultTerrainExtent
	}
	n := r.resolution
	step := extent / float64(n)
	half := extent / 2

	minH, maxH := math.Inf(1), math.Inf(-1)
	pts := make([][]mgl64.Vec3, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = make([]mgl64.Vec3, n+1)
		for j := 0; j <= n; j++ {
			x := -half + float64(i)*step
			z := -half + float64(j)*step
			h := t.HeightAt(x, z)
			pts[i][j] = mgl64.Vec3{x, h, z}
			minH = math.Min(minH, h)
			maxH = math.Max(maxH, h)
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p00, p10 := pts[i][j], pts[i+1][j]
			p01, p11 := pts[i][j+1], pts[i+1][j+1]
			cx := p00.X() + step/2
			cz := p00.Z() + step/2
			col := terrainColor(t.HeightAt(cx, cz), minH, maxH, t.NormalAt(cx, cz))

			// Wound counter-clockwise in render space, seen from above.
			r.tris = append(r.tris,
				terrainTri{a: Vec3(p00), b: Vec3(p10), c: Vec3(p01), color: col},
				terrainTri{a: Vec3(p10), b: Vec3(p11), c: Vec3(p01), color: col},
			)
		}
	}
}

// Draw renders the cached triangles. Must be called inside BeginMode3D.
func (r *TerrainRenderer) Draw() {
	for i := range r.tris {
		tri := &r.tris[i]
		rl.DrawTriangle3D(tri.a, tri.b, tri.c, tri.color)
	}
}

// terrainColor blends low moss to high rock and applies Lambert shading.
func terrainColor(h, minH, maxH float64, normal mgl64.Vec3) rl.Color {
	u := 0.5
	if maxH > minH {
		u = (h - minH) / (maxH - minH)
	}
	low := mgl64.Vec3{70, 110, 60}
	high := mgl64.Vec3{135, 125, 105}
	base := low.Add(high.Sub(low).Mul(u))

	shade := 0.45 + 0.55*math.Max(0, normal.Dot(terrainLight))
	c := base.Mul(shade)
	return rl.Color{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 255}
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v)))
}
