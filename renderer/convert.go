// Package renderer draws the flight world with raylib.
//
// World coordinates are left-handed (x right, y up, z forward). raylib is
// right-handed, so positions cross into render space with x negated. Shader
// uniforms stay in world space and the sky shader mirrors its view ray instead.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 converts a world position or direction to render space.
func Vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(-v[0]), float32(v[1]), float32(v[2]))
}

// WorldVec3 converts a render-space vector back to world space.
func WorldVec3(v rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{-float64(v.X), float64(v.Y), float64(v.Z)}
}

// Uniform3 flattens a world vector for SetShaderValue.
func Uniform3(v mgl64.Vec3) []float32 {
	return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Matrix converts a column-major mgl64 matrix to raylib's layout.
// Both store columns contiguously, so element i maps to M<i>.
func Matrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M4: float32(m[4]), M8: float32(m[8]), M12: float32(m[12]),
		M1: float32(m[1]), M5: float32(m[5]), M9: float32(m[9]), M13: float32(m[13]),
		M2: float32(m[2]), M6: float32(m[6]), M10: float32(m[10]), M14: float32(m[14]),
		M3: float32(m[3]), M7: float32(m[7]), M11: float32(m[11]), M15: float32(m[15]),
	}
}
