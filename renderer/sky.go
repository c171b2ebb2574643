package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/sky.vs
var skyVS string

//go:embed shaders/sky.fs
var skyFS string

// skyRadius must stay inside the camera far plane.
const skyRadius = 500

// SkyUniforms are the celestial values fed to the sky shader, in world space.
type SkyUniforms struct {
	SunDirection    mgl64.Vec3
	MoonDirection   mgl64.Vec3
	MoonSpaceMatrix mgl64.Mat4
}

// SkyRenderer draws a shaded sphere around the camera.
type SkyRenderer struct {
	shader       rl.Shader
	cameraPosLoc int32
	sunDirLoc    int32
	moonDirLoc   int32
	moonSpaceLoc int32
	initialized  bool
}

// NewSkyRenderer creates a sky renderer. Init runs lazily on the first Draw.
func NewSkyRenderer() *SkyRenderer {
	return &SkyRenderer{}
}

// Init loads the shader (must be called after the raylib window is created).
func (s *SkyRenderer) Init() {
	if s.initialized {
		return
	}

	s.shader = rl.LoadShaderFromMemory(skyVS, skyFS)
	s.cameraPosLoc = rl.GetShaderLocation(s.shader, "cameraPosition")
	s.sunDirLoc = rl.GetShaderLocation(s.shader, "sunDirection")
	s.moonDirLoc = rl.GetShaderLocation(s.shader, "moonDirection")
	s.moonSpaceLoc = rl.GetShaderLocation(s.shader, "moonSpaceMatrix")

	s.initialized = true
}

// Draw renders the sky. Must be called first inside BeginMode3D.
func (s *SkyRenderer) Draw(camPos rl.Vector3, u SkyUniforms) {
	if !s.initialized {
		s.Init()
	}

	rl.SetShaderValue(s.shader, s.cameraPosLoc, []float32{camPos.X, camPos.Y, camPos.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.sunDirLoc, Uniform3(u.SunDirection), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.moonDirLoc, Uniform3(u.MoonDirection), rl.ShaderUniformVec3)
	rl.SetShaderValueMatrix(s.shader, s.moonSpaceLoc, Matrix(u.MoonSpaceMatrix))

	// The camera sits inside the sphere: draw back faces and leave depth untouched.
	rl.DrawRenderBatchActive()
	rl.DisableBackfaceCulling()
	rl.DisableDepthMask()

	rl.BeginShaderMode(s.shader)
	rl.DrawSphereEx(camPos, skyRadius, 16, 24, rl.White)
	rl.EndShaderMode()

	rl.DrawRenderBatchActive()
	rl.EnableDepthMask()
	rl.EnableBackfaceCulling()
}

// Unload frees resources.
func (s *SkyRenderer) Unload() {
	if s.initialized {
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
