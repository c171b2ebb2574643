// Sky debug tool - renders the sky shader at a time of day to a PNG file.
//
// Usage: go run ./cmd/shaderdebug -time 18:30 -yaw 270 -out sky.png
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/config"
	"github.com/pthm-cable/crow/renderer"
	"github.com/pthm-cable/crow/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	clock := flag.String("time", "12:00", "Time of day as HH:MM")
	moonAge := flag.Float64("moon-seconds", 0, "Seconds of moon motion before rendering")
	yaw := flag.Float64("yaw", 0, "Camera heading in degrees, 0 looks along +z")
	pitch := flag.Float64("pitch", 10, "Camera pitch in degrees above the horizon")
	outPath := flag.String("out", "sky.png", "Output PNG path")
	width := flag.Int("width", 768, "Render width")
	height := flag.Int("height", 512, "Render height")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	tod, err := time.Parse("15:04", *clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad -time %q: %v\n", *clock, err)
		os.Exit(1)
	}
	now := time.Date(2024, 1, 1, tod.Hour(), tod.Minute(), 0, 0, time.Local)

	cycle := systems.NewCelestialCycle(systems.CelestialParamsFromConfig(cfg), mgl64.QuatIdent())
	cycle.Start(now)
	if *moonAge > 0 {
		cycle.Update(*moonAge, now)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Sky Debug")
	defer rl.CloseWindow()

	sky := renderer.NewSkyRenderer()
	sky.Init()
	defer sky.Unload()

	yawRad := mgl64.DegToRad(*yaw)
	pitchRad := mgl64.DegToRad(*pitch)
	look := mgl64.Vec3{
		math.Sin(yawRad) * math.Cos(pitchRad),
		math.Sin(pitchRad),
		math.Cos(yawRad) * math.Cos(pitchRad),
	}
	cam := rl.Camera3D{
		Position:   renderer.Vec3(mgl64.Vec3{}),
		Target:     renderer.Vec3(look),
		Up:         renderer.Vec3(mgl64.Vec3{0, 1, 0}),
		Fovy:       70,
		Projection: rl.CameraPerspective,
	}
	uniforms := renderer.SkyUniforms{
		SunDirection:    cycle.SunDirection(),
		MoonDirection:   cycle.MoonDirection(),
		MoonSpaceMatrix: cycle.MoonSpaceMatrix(),
	}

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rl.BeginMode3D(cam)
	sky.Draw(cam.Position, uniforms)
	rl.EndMode3D()
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		sun := cycle.SunDirection().Mul(-1)
		fmt.Printf("Sky at %s rendered to: %s (%dx%d), sun elevation %.1f deg\n",
			*clock, *outPath, *width, *height, mgl64.RadToDeg(math.Asin(mgl64.Clamp(sun.Y(), -1, 1))))
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
