package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarHigh     = rl.Color{R: 220, G: 170, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value interface{}, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar scaled by the max option.
func DrawBar(x, y int32, name string, value float64, options map[string]string) int32 {
	ratio := value / GetMax(options)
	fillColor := ColorBarFill
	if ratio > 1 {
		ratio = 1
		fillColor = ColorBarHigh
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 150
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(float64(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawAngle renders a compass-style indicator for an angle in degrees.
// Zero points right, positive angles turn counter-clockwise.
func DrawAngle(x, y int32, name string, degrees float64, options map[string]string) int32 {
	size := int32(32)
	centerX := x + 150 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)

	rl.DrawCircle(centerX, centerY, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	rad := degrees * math.Pi / 180
	needleLen := float64(size/2 - 3)
	end := rl.Vector2{
		X: float32(float64(centerX) + needleLen*math.Cos(rad)),
		Y: float32(float64(centerY) - needleLen*math.Sin(rad)),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(centerX), Y: float32(centerY)}, end, 2, ColorAngleNeedle)

	rl.DrawText(FormatValue(degrees, options["fmt"]), x+150+size+5, y+size/2-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 150
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)
	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight returns the vertical space DrawField uses.
func FieldHeight(field Field) int32 {
	if field.Widget == WidgetAngle {
		if _, ok := GetFloatValue(field.Value); ok {
			return 36
		}
	}
	return 18
}
