package inspector

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/systems"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag        string
		wantWidget Widget
		wantOpts   map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bool", WidgetBool, map[string]string{}},
		{"angle,fmt:%.1f", WidgetAngle, map[string]string{"fmt": "%.1f"}},
		{"bar, max:4", WidgetBar, map[string]string{"max": "4"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			widget, opts := ParseTag(tt.tag)
			if widget != tt.wantWidget {
				t.Errorf("widget = %v, want %v", widget, tt.wantWidget)
			}
			if len(opts) != len(tt.wantOpts) {
				t.Fatalf("options = %v, want %v", opts, tt.wantOpts)
			}
			for k, v := range tt.wantOpts {
				if opts[k] != v {
					t.Errorf("option %q = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFieldsFlightStatus(t *testing.T) {
	status := systems.FlightStatus{
		FlapReady:       true,
		LastFlapSpeed:   0.1234,
		LeftHandAngle:   45,
		NeckPosition:    mgl64.Vec3{1, 2, 3},
		HandDistanceSqr: 2.5,
	}

	fields := ExtractFields(&status)
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	if _, ok := byName["NeckPosition"]; ok {
		t.Error("NeckPosition is tagged skip and should not be listed")
	}
	if f := byName["FlapReady"]; f.Widget != WidgetBool {
		t.Errorf("FlapReady widget = %v, want bool", f.Widget)
	}
	if f := byName["LeftHandAngle"]; f.Widget != WidgetAngle {
		t.Errorf("LeftHandAngle widget = %v, want angle", f.Widget)
	}
	if f := byName["StepsSinceGrounded"]; f.Widget != WidgetLabel {
		t.Errorf("StepsSinceGrounded widget = %v, want label", f.Widget)
	}
}

func TestExtractFieldsNonStruct(t *testing.T) {
	if got := ExtractFields(42); got != nil {
		t.Errorf("ExtractFields(42) = %v, want nil", got)
	}
	var nilStatus *systems.FlightStatus
	if got := ExtractFields(nilStatus); got != nil {
		t.Errorf("ExtractFields(nil) = %v, want nil", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		fmt   string
		want  string
	}{
		{"float default", 1.23456, "", "1.23"},
		{"float custom", 0.12345, "%.3f", "0.123"},
		{"int", 7, "", "7"},
		{"bool", true, "", "true"},
		{"vec3", mgl64.Vec3{1, -2, 0.5}, "", "(1.00, -2.00, 0.50)"},
		{"vec3 custom", mgl64.Vec3{1, 2, 3}, "%.0f", "(1, 2, 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.fmt); got != tt.want {
				t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
			}
		})
	}
}

func TestLines(t *testing.T) {
	type sample struct {
		Speed    float64 `inspect:"label,fmt:%.1f"`
		Grounded bool
		Hidden   int     `inspect:"skip"`
		Altitude float64 `inspect:"label,name:Alt"`
	}

	got := Lines(sample{Speed: 3.14, Grounded: true, Hidden: 9, Altitude: 2})
	want := []string{"Speed: 3.1", "Grounded: true", "Alt: 2.00"}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetMax(t *testing.T) {
	if got := GetMax(map[string]string{"max": "4"}); got != 4 {
		t.Errorf("GetMax = %v, want 4", got)
	}
	if got := GetMax(map[string]string{"max": "x"}); got != 1 {
		t.Errorf("GetMax with bad value = %v, want 1", got)
	}
	if got := GetMax(nil); got != 1 {
		t.Errorf("GetMax(nil) = %v, want 1", got)
	}
}
