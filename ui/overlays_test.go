package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	tests := []struct {
		id   OverlayID
		want bool
	}{
		{OverlayDebugLabels, false},
		{OverlayInspector, false},
		{OverlayNeckGizmo, true},
		{OverlaySky, true},
		{OverlayColliders, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := reg.IsEnabled(tt.id); got != tt.want {
				t.Errorf("IsEnabled(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestBackquoteTogglesDebugLabels(t *testing.T) {
	reg := NewOverlayRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyGrave)
	if !ok || id != OverlayDebugLabels || !state {
		t.Fatalf("HandleKeyPress(grave) = (%s, %v, %v), want (%s, true, true)", id, state, ok, OverlayDebugLabels)
	}

	_, state, _ = reg.HandleKeyPress(rl.KeyGrave)
	if state {
		t.Error("second press should hide the labels")
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.Toggle(OverlayDebugLabels)
	reg.Toggle(OverlayInspector)

	if reg.IsEnabled(OverlayDebugLabels) {
		t.Error("enabling the inspector should hide the debug labels")
	}
	if !reg.IsEnabled(OverlayInspector) {
		t.Error("inspector should be enabled")
	}

	// Disabling never touches the exclusive partner.
	reg.SetEnabled(OverlayInspector, false)
	if reg.IsEnabled(OverlayDebugLabels) {
		t.Error("disabling the inspector should not re-enable the labels")
	}
}

func TestUnknownOverlay(t *testing.T) {
	reg := NewOverlayRegistry()

	if reg.Toggle("missing") {
		t.Error("Toggle of an unknown overlay should report false")
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()

	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "labels" || cats[1] != "scene" {
		t.Fatalf("Categories() = %v, want [labels scene]", cats)
	}

	total := 0
	for _, c := range cats {
		total += len(reg.ByCategory(c))
	}
	if total != len(reg.All()) {
		t.Errorf("categories cover %d overlays, registry has %d", total, len(reg.All()))
	}
}

func TestEnabledOverlaysOrder(t *testing.T) {
	reg := NewOverlayRegistry()
	for _, id := range reg.EnabledOverlays() {
		reg.SetEnabled(id, false)
	}

	reg.SetEnabled(OverlaySky, true)
	reg.SetEnabled(OverlayDebugLabels, true)

	got := reg.EnabledOverlays()
	if len(got) != 2 || got[0] != OverlayDebugLabels || got[1] != OverlaySky {
		t.Errorf("EnabledOverlays() = %v, want registration order [debug_labels sky]", got)
	}
}

func TestAnchorOrigin(t *testing.T) {
	tests := []struct {
		anchor PanelAnchor
		wantX  int32
		wantY  int32
	}{
		{AnchorTopLeft, 10, 10},
		{AnchorTopRight, 1280 - 200 - 10, 10},
		{AnchorBottomLeft, 10, 800 - 100 - 10},
		{AnchorBottomRight, 1280 - 200 - 10, 800 - 100 - 10},
	}
	for _, tt := range tests {
		x, y := AnchorOrigin(tt.anchor, 200, 100, 1280, 800, 10)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("AnchorOrigin(%d) = (%d, %d), want (%d, %d)", tt.anchor, x, y, tt.wantX, tt.wantY)
		}
	}
}
