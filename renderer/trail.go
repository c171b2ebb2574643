package renderer

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Trail is a fixed-capacity ring of recent body positions.
type Trail struct {
	points   []mgl64.Vec3
	head     int
	count    int
	minGap   float64
	lastSeen mgl64.Vec3
}

// NewTrail creates a trail holding up to capacity points. A point is only
// added once the body has moved minGap from the previous one.
func NewTrail(capacity int, minGap float64) *Trail {
	if capacity < 2 {
		capacity = 2
	}
	return &Trail{points: make([]mgl64.Vec3, capacity), minGap: minGap}
}

// Add records a position, skipping points closer than the minimum gap.
func (t *Trail) Add(p mgl64.Vec3) {
	if t.count > 0 && p.Sub(t.lastSeen).Len() < t.minGap {
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % len(t.points)
	if t.count < len(t.points) {
		t.count++
	}
	t.lastSeen = p
}

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.count }

// Clear drops every point.
func (t *Trail) Clear() {
	t.head = 0
	t.count = 0
}

// Points returns the stored points, oldest first.
func (t *Trail) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, t.count)
	start := (t.head - t.count + len(t.points)) % len(t.points)
	for i := 0; i < t.count; i++ {
		out = append(out, t.points[(start+i)%len(t.points)])
	}
	return out
}
