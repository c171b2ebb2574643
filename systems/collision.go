package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
)

// boxBounds returns the min and max corners of an axis-aligned box.
func boxBounds(box *components.StaticBox) (mgl64.Vec3, mgl64.Vec3) {
	c := mgl64.Vec3{box.Center[0], box.Center[1], box.Center[2]}
	e := mgl64.Vec3{box.Extents[0], box.Extents[1], box.Extents[2]}
	return c.Sub(e), c.Add(e)
}

// sphereBoxContact returns the push-out normal and depth of a sphere
// overlapping a box.
func sphereBoxContact(center mgl64.Vec3, radius float64, box *components.StaticBox) (mgl64.Vec3, float64, bool) {
	lo, hi := boxBounds(box)

	var closest mgl64.Vec3
	inside := true
	for i := 0; i < 3; i++ {
		v := center[i]
		if v < lo[i] {
			v = lo[i]
			inside = false
		} else if v > hi[i] {
			v = hi[i]
			inside = false
		}
		closest[i] = v
	}

	if inside {
		// Center is inside the box: exit through the nearest face.
		best := math.Inf(1)
		var n mgl64.Vec3
		for i := 0; i < 3; i++ {
			if d := center[i] - lo[i]; d < best {
				best = d
				n = mgl64.Vec3{}
				n[i] = -1
			}
			if d := hi[i] - center[i]; d < best {
				best = d
				n = mgl64.Vec3{}
				n[i] = 1
			}
		}
		return n, best + radius, true
	}

	delta := center.Sub(closest)
	dist := delta.Len()
	if dist >= radius {
		return mgl64.Vec3{}, 0, false
	}
	return delta.Mul(1 / dist), radius - dist, true
}

// rayBox intersects a unit ray with a box using the slab method.
// Rays starting inside the box do not hit it.
func rayBox(origin, dir mgl64.Vec3, box *components.StaticBox) (float64, mgl64.Vec3, bool) {
	lo, hi := boxBounds(box)

	tNear, tFar := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tNear {
			tNear, axis, sign = t1, i, s
		}
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, mgl64.Vec3{}, false
		}
	}

	if axis < 0 || tNear < 0 {
		return 0, mgl64.Vec3{}, false
	}
	var n mgl64.Vec3
	n[axis] = sign
	return tNear, n, true
}
