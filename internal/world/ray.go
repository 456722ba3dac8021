package world

import (
	gomath "math"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

func axis(v math.Vec3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisNormal(i int, sign float32) math.Vec3 {
	switch i {
	case 0:
		return math.Vec3{X: sign}
	case 1:
		return math.Vec3{Y: sign}
	default:
		return math.Vec3{Z: sign}
	}
}

// IntersectBounds tests the ray against an axis-aligned box using the slab
// method. It returns the entry distance and the normal of the entry face.
// Rays starting inside the box report no hit.
func (r Ray) IntersectBounds(box physics.Bounds) (t float32, normal math.Vec3, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	entryAxis := -1
	var entrySign float32

	for i := 0; i < 3; i++ {
		o := axis(r.Origin, i)
		d := axis(r.Direction, i)
		lo := axis(box.Min, i)
		hi := axis(box.Max, i)

		if d == 0 {
			if o < lo || o > hi {
				return 0, math.Vec3{}, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			entryAxis = i
			entrySign = sign
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmin < 0 || entryAxis < 0 {
		return 0, math.Vec3{}, false
	}
	return tmin, axisNormal(entryAxis, entrySign), true
}

// IntersectPlane intersects the ray with the plane through point with unit
// normal n. Only the front face is hit.
func (r Ray) IntersectPlane(point, n math.Vec3) (t float32, hit bool) {
	denom := r.Direction.Dot(n)
	if denom > -1e-6 {
		return 0, false // Parallel or moving away from the front face
	}
	t = point.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
