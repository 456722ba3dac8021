package locomotion

import (
	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

type sphereCall struct {
	origin   math.Vec3
	radius   float32
	dir      math.Vec3
	distance float32
	mask     physics.Mask
}

type rayCall struct {
	origin   math.Vec3
	dir      math.Vec3
	distance float32
}

// fakeWorld answers sphere casts with a fixed result and ray casts by
// height: rays starting below splitY report lowerHit, the rest upperHit.
type fakeWorld struct {
	ground   *physics.Hit
	lowerHit bool
	upperHit bool
	splitY   float32
	gravity  math.Vec3

	spheres []sphereCall
	rays    []rayCall
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{splitY: 0.25, gravity: physics.StandardGravity}
}

func (w *fakeWorld) flat() *fakeWorld {
	w.ground = &physics.Hit{Distance: 0.5, Normal: math.Up}
	return w
}

func (w *fakeWorld) withNormal(n math.Vec3) *fakeWorld {
	w.ground = &physics.Hit{Distance: 0.5, Normal: n.Normalize()}
	return w
}

func (w *fakeWorld) SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDistance float32, mask physics.Mask) (physics.Hit, bool) {
	w.spheres = append(w.spheres, sphereCall{origin, radius, dir, maxDistance, mask})
	if w.ground == nil {
		return physics.Hit{}, false
	}
	return *w.ground, true
}

func (w *fakeWorld) Raycast(origin, dir math.Vec3, maxDistance float32, mask physics.Mask) (physics.Hit, bool) {
	w.rays = append(w.rays, rayCall{origin, dir, maxDistance})
	if origin.Y < w.splitY {
		return physics.Hit{Distance: maxDistance / 2, Normal: dir.Neg()}, w.lowerHit
	}
	return physics.Hit{Distance: maxDistance / 2, Normal: dir.Neg()}, w.upperHit
}

func (w *fakeWorld) Gravity() math.Vec3 {
	return w.gravity
}

type forceCall struct {
	force math.Vec3
	mode  physics.ForceMode
}

// fakeBody is a capsule-sized body centered on pos that records writes.
type fakeBody struct {
	pos  math.Vec3
	rot  math.Quat
	vel  math.Vec3
	size math.Vec3

	drag       float32
	useGravity bool
	forces     []forceCall
	rotations  []math.Quat
	velocities []math.Vec3
}

func newFakeBody(pos math.Vec3) *fakeBody {
	return &fakeBody{
		pos:        pos,
		rot:        math.QuatIdentity(),
		size:       math.Vec3{X: 1, Y: 2, Z: 1},
		drag:       -1,
		useGravity: true,
	}
}

func (b *fakeBody) Position() math.Vec3 { return b.pos }
func (b *fakeBody) Rotation() math.Quat { return b.rot }
func (b *fakeBody) Velocity() math.Vec3 { return b.vel }
func (b *fakeBody) Bounds() physics.Bounds {
	return physics.BoundsFromCenter(b.pos, b.size)
}

func (b *fakeBody) SetVelocity(v math.Vec3) {
	b.vel = v
	b.velocities = append(b.velocities, v)
}
func (b *fakeBody) SetDrag(d float32)     { b.drag = d }
func (b *fakeBody) SetUseGravity(on bool) { b.useGravity = on }
func (b *fakeBody) AddForce(f math.Vec3, mode physics.ForceMode) {
	b.forces = append(b.forces, forceCall{f, mode})
}
func (b *fakeBody) MoveRotation(q math.Quat) {
	b.rot = q
	b.rotations = append(b.rotations, q)
}

func mustActor(body physics.Body, p config.Profile) *Actor {
	a, err := NewActor("test", body, p)
	if err != nil {
		panic(err)
	}
	return a
}

func approxEqual(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}
