package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Body is a rigid body with an upright capsule collider. Its rotation is
// written by controllers and never tilts the collider.
type Body struct {
	Name string

	pos  math.Vec3
	vel  math.Vec3
	rot  math.Quat
	size math.Vec3

	mass       float32
	drag       float32
	useGravity bool

	force  math.Vec3 // Continuous forces for the next step
	deltaV math.Vec3 // Instant velocity changes for the next step

	grounded  bool
	destroyed bool
}

// NewBody adds a body centered at pos whose bounds have the given full
// size. The capsule radius is half the X extent. Non-positive mass is
// treated as 1.
func (w *World) NewBody(name string, pos, size math.Vec3, mass float32) *Body {
	if mass <= 0 {
		mass = 1
	}
	b := &Body{
		Name:       name,
		pos:        pos,
		rot:        math.QuatIdentity(),
		size:       size,
		mass:       mass,
		useGravity: true,
	}
	w.bodies = append(w.bodies, b)
	w.log.Debug("body added",
		zap.String("name", name),
		zap.Float32("mass", mass),
		zap.Float32("radius", b.radius()),
	)
	return b
}

var _ physics.Body = (*Body)(nil)

func (b *Body) radius() float32 { return b.size.X * 0.5 }

// Position returns the center of the body.
func (b *Body) Position() math.Vec3 { return b.pos }

// SetPosition teleports the body.
func (b *Body) SetPosition(p math.Vec3) { b.pos = p }

// Rotation returns the body's orientation.
func (b *Body) Rotation() math.Quat { return b.rot }

// Velocity returns the linear velocity.
func (b *Body) Velocity() math.Vec3 { return b.vel }

// Bounds returns the world-space bounds of the collider.
func (b *Body) Bounds() physics.Bounds { return physics.BoundsFromCenter(b.pos, b.size) }

// SetVelocity overwrites the linear velocity.
func (b *Body) SetVelocity(v math.Vec3) { b.vel = v }

// SetDrag sets the linear drag coefficient. Negative values clamp to zero.
func (b *Body) SetDrag(drag float32) {
	if drag < 0 {
		drag = 0
	}
	b.drag = drag
}

// Drag returns the linear drag coefficient.
func (b *Body) Drag() float32 { return b.drag }

// SetUseGravity toggles world gravity for this body.
func (b *Body) SetUseGravity(enabled bool) { b.useGravity = enabled }

// UseGravity reports whether world gravity applies.
func (b *Body) UseGravity() bool { return b.useGravity }

// AddForce queues a force for the next step.
func (b *Body) AddForce(force math.Vec3, mode physics.ForceMode) {
	switch mode {
	case physics.ForceImpulse:
		b.deltaV = b.deltaV.Add(force.Scale(1 / b.mass))
	case physics.ForceVelocityChange:
		b.deltaV = b.deltaV.Add(force)
	default:
		b.force = b.force.Add(force)
	}
}

// MoveRotation sets the orientation.
func (b *Body) MoveRotation(q math.Quat) { b.rot = q.Normalize() }

// Grounded reports whether the last step ended with a walkable contact.
func (b *Body) Grounded() bool { return b.grounded }

// Destroy removes the body from simulation. It keeps its last state.
func (b *Body) Destroy() { b.destroyed = true }

// Destroyed reports whether Destroy was called.
func (b *Body) Destroyed() bool { return b.destroyed }

// integrate applies queued forces, gravity and drag, then moves the body.
// Drag follows v *= max(0, 1 - drag*dt).
func (b *Body) integrate(gravity math.Vec3, dt float32) {
	accel := b.force.Scale(1 / b.mass)
	if b.useGravity {
		accel = accel.Add(gravity)
	}
	b.vel = b.vel.Add(accel.Scale(dt)).Add(b.deltaV)
	b.force = math.Vec3{}
	b.deltaV = math.Vec3{}

	damp := 1 - b.drag*dt
	if damp < 0 {
		damp = 0
	}
	b.vel = b.vel.Scale(damp)
	b.pos = b.pos.Add(b.vel.Scale(dt))
}
