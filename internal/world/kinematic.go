package world

import (
	gomath "math"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// KinematicConfig sizes a kinematic character controller.
type KinematicConfig struct {
	Radius     float32
	Height     float32
	StepOffset float32 // Tallest ledge climbed without jumping
	SkinWidth  float32
	Mask       physics.Mask // Layers the controller collides with
}

// Kinematic is a sweep-based character controller. It is moved by explicit
// displacements, never by forces, and only collides with static geometry.
type Kinematic struct {
	world *World
	cfg   KinematicConfig

	pos   math.Vec3
	vel   math.Vec3
	flags physics.CollisionFlags
}

// NewKinematic places a controller centered at pos.
func (w *World) NewKinematic(pos math.Vec3, cfg KinematicConfig) *Kinematic {
	if cfg.Mask == 0 {
		cfg.Mask = solidMask
	}
	if cfg.Height < 2*cfg.Radius {
		cfg.Height = 2 * cfg.Radius
	}
	return &Kinematic{world: w, cfg: cfg, pos: pos}
}

// Position returns the center of the controller.
func (k *Kinematic) Position() math.Vec3 { return k.pos }

// SetPosition teleports the controller and clears its contact state.
func (k *Kinematic) SetPosition(p math.Vec3) {
	k.pos = p
	k.flags = physics.CollisionNone
}

// Velocity returns the displacement of the last move divided by its dt.
func (k *Kinematic) Velocity() math.Vec3 { return k.vel }

// Grounded reports whether the last move touched walkable ground below.
func (k *Kinematic) Grounded() bool { return k.flags.Has(physics.CollisionBelow) }

// Flags returns the contacts of the last move.
func (k *Kinematic) Flags() physics.CollisionFlags { return k.flags }

// Move displaces the controller by delta over a frame of dt seconds. The
// horizontal part is applied first, climbing ledges up to StepOffset, then
// the vertical part.
func (k *Kinematic) Move(delta math.Vec3, dt float32) physics.CollisionFlags {
	start := k.pos
	flags := physics.CollisionNone

	if h := delta.Horizontal(); !h.IsZero() {
		flags |= k.moveHorizontal(h)
	}
	if delta.Y != 0 {
		flags |= k.sweep(math.Vec3{Y: delta.Y})
	}

	k.flags = flags
	if dt > 0 {
		k.vel = k.pos.Sub(start).Scale(1 / dt)
	}
	return flags
}

func (k *Kinematic) moveHorizontal(h math.Vec3) physics.CollisionFlags {
	from := k.pos
	flags := k.sweep(h)
	if !flags.Has(physics.CollisionSides) || k.cfg.StepOffset <= 0 {
		return flags
	}

	blocked := k.pos
	progress := blocked.Sub(from).Horizontal().Length()

	// Retry one step higher, then settle back down onto the ledge
	k.pos = from
	up := k.sweep(math.Vec3{Y: k.cfg.StepOffset})
	if up.Has(physics.CollisionAbove) {
		k.pos = blocked
		return flags
	}
	stepped := k.sweep(h)
	k.settle()

	if k.pos.Sub(from).Horizontal().Length() <= progress+1e-4 {
		k.pos = blocked
		return flags
	}
	return stepped&^physics.CollisionSides | physics.CollisionBelow
}

// settle drops the controller back by at most StepOffset onto whatever is
// below it.
func (k *Kinematic) settle() {
	radius := k.cfg.Radius - k.cfg.SkinWidth
	bottom := k.pos.Sub(math.Vec3{Y: k.cfg.Height/2 - k.cfg.Radius})
	drop := k.cfg.StepOffset
	if hit, ok := k.world.SphereCast(bottom, radius, math.Down, drop+k.cfg.SkinWidth, k.cfg.Mask); ok {
		drop = hit.Distance - k.cfg.SkinWidth
		if drop < 0 {
			drop = 0
		}
	}
	k.pos = k.pos.Sub(math.Vec3{Y: drop})
	k.world.resolveCapsule(&k.pos, nil, k.cfg.Radius, k.cfg.Height, k.cfg.Mask)
}

// sweep moves by delta in sub-steps no longer than half the radius so thin
// geometry is not skipped, resolving penetration after each.
func (k *Kinematic) sweep(delta math.Vec3) physics.CollisionFlags {
	length := delta.Length()
	maxStep := k.cfg.Radius * 0.5
	steps := 1
	if maxStep > 0 && length > maxStep {
		steps = int(gomath.Ceil(float64(length / maxStep)))
	}
	part := delta.Scale(1 / float32(steps))

	flags := physics.CollisionNone
	for range steps {
		k.pos = k.pos.Add(part)
		flags |= k.world.resolveCapsule(&k.pos, nil, k.cfg.Radius, k.cfg.Height, k.cfg.Mask)
	}
	return flags
}
