// Package world is a small reference physics host: static colliders, ray
// and sphere casts, rigid bodies with linear drag and a sweep-based
// kinematic character controller. It is enough to drive the locomotion
// core end to end without a game engine.
package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/logger"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// solverIterations bounds the penetration passes per body per step.
const solverIterations = 4

// walkableNormalY is the minimum up component of a contact normal that
// counts as ground.
const walkableNormalY = 0.7

// solidMask selects everything bodies and controllers collide with.
const solidMask = physics.MaskAll &^ physics.LayerTrigger

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		w.log = logger.OrNop(l)
	}
}

// World owns static colliders and the bodies it integrates.
type World struct {
	gravity   math.Vec3
	colliders []Collider
	bodies    []*Body
	log       *zap.Logger
}

// New creates an empty world.
func New(gravity math.Vec3, opts ...Option) *World {
	w := &World{gravity: gravity, log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Gravity returns the world gravity.
func (w *World) Gravity() math.Vec3 {
	return w.gravity
}

// Add registers static colliders.
func (w *World) Add(colliders ...Collider) {
	w.colliders = append(w.colliders, colliders...)
}

// Colliders returns the registered colliders.
func (w *World) Colliders() []Collider {
	return w.colliders
}

// Bodies returns the bodies, including destroyed ones.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Raycast returns the closest hit of a ray against colliders in mask.
func (w *World) Raycast(origin, dir math.Vec3, maxDistance float32, mask physics.Mask) (physics.Hit, bool) {
	return w.SphereCast(origin, 0, dir, maxDistance, mask)
}

// SphereCast returns the closest hit of a swept sphere against colliders
// in mask.
func (w *World) SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDistance float32, mask physics.Mask) (physics.Hit, bool) {
	d := dir.Normalize()
	if d.IsZero() || maxDistance < 0 {
		return physics.Hit{}, false
	}
	r := Ray{Origin: origin, Direction: d}

	var best physics.Hit
	found := false
	for _, c := range w.colliders {
		if !mask.Matches(c.Layer()) {
			continue
		}
		hit, ok := c.Cast(r, radius, maxDistance)
		if ok && (!found || hit.Distance < best.Distance) {
			best, found = hit, true
		}
	}
	return best, found
}

// Step integrates every live body by dt seconds and resolves its contacts
// with static geometry. Bodies do not collide with each other.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.destroyed {
			continue
		}
		b.integrate(w.gravity, dt)
		b.grounded = w.resolveCapsule(&b.pos, &b.vel, b.radius(), b.size.Y, solidMask).Has(physics.CollisionBelow)
	}
}

// resolveCapsule pushes an upright capsule centered at pos out of static
// geometry in mask and removes the velocity driving it into contacts.
func (w *World) resolveCapsule(pos, vel *math.Vec3, radius, height float32, mask physics.Mask) physics.CollisionFlags {
	flags := physics.CollisionNone
	offset := height/2 - radius
	if offset < 0 {
		offset = 0
	}
	spheres := [...]float32{-offset, 0, offset}

	for range solverIterations {
		moved := false
		for _, dy := range spheres {
			center := pos.Add(math.Vec3{Y: dy})
			for _, c := range w.colliders {
				if !mask.Matches(c.Layer()) {
					continue
				}
				depth, n, ok := c.Penetration(center, radius)
				if !ok || depth <= 1e-6 {
					continue
				}
				*pos = pos.Add(n.Scale(depth))
				center = center.Add(n.Scale(depth))
				if vel != nil {
					if vn := vel.Dot(n); vn < 0 {
						*vel = vel.Sub(n.Scale(vn))
					}
				}
				flags |= classifyContact(n)
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return flags
}

func classifyContact(n math.Vec3) physics.CollisionFlags {
	switch {
	case n.Y >= walkableNormalY:
		return physics.CollisionBelow
	case n.Y <= -walkableNormalY:
		return physics.CollisionAbove
	default:
		return physics.CollisionSides
	}
}
