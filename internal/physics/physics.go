// Package physics defines the boundary between the locomotion core and the
// physics host: collision queries, rigid-body mutators and read accessors.
package physics

import (
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// StandardGravity is the default world gravity in units per second squared.
var StandardGravity = math.Vec3{X: 0, Y: -9.81, Z: 0}

// Mask selects collision layers for a query. A collider matches a query when
// the two masks share at least one bit.
type Mask uint32

// Collision layers.
const (
	LayerDefault Mask = 1 << iota
	LayerGround
	LayerActor
	LayerTrigger
)

// MaskAll matches every layer.
const MaskAll Mask = ^Mask(0)

// Matches reports whether layer is selected by m.
func (m Mask) Matches(layer Mask) bool {
	return m&layer != 0
}

// Hit describes the first contact of a cast.
type Hit struct {
	Distance float32   // Distance travelled along the cast direction
	Point    math.Vec3 // Contact point in world space
	Normal   math.Vec3 // Surface normal at the contact, unit length
	Layer    Mask      // Layer of the collider that was hit
}

// Caster provides synchronous collision queries against the current state
// of the physics world. A miss is reported as ok == false, never as an error.
type Caster interface {
	// SphereCast sweeps a sphere of the given radius from origin along dir.
	SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDistance float32, mask Mask) (hit Hit, ok bool)
	// Raycast casts an infinitely thin ray from origin along dir.
	Raycast(origin, dir math.Vec3, maxDistance float32, mask Mask) (hit Hit, ok bool)
}

// World is a Caster that also exposes its gravity vector.
type World interface {
	Caster
	Gravity() math.Vec3
}

// ForceMode selects how AddForce is integrated.
type ForceMode uint8

const (
	// ForceContinuous is integrated over the step using the body's mass.
	ForceContinuous ForceMode = iota
	// ForceImpulse changes momentum instantly.
	ForceImpulse
	// ForceVelocityChange changes velocity instantly, ignoring mass.
	ForceVelocityChange
)

// String returns the force mode name.
func (m ForceMode) String() string {
	switch m {
	case ForceContinuous:
		return "continuous"
	case ForceImpulse:
		return "impulse"
	case ForceVelocityChange:
		return "velocity_change"
	default:
		return "unknown"
	}
}

// Body is a handle to a rigid body owned by the physics host. The host
// integrates velocity; callers only write desired force, drag, gravity and
// rotation each tick.
type Body interface {
	Position() math.Vec3
	Rotation() math.Quat
	Velocity() math.Vec3
	Bounds() Bounds

	SetVelocity(v math.Vec3)
	SetDrag(drag float32)
	SetUseGravity(enabled bool)
	AddForce(force math.Vec3, mode ForceMode)
	// MoveRotation sets the orientation directly, bypassing interpolation.
	MoveRotation(q math.Quat)
}

// CollisionFlags reports which sides of a swept shape touched geometry
// during a kinematic move.
type CollisionFlags uint8

const (
	CollisionSides CollisionFlags = 1 << iota
	CollisionAbove
	CollisionBelow
)

// CollisionNone means the move was unobstructed.
const CollisionNone CollisionFlags = 0

// Has reports whether every flag in f is set.
func (c CollisionFlags) Has(f CollisionFlags) bool {
	return c&f == f
}
