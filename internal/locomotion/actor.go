// Package locomotion decides, every physics tick, how a rigid-body actor
// should be pushed and turned: it classifies the ground beneath the actor,
// converts a steering direction into a force command and rotates the actor
// toward its target.
package locomotion

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// ErrNoBody is returned when an actor is built without a rigid body.
var ErrNoBody = errors.New("locomotion: actor has no body")

// ErrDegenerateCollider is returned when the body's bounds cannot hold a
// sphere-cast footprint.
var ErrDegenerateCollider = errors.New("locomotion: degenerate collider")

// StepProbe holds the two local-space sample points used for stair
// detection. Upper sits exactly StepHeight above Lower; the offset is fixed
// when the probe is built and never recomputed.
type StepProbe struct {
	Lower math.Vec3
	Upper math.Vec3
}

// NewStepProbe places the upper point stepHeight above the lower one,
// keeping the upper point's horizontal placement.
func NewStepProbe(lower, upper math.Vec3, stepHeight float32) StepProbe {
	return StepProbe{
		Lower: lower,
		Upper: math.Vec3{X: upper.X, Y: lower.Y + stepHeight, Z: upper.Z},
	}
}

// Actor is one locomoting entity: a rigid-body handle, its collider extent
// and the tuning it was spawned with.
type Actor struct {
	Name    string
	Body    physics.Body
	Profile config.Profile

	Radius float32 // Collider radius, half the X extent of the bounds
	Height float32 // Collider height, full Y extent of the bounds
	Probe  StepProbe
}

// NewActor builds an actor around body. The profile is validated and copied;
// the collider extent is read once from the body's bounds.
func NewActor(name string, body physics.Body, profile config.Profile) (*Actor, error) {
	if body == nil {
		return nil, ErrNoBody
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("actor %s: %w", name, err)
	}

	size := body.Bounds().Size()
	radius := size.X * 0.5
	if radius <= profile.SkinWidth || size.Y < 2*radius {
		return nil, fmt.Errorf("%w: actor %s radius %v height %v skin %v",
			ErrDegenerateCollider, name, radius, size.Y, profile.SkinWidth)
	}

	return &Actor{
		Name:    name,
		Body:    body,
		Profile: profile,
		Radius:  radius,
		Height:  size.Y,
		Probe:   NewStepProbe(profile.LowerStepPoint, profile.UpperStepPoint, profile.StepHeight),
	}, nil
}

// ToWorld converts a point local to the actor into world space.
func (a *Actor) ToWorld(local math.Vec3) math.Vec3 {
	return a.Body.Position().Add(a.Body.Rotation().Rotate(local))
}

// DirectionTo returns the normalized horizontal direction from the actor to
// p, or the zero vector when p is directly above or below the actor.
func (a *Actor) DirectionTo(p math.Vec3) math.Vec3 {
	return p.Sub(a.Body.Position()).Horizontal().Normalize()
}
