package locomotion

import (
	"fmt"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Classification is the ground state of an actor for a single tick. It is
// computed fresh each tick and passed explicitly to the force model.
type Classification struct {
	Grounded     bool
	OnSlope      bool
	GroundNormal math.Vec3
	SlopeAngle   float32 // Degrees between world up and GroundNormal
	BeforeStairs bool
}

// String returns a compact description for logs.
func (c Classification) String() string {
	switch {
	case !c.Grounded && c.BeforeStairs:
		return "airborne+stairs"
	case !c.Grounded:
		return "airborne"
	case c.OnSlope:
		return fmt.Sprintf("slope(%.1f)", c.SlopeAngle)
	case c.BeforeStairs:
		return "stairs"
	default:
		return "flat"
	}
}

// IsSlope reports whether angle counts as a traversable slope. Exactly flat
// ground (0) is never a slope, and neither is anything at or past maxAngle.
func IsSlope(angle, maxAngle float32) bool {
	return angle > 0 && angle < maxAngle
}

// StairVerdict combines the two stair ray results: a low obstacle with
// headroom above it is a step, anything else is not.
func StairVerdict(lowerHit, upperHit bool) bool {
	return lowerHit && !upperHit
}

// GroundProbe classifies ground contact, slope and stair presence beneath an
// actor using the host's collision queries.
type GroundProbe struct {
	caster physics.Caster
}

// NewGroundProbe creates a probe that queries caster.
func NewGroundProbe(caster physics.Caster) *GroundProbe {
	return &GroundProbe{caster: caster}
}

// Classify runs the ground and stair tests for a.
func (g *GroundProbe) Classify(a *Actor) Classification {
	cls := g.ground(a)
	cls.BeforeStairs = g.stairs(a)
	return cls
}

// ground sweeps a sphere slightly narrower than the collider down from its
// center, far enough to reach just past the collider's bottom.
func (g *GroundProbe) ground(a *Actor) Classification {
	p := a.Profile
	center := a.Body.Bounds().Center()
	radius := a.Radius - p.SkinWidth
	distance := a.Height*0.5 - a.Radius + 2*p.SkinWidth

	hit, ok := g.caster.SphereCast(center, radius, math.Down, distance, p.GroundMask)
	if !ok {
		return Classification{}
	}

	angle := math.Up.AngleDeg(hit.Normal)
	return Classification{
		Grounded:     true,
		OnSlope:      IsSlope(angle, p.MaxSlopeAngle),
		GroundNormal: hit.Normal,
		SlopeAngle:   angle,
	}
}

// stairs casts a short forward ray at foot level and, if it is blocked, a
// second one StepHeight higher.
func (g *GroundProbe) stairs(a *Actor) bool {
	p := a.Profile
	forward := a.Body.Rotation().Forward()

	lowerLength := p.StairLowerReach + a.Radius - a.Probe.Lower.Z
	if lowerLength <= 0 {
		return false
	}
	_, lowerHit := g.caster.Raycast(a.ToWorld(a.Probe.Lower), forward, lowerLength, p.GroundMask)
	if !lowerHit {
		return false
	}

	_, upperHit := g.caster.Raycast(a.ToWorld(a.Probe.Upper), forward, p.StairUpperReach, p.GroundMask)
	return StairVerdict(lowerHit, upperHit)
}
