package locomotion

import (
	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Regime names the branch of the force policy that produced a command.
type Regime uint8

const (
	RegimeIdle Regime = iota
	RegimeSlope
	RegimeStairs
	RegimePlane
)

// String returns the regime name.
func (r Regime) String() string {
	switch r {
	case RegimeIdle:
		return "idle"
	case RegimeSlope:
		return "slope"
	case RegimeStairs:
		return "stairs"
	case RegimePlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Command is the propulsive output of one tick.
type Command struct {
	Regime     Regime
	Force      math.Vec3 // Continuous force, world space
	UseGravity bool
}

// Apply writes the command to body. Idle commands write nothing.
func (c Command) Apply(body physics.Body) {
	if c.Regime == RegimeIdle {
		return
	}
	body.SetUseGravity(c.UseGravity)
	body.AddForce(c.Force, physics.ForceContinuous)
}

// Support is the per-tick ground support: drag while in contact, extra
// gravity while airborne.
type Support struct {
	Drag  float32
	Force math.Vec3 // Zero while grounded
}

// Apply writes the support to body.
func (s Support) Apply(body physics.Body) {
	body.SetDrag(s.Drag)
	if !s.Force.IsZero() {
		body.AddForce(s.Force, physics.ForceContinuous)
	}
}

// ForceModel turns a classification and a steering direction into force.
type ForceModel struct {
	speed      float32
	plane      float32
	slope      float32
	stairs     float32
	stepHeight float32
	groundDrag float32
	fallForce  math.Vec3
}

// NewForceModel builds a force model from a profile and the world gravity.
func NewForceModel(p config.Profile, gravity math.Vec3) ForceModel {
	return ForceModel{
		speed:      p.MoveSpeed,
		plane:      p.PlaneForce,
		slope:      p.SlopeForce,
		stairs:     p.StairsForce,
		stepHeight: p.StepHeight,
		groundDrag: p.GroundDrag,
		fallForce:  gravity.Scale(p.GravityFactor),
	}
}

// Speed returns the horizontal speed cap.
func (m ForceModel) Speed() float32 {
	return m.speed
}

// Compute evaluates the force policy in priority order: slope, stairs, then
// flat ground or air. dir is the horizontal direction to the target and up
// is the actor's local up axis.
func (m ForceModel) Compute(cls Classification, dir, up math.Vec3) Command {
	switch {
	case cls.OnSlope:
		along := dir.ProjectOnPlane(cls.GroundNormal).Normalize()
		return Command{
			Regime: RegimeSlope,
			Force:  along.Scale(m.speed * m.slope),
		}
	case cls.BeforeStairs:
		// Sized by the configured step height, not the obstacle's
		return Command{
			Regime: RegimeStairs,
			Force:  up.Scale(m.stairs * m.stepHeight * m.speed),
		}
	default:
		return Command{
			Regime:     RegimePlane,
			Force:      dir.Scale(m.speed * m.plane),
			UseGravity: true,
		}
	}
}

// Support returns the ground support for cls.
func (m ForceModel) Support(cls Classification) Support {
	if cls.Grounded {
		return Support{Drag: m.groundDrag}
	}
	return Support{Drag: 0, Force: m.fallForce}
}

// Clamp limits the body's horizontal velocity to the speed cap.
func (m ForceModel) Clamp(body physics.Body) {
	v := body.Velocity()
	if clamped := ClampHorizontal(v, m.speed); clamped != v {
		body.SetVelocity(clamped)
	}
}

// ClampHorizontal rescales the XZ part of v to exactly limit when it is
// faster than limit. The vertical component is never touched.
func ClampHorizontal(v math.Vec3, limit float32) math.Vec3 {
	h := v.Horizontal()
	if h.Length() <= limit {
		return v
	}
	h = h.Normalize().Scale(limit)
	return math.Vec3{X: h.X, Y: v.Y, Z: h.Z}
}
