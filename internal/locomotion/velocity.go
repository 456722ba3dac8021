package locomotion

import (
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// VelocityDriver moves a rigid body by writing its velocity directly from
// two input axes. It has no ground classification; the body keeps its own
// vertical velocity and gains gravity over the frame.
type VelocityDriver struct {
	Speed   float32
	Gravity math.Vec3
}

// Drive sets body's velocity from axes (X = strafe, Y = forward, both in
// world XZ) for a frame of dt seconds. The host's own gravity is switched
// off so that the driver's gravity is the only one applied.
func (v VelocityDriver) Drive(body physics.Body, axes math.Vec2, dt float32) math.Vec3 {
	body.SetUseGravity(false)
	next := axes.ClampAxes().ToXZ().Scale(v.Speed)
	next.Y = body.Velocity().Y
	next = next.Add(v.Gravity.Scale(dt))
	body.SetVelocity(next)
	return next
}
