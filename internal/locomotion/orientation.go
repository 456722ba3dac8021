package locomotion

import (
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// DefaultYawDeadZone is the heading error, in degrees, below which no
// correction is made.
const DefaultYawDeadZone = 1

// Orientation turns an actor's yaw toward a direction with a dead zone.
type Orientation struct {
	DeadZone float32 // Degrees
}

// NewOrientation creates an orientation controller; a negative dead zone is
// treated as zero.
func NewOrientation(deadZone float32) Orientation {
	if deadZone < 0 {
		deadZone = 0
	}
	return Orientation{DeadZone: deadZone}
}

// Step returns the orientation after one tick of turning from current toward
// dir at rate speed*dt. The vertical part of dir is ignored. A zero
// direction, or a heading error within the dead zone, leaves current as is;
// changed reports whether a new orientation was produced.
func (o Orientation) Step(current math.Quat, dir math.Vec3, speed, dt float32) (next math.Quat, changed bool) {
	flat := dir.Horizontal().Normalize()
	if flat.IsZero() {
		return current, false
	}

	target := math.LookRotation(flat)
	if o.YawError(current, target) <= o.DeadZone {
		return current, false
	}

	t := math.Clamp01(speed * dt)
	if t == 0 {
		return current, false
	}
	return current.Slerp(target, t), true
}

// YawError returns the unsigned shortest-arc heading difference in degrees.
func (o Orientation) YawError(current, target math.Quat) float32 {
	d := math.DeltaDeg(current.Yaw(), target.Yaw())
	if d < 0 {
		d = -d
	}
	return d
}
