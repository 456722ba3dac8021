package locomotion

import (
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Target is something an actor steers toward. ok is false when the target
// is absent or has been destroyed; the actor is idle for that tick.
type Target interface {
	Position() (p math.Vec3, ok bool)
}

// PointTarget is a fixed world position.
type PointTarget math.Vec3

// Position returns the point.
func (p PointTarget) Position() (math.Vec3, bool) {
	return math.Vec3(p), true
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func() (math.Vec3, bool)

// Position calls f.
func (f TargetFunc) Position() (math.Vec3, bool) {
	if f == nil {
		return math.Vec3{}, false
	}
	return f()
}
