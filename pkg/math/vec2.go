package math

// Vec2 is a 2D vector, used for input axes and horizontal footprints.
type Vec2 struct {
	X, Y float32
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// ClampAxes limits each component to [-1, 1], the range of a joystick or
// keyboard axis.
func (v Vec2) ClampAxes() Vec2 {
	return Vec2{Clamp(v.X, -1, 1), Clamp(v.Y, -1, 1)}
}

// ToXZ lifts v onto the horizontal plane as (X, 0, Y).
func (v Vec2) ToXZ() Vec3 {
	return Vec3{v.X, 0, v.Y}
}
