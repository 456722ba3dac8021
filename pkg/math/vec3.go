// Package math provides math types and functions for game development.
package math

import "math"

// Vec3 is a 3D vector. The world is Y-up and an actor's forward is +Z.
type Vec3 struct {
	X, Y, Z float32
}

// Common axis vectors.
var (
	Zero3   = Vec3{}
	Up      = Vec3{0, 1, 0}
	Down    = Vec3{0, -1, 0}
	Forward = Vec3{0, 0, 1}
	Right   = Vec3{1, 0, 0}
)

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// LengthSq returns the squared magnitude.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector, or the zero vector if v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// XZ returns the XZ components as Vec2.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

// Horizontal returns v with the Y component zeroed.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{v.X, 0, v.Z}
}

// WithY returns v with its Y component replaced.
func (v Vec3) WithY(y float32) Vec3 {
	return Vec3{v.X, y, v.Z}
}

// ProjectOnPlane removes the component of v along the plane normal n.
// n does not need to be normalized; a zero normal returns v unchanged.
func (v Vec3) ProjectOnPlane(n Vec3) Vec3 {
	sq := n.LengthSq()
	if sq < 1e-12 {
		return v
	}
	return v.Sub(n.Scale(v.Dot(n) / sq))
}

// AngleDeg returns the unsigned angle between v and other in degrees.
// Returns 0 if either vector is degenerate.
func (v Vec3) AngleDeg(other Vec3) float32 {
	denom := math.Sqrt(float64(v.LengthSq()) * float64(other.LengthSq()))
	if denom < 1e-15 {
		return 0
	}
	cos := Clamp(float32(float64(v.Dot(other))/denom), -1, 1)
	return float32(math.Acos(float64(cos)) * 180 / math.Pi)
}

// Clamp limits f to the [lo, hi] range.
func Clamp(f, lo, hi float32) float32 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Clamp01 limits f to [0, 1].
func Clamp01(f float32) float32 {
	return Clamp(f, 0, 1)
}
