package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromYaw returns a rotation of yawDeg degrees around world up.
// Yaw 0 faces +Z, yaw 90 faces +X.
func QuatFromYaw(yawDeg float32) Quat {
	return QuatFromAxisAngle(Up, yawDeg*math.Pi/180)
}

// QuatFromEuler builds a rotation that applies pitch (around X) and then yaw
// (around Y), both in degrees.
func QuatFromEuler(pitchDeg, yawDeg float32) Quat {
	pitch := QuatFromAxisAngle(Right, pitchDeg*math.Pi/180)
	return QuatFromYaw(yawDeg).Mul(pitch)
}

// LookRotation returns the rotation whose forward axis points along dir,
// keeping world up as the reference. A zero dir yields the identity.
func LookRotation(dir Vec3) Quat {
	d := dir.Normalize()
	if d.IsZero() {
		return QuatIdentity()
	}
	yaw := float32(math.Atan2(float64(d.X), float64(d.Z)) * 180 / math.Pi)
	pitch := float32(-math.Asin(float64(Clamp(d.Y, -1, 1))) * 180 / math.Pi)
	return QuatFromEuler(pitch, yaw)
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Slerp performs spherical linear interpolation between two quaternions.
// t is clamped to [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	t = Clamp01(t)
	dot := q.Dot(other)

	// Take the shorter path
	if dot < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		dot = -dot
	}

	// Nearly parallel: fall back to lerp to avoid dividing by sin(0)
	if dot > 0.9995 {
		return Quat{
			X: q.X + t*(other.X-q.X),
			Y: q.Y + t*(other.Y-q.Y),
			Z: q.Z + t*(other.Z-q.Z),
			W: q.W + t*(other.W-q.W),
		}.Normalize()
	}

	theta0 := float32(math.Acos(float64(dot)))
	theta := theta0 * t
	sinTheta := float32(math.Sin(float64(theta)))
	sinTheta0 := float32(math.Sin(float64(theta0)))

	s0 := float32(math.Cos(float64(theta))) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quat{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}
}

// Mul multiplies two quaternions (combines rotations, other applied first).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward returns the rotated +Z axis.
func (q Quat) Forward() Vec3 {
	return q.Rotate(Forward)
}

// Up returns the rotated +Y axis.
func (q Quat) Up() Vec3 {
	return q.Rotate(Up)
}

// Right returns the rotated +X axis.
func (q Quat) Right() Vec3 {
	return q.Rotate(Right)
}

// Yaw returns the heading of the rotated forward axis in degrees, in [0, 360).
// A forward axis pointing straight up or down has heading 0.
func (q Quat) Yaw() float32 {
	f := q.Forward()
	if f.X == 0 && f.Z == 0 {
		return 0
	}
	return WrapDeg(float32(math.Atan2(float64(f.X), float64(f.Z)) * 180 / math.Pi))
}

// WrapDeg maps an angle in degrees into [0, 360).
func WrapDeg(a float32) float32 {
	r := float32(math.Mod(float64(a), 360))
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r -= 360
	}
	return r
}

// DeltaDeg returns the shortest signed difference to - from in degrees,
// in (-180, 180].
func DeltaDeg(from, to float32) float32 {
	d := WrapDeg(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}
